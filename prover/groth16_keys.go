package prover

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/colorfulnotion/treasure/log"
	"github.com/colorfulnotion/treasure/types"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
)

const (
	ccsFile = "move.ccs"
	pkFile  = "move.pk"
	vkFile  = "move.vk"
)

func keyDir(dir string, cfg types.GameConfig) string {
	return filepath.Join(dir, fmt.Sprintf("grid%d", cfg.N))
}

func writeFile(path string, w io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func readFile(path string, r io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := r.ReadFrom(f); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// SaveKeys writes the constraint system and both keys under dir, one
// subdirectory per grid size.
func (b *Groth16Backend) SaveKeys(dir string) error {
	d := keyDir(dir, b.cfg)
	if err := os.MkdirAll(d, 0o755); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(d, ccsFile), b.ccs); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(d, pkFile), b.pk); err != nil {
		return err
	}
	return writeFile(filepath.Join(d, vkFile), b.vk)
}

// LoadGroth16Backend reads keys saved by SaveKeys and never runs setup, so a
// verifier cannot end up with keys of its own.
func LoadGroth16Backend(cfg types.GameConfig, dir string, foldKey []byte) (*Groth16Backend, error) {
	native, err := NewNativeBackend(cfg, foldKey)
	if err != nil {
		return nil, err
	}
	d := keyDir(dir, cfg)
	b := &Groth16Backend{
		cfg:    cfg,
		ccs:    groth16.NewCS(ecc.BN254),
		pk:     groth16.NewProvingKey(ecc.BN254),
		vk:     groth16.NewVerifyingKey(ecc.BN254),
		native: native,
	}
	if err := readFile(filepath.Join(d, ccsFile), b.ccs); err != nil {
		return nil, err
	}
	if err := readFile(filepath.Join(d, pkFile), b.pk); err != nil {
		return nil, err
	}
	if err := readFile(filepath.Join(d, vkFile), b.vk); err != nil {
		return nil, err
	}
	return b, nil
}

// OpenGroth16Backend reuses keys saved under dir, or runs setup and saves
// them there. Prover and verifier must share the same keys.
func OpenGroth16Backend(cfg types.GameConfig, dir string, foldKey []byte) (*Groth16Backend, error) {
	if dir == "" {
		return NewGroth16Backend(cfg, foldKey)
	}
	b, err := LoadGroth16Backend(cfg, dir, foldKey)
	if err == nil {
		log.Debug(log.ProverMonitoring, "groth16 keys loaded", "dir", keyDir(dir, cfg))
		return b, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	b, err = NewGroth16Backend(cfg, foldKey)
	if err != nil {
		return nil, err
	}
	if err := b.SaveKeys(dir); err != nil {
		return nil, err
	}
	log.Info(log.ProverMonitoring, "groth16 keys saved", "dir", keyDir(dir, cfg))
	return b, nil
}
