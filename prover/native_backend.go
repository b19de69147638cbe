package prover

import (
	"crypto/subtle"
	"encoding/binary"
	"fmt"

	"github.com/colorfulnotion/treasure/circuit"
	"github.com/colorfulnotion/treasure/gameerrors"
	"github.com/colorfulnotion/treasure/statedb"
	"github.com/colorfulnotion/treasure/types"
	"golang.org/x/crypto/blake2b"
)

var (
	moveTag = []byte("treasure/move")
	foldTag = []byte("treasure/fold")
)

// NativeBackend evaluates the relations in Go and seals accepted statements
// with a keyed blake2b MAC. Anyone holding the key can verify.
type NativeBackend struct {
	cfg types.GameConfig
	key []byte
}

// NewNativeBackend takes a MAC key of at most 64 bytes; nil means unkeyed.
func NewNativeBackend(cfg types.GameConfig, key []byte) (*NativeBackend, error) {
	if len(key) > blake2b.Size {
		return nil, fmt.Errorf("native backend: key is %d bytes, max %d", len(key), blake2b.Size)
	}
	return &NativeBackend{cfg: cfg, key: append([]byte(nil), key...)}, nil
}

func (b *NativeBackend) Name() string { return BackendNative }

func (b *NativeBackend) seal(tag []byte, stmt types.Statement, children ...[]byte) []byte {
	h, err := blake2b.New256(b.key)
	if err != nil {
		// key length is checked in NewNativeBackend
		panic(err)
	}
	h.Write(tag)
	// a seal is only valid on the grid it was made for
	h.Write(binary.BigEndian.AppendUint64(nil, b.cfg.N))
	h.Write(binary.BigEndian.AppendUint64(nil, uint64(b.cfg.Depth)))
	h.Write(stmt.Encode())
	for _, c := range children {
		h.Write(c)
	}
	return h.Sum(nil)
}

func (b *NativeBackend) check(want, got []byte) error {
	if len(got) != len(want) || subtle.ConstantTimeCompare(want, got) != 1 {
		return gameerrors.ErrFBadSeal
	}
	return nil
}

func (b *NativeBackend) ProveMove(stmt types.Statement, w *statedb.StepWitness) ([]byte, error) {
	if err := circuit.Play(b.cfg, stmt, w); err != nil {
		return nil, err
	}
	return b.seal(moveTag, stmt), nil
}

func (b *NativeBackend) VerifyMove(stmt types.Statement, seal []byte) error {
	if stmt.Moves != 1 {
		return gameerrors.ErrMMoveCount
	}
	return b.check(b.seal(moveTag, stmt), seal)
}

func (b *NativeBackend) ProveFold(out types.Statement, left, right Provable) ([]byte, error) {
	if err := circuit.Fold(out, left.Statement(), right.Statement()); err != nil {
		return nil, err
	}
	return b.seal(foldTag, out, left.Seal(), right.Seal()), nil
}

func (b *NativeBackend) VerifyFold(out types.Statement, left, right Provable, seal []byte) error {
	if err := circuit.Fold(out, left.Statement(), right.Statement()); err != nil {
		return err
	}
	return b.check(b.seal(foldTag, out, left.Seal(), right.Seal()), seal)
}
