package main

import (
	"errors"
	"fmt"

	"github.com/colorfulnotion/treasure/log"
	"github.com/colorfulnotion/treasure/prover"
	"github.com/colorfulnotion/treasure/treasuremaps"
	"github.com/colorfulnotion/treasure/types"
)

const defaultSealKey = "treasure-dev-key"

var errNoKeys = errors.New("groth16 verification needs --keys pointing at the prover's saved setup")

func openBackend(g *globalFlags, name string, cfg types.GameConfig) (prover.Backend, error) {
	switch name {
	case prover.BackendNative:
		return prover.NewNativeBackend(cfg, []byte(g.sealKey))
	case prover.BackendGroth16:
		return prover.OpenGroth16Backend(cfg, g.keysDir, []byte(g.sealKey))
	}
	return nil, fmt.Errorf("unknown backend %q (want %s or %s)", name, prover.BackendNative, prover.BackendGroth16)
}

// verifierSetup is what verify and submit check proofs against. It comes
// from the verifier's own flags, never from the proof file.
type verifierSetup struct {
	backend prover.Backend
	cfg     types.GameConfig
	m       *treasuremaps.TreasureMap // nil when only --grid was given
}

func openVerifier(g *globalFlags, name, mapID string, grid uint64) (*verifierSetup, error) {
	v := &verifierSetup{}
	var err error
	switch {
	case mapID != "":
		if v.m, v.cfg, err = loadMap(mapID); err != nil {
			return nil, err
		}
		if grid != 0 && grid != v.cfg.N {
			return nil, fmt.Errorf("--grid %d disagrees with map %s (%s)", grid, v.m.ID, v.cfg)
		}
	case grid != 0:
		if v.cfg, err = types.NewGameConfig(grid); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("give --map or --grid so the verifier knows the grid")
	}

	switch name {
	case prover.BackendNative:
		if g.sealKey == defaultSealKey {
			log.Warn(log.CLIMonitoring, "native verifier is using the public development seal key; anyone can forge proofs for it")
		}
		v.backend, err = prover.NewNativeBackend(v.cfg, []byte(g.sealKey))
	case prover.BackendGroth16:
		if g.keysDir == "" {
			return nil, errNoKeys
		}
		v.backend, err = prover.LoadGroth16Backend(v.cfg, g.keysDir, []byte(g.sealKey))
	default:
		err = fmt.Errorf("unknown backend %q (want %s or %s)", name, prover.BackendNative, prover.BackendGroth16)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// accept checks that env was made for this setup before any proof work.
func (v *verifierSetup) accept(env *prover.Envelope) error {
	return env.Check(v.backend.Name(), v.cfg)
}

func loadMap(id string) (*treasuremaps.TreasureMap, types.GameConfig, error) {
	m, err := treasuremaps.ReadMap(id)
	if err != nil {
		return nil, types.GameConfig{}, err
	}
	cfg, err := m.Config()
	return m, cfg, err
}
