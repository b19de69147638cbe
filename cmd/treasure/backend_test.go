package main

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/colorfulnotion/treasure/gameerrors"
	"github.com/colorfulnotion/treasure/prover"
	"github.com/colorfulnotion/treasure/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelopeFor(t *testing.T, g *globalFlags, backend string, cfg types.GameConfig, moves []uint64) *prover.Envelope {
	t.Helper()
	b, err := prover.NewNativeBackend(cfg, []byte(g.sealKey))
	require.NoError(t, err)
	root, _, err := prover.New(cfg, b).ProveGame(context.Background(), moves, map[uint64]uint64{1: 20})
	require.NoError(t, err)
	data, err := prover.MarshalEnvelope(backend, cfg, root)
	require.NoError(t, err)
	env, _, err := prover.UnmarshalEnvelope(data)
	require.NoError(t, err)
	return env
}

func TestOpenVerifierNeedsGrid(t *testing.T) {
	g := &globalFlags{sealKey: "cli-test-key"}
	_, err := openVerifier(g, prover.BackendNative, "", 0)
	assert.Error(t, err)

	v, err := openVerifier(g, prover.BackendNative, "demo", 0)
	require.NoError(t, err)
	require.NotNil(t, v.m)
	assert.Equal(t, "demo", v.m.ID)

	_, err = openVerifier(g, prover.BackendNative, "demo", v.cfg.N+1)
	assert.Error(t, err)

	v, err = openVerifier(g, prover.BackendNative, "", 12)
	require.NoError(t, err)
	assert.Nil(t, v.m)
	assert.Equal(t, uint64(12), v.cfg.N)

	_, err = openVerifier(g, "plonk", "", 12)
	assert.Error(t, err)
}

func TestOpenVerifierGroth16NeedsSavedKeys(t *testing.T) {
	g := &globalFlags{sealKey: "cli-test-key"}
	_, err := openVerifier(g, prover.BackendGroth16, "", 12)
	assert.True(t, errors.Is(err, errNoKeys))

	g.keysDir = t.TempDir()
	_, err = openVerifier(g, prover.BackendGroth16, "", 12)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestVerifierRejectsForeignEnvelope(t *testing.T) {
	g := &globalFlags{sealKey: "cli-test-key"}
	v, err := openVerifier(g, prover.BackendNative, "demo", 0)
	require.NoError(t, err)

	own := envelopeFor(t, g, prover.BackendNative, v.cfg, []uint64{uint64(types.RIGHT)})
	require.NoError(t, v.accept(own))

	// a proof file cannot pick a larger grid
	wide, err := types.NewGameConfig(1000)
	require.NoError(t, err)
	far := envelopeFor(t, g, prover.BackendNative, wide, []uint64{uint64(types.DOWN), uint64(types.DOWN), uint64(types.DOWN)})
	err = v.accept(far)
	assert.True(t, errors.Is(err, gameerrors.ErrIEnvelopeMismatch))

	// nor a backend the verifier was not set up with
	other := envelopeFor(t, g, prover.BackendGroth16, v.cfg, []uint64{uint64(types.RIGHT)})
	err = v.accept(other)
	assert.True(t, errors.Is(err, gameerrors.ErrIEnvelopeMismatch))
	assert.Equal(t, "EnvelopeMismatch", gameerrors.GetErrorName(err))
}
