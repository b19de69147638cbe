package main

import (
	"context"
	"testing"

	"github.com/colorfulnotion/treasure/prover"
	"github.com/colorfulnotion/treasure/treasuremaps"
	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, mapID string) (*session, *goja.Runtime) {
	t.Helper()
	m, err := treasuremaps.ReadMap(mapID)
	require.NoError(t, err)
	cfg, err := m.Config()
	require.NoError(t, err)
	b, err := prover.NewNativeBackend(cfg, nil)
	require.NoError(t, err)
	s, err := newSession(m, cfg, prover.New(cfg, b))
	require.NoError(t, err)
	vm := goja.New()
	require.NoError(t, s.bind(context.Background(), vm))
	return s, vm
}

func TestConsoleMoves(t *testing.T) {
	s, vm := newTestSession(t, "loop")
	ctx := context.Background()

	out, quit := s.eval(ctx, vm, "r d r l u r l")
	assert.False(t, quit)
	assert.Contains(t, out, "cell 1 ")
	assert.Equal(t, uint64(40), s.score())

	// leaving the grid applies nothing
	out, _ = s.eval(ctx, vm, "r u u")
	assert.Contains(t, out, "LeavesGrid")
	assert.Len(t, s.ops, 7)

	s.eval(ctx, vm, "undo")
	assert.Equal(t, uint64(2), s.location())

	out, _ = s.eval(ctx, vm, "prove")
	assert.Contains(t, out, "proof verified")

	_, quit = s.eval(ctx, vm, "exit")
	assert.True(t, quit)
}

func TestConsoleScripting(t *testing.T) {
	s, vm := newTestSession(t, "demo")
	ctx := context.Background()

	out, _ := s.eval(ctx, vm, `for (var i = 0; i < 3; i++) { game.move("R") }; game.score()`)
	assert.Equal(t, "40", out)
	assert.Equal(t, uint64(3), s.location())

	out, _ = s.eval(ctx, vm, `game.moves().join(",")`)
	assert.Equal(t, "RIGHT,RIGHT,RIGHT", out)

	out, _ = s.eval(ctx, vm, `game.move("X")`)
	assert.Contains(t, out, "UnknownOpcode")

	s.eval(ctx, vm, "game.reset()")
	assert.Empty(t, s.ops)
	out, _ = s.eval(ctx, vm, "nonsense(")
	assert.Contains(t, out, "❌")
}

func TestConsoleRandomWalk(t *testing.T) {
	s, vm := newTestSession(t, "demo")
	out, _ := s.eval(context.Background(), vm, "game.random(25, 3); game.moves().length")
	assert.Equal(t, "25", out)
	assert.Less(t, s.location(), uint64(2500))
}
