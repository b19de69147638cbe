package statedb

import (
	"errors"
	"testing"

	"github.com/colorfulnotion/treasure/common"
	"github.com/colorfulnotion/treasure/gameerrors"
	"github.com/colorfulnotion/treasure/trie"
	"github.com/colorfulnotion/treasure/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	demoMap = map[uint64]uint64{1: 20, 2: 15, 3: 5}
	loopMap = map[uint64]uint64{1: 20, 2: 15, 3: 5, 51: 5}
)

func finalOf(t *testing.T, treasure map[uint64]uint64, ops ...types.Opcode) *GameState {
	t.Helper()
	states, _, err := Replay(types.DefaultGameConfig(), treasure, ops)
	require.NoError(t, err)
	return states[len(states)-1]
}

func scoreOf(t *testing.T, s *GameState) uint64 {
	t.Helper()
	v, ok := common.FieldToUint64(s.Score.Next)
	require.True(t, ok)
	return v
}

func TestOperateExamples(t *testing.T) {
	R, L, U, D := types.RIGHT, types.LEFT, types.UP, types.DOWN
	cases := []struct {
		name     string
		treasure map[uint64]uint64
		ops      []types.Opcode
		location uint64
		score    uint64
	}{
		{"right", demoMap, []types.Opcode{R}, 1, 20},
		{"right right", demoMap, []types.Opcode{R, R}, 2, 35},
		{"revisit", demoMap, []types.Opcode{R, R, L}, 1, 35},
		{"loop", loopMap, []types.Opcode{R, D, R, L, U, R, L}, 1, 40},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := finalOf(t, tc.treasure, tc.ops...)
			loc, err := s.CurrentLocation()
			require.NoError(t, err)
			assert.Equal(t, tc.location, loc)
			assert.Equal(t, tc.score, scoreOf(t, s))
			assert.Equal(t, uint64(1), s.Moves)
		})
	}
}

func TestOperateWitnessesTakenBeforeMutation(t *testing.T) {
	cfg := types.DefaultGameConfig()
	s0, err := Initial(cfg, demoMap)
	require.NoError(t, err)

	s1, w1, err := s0.Operate(types.RIGHT)
	require.NoError(t, err)
	assert.True(t, w1.Claimed.Verify(s1.ClaimedRoot.Prev))
	assert.True(t, w1.Treasure.Verify(s1.ScoresRoot))
	assert.True(t, w1.ClaimedBefore().IsZero())
	after := w1.Claimed.WithValue(common.FieldFromUint64(1)).ComputeRoot()
	assert.True(t, after.Equal(&s1.ClaimedRoot.Next))

	s2, _, err := s1.Operate(types.LEFT)
	require.NoError(t, err)
	_, w3, err := s2.Operate(types.RIGHT)
	require.NoError(t, err)
	one := common.FieldFromUint64(1)
	assert.True(t, w3.ClaimedBefore().Equal(&one), "cell 1 was claimed two moves ago")
}

func TestOperateLeavesReceiverUntouched(t *testing.T) {
	s0, err := Initial(types.DefaultGameConfig(), demoMap)
	require.NoError(t, err)
	root := s0.ClaimedRoot.Next

	a, _, err := s0.Operate(types.RIGHT)
	require.NoError(t, err)
	b, _, err := s0.Operate(types.DOWN)
	require.NoError(t, err)

	assert.True(t, s0.ClaimedRoot.Next.Equal(&root))
	claimedA, _ := a.IsClaimed(1)
	claimedB, _ := b.IsClaimed(1)
	assert.True(t, claimedA)
	assert.False(t, claimedB)
	assert.Equal(t, 0, s0.ClaimedTree().Len())
}

func TestOperateRejectsLeavingGrid(t *testing.T) {
	s0, err := Initial(types.DefaultGameConfig(), demoMap)
	require.NoError(t, err)
	_, _, err = s0.Operate(types.UP)
	assert.True(t, errors.Is(err, gameerrors.ErrILeavesGrid))
	_, _, err = s0.Operate(types.LEFT)
	assert.True(t, errors.Is(err, gameerrors.ErrILeavesGrid))
	_, _, err = s0.Operate(types.Opcode(7))
	assert.True(t, errors.Is(err, gameerrors.ErrIUnknownOpcode))
}

func TestInitial(t *testing.T) {
	cfg := types.DefaultGameConfig()
	s0, err := Initial(cfg, map[uint64]uint64{1: 20, 9: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, s0.ScoresTree().Len())
	empty := trie.EmptyRoot(cfg.Depth)
	assert.True(t, s0.ClaimedRoot.Prev.Equal(&empty))
	assert.True(t, s0.StartsAtOrigin())

	// the initial count never reaches a proof: each step carries exactly one
	assert.Equal(t, uint64(1), s0.Moves)
	s1, _, err := s0.Operate(types.RIGHT)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), s1.Moves)

	_, err = Initial(cfg, map[uint64]uint64{2500: 1})
	assert.True(t, errors.Is(err, gameerrors.ErrKeyOutOfRange))

	_, _, err = Replay(cfg, demoMap, nil)
	assert.True(t, errors.Is(err, gameerrors.ErrIEmptyPath))
}

func TestFoldSpansEndpoints(t *testing.T) {
	states, _, err := Replay(types.DefaultGameConfig(), demoMap, []types.Opcode{types.RIGHT, types.RIGHT, types.LEFT})
	require.NoError(t, err)

	ab, err := states[0].Fold(states[1])
	require.NoError(t, err)
	abc, err := ab.Fold(states[2])
	require.NoError(t, err)
	bc, err := states[1].Fold(states[2])
	require.NoError(t, err)
	abc2, err := states[0].Fold(bc)
	require.NoError(t, err)

	assert.True(t, abc.Statement.Equal(abc2.Statement))
	assert.Equal(t, uint64(3), abc.Moves)
	assert.Equal(t, uint64(35), scoreOf(t, abc))
	assert.True(t, abc.Location.Prev.IsZero())

	_, err = states[0].Fold(states[2])
	assert.True(t, errors.Is(err, gameerrors.ErrFLocationGap))
}
