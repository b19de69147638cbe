package types

import (
	"bytes"
	"testing"

	"github.com/colorfulnotion/treasure/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomPathStaysOnGrid(t *testing.T) {
	cfg, err := NewGameConfig(3)
	require.NoError(t, err)

	ops, err := RandomPath(cfg, 0, 200, 7)
	require.NoError(t, err)
	require.Len(t, ops, 200)
	cur := uint64(0)
	for i, op := range ops {
		cur, err = cfg.Step(cur, op)
		require.NoError(t, err, "move %d", i)
	}

	again, err := RandomPath(cfg, 0, 200, 7)
	require.NoError(t, err)
	assert.Equal(t, ops, again)

	_, err = RandomPath(cfg, 9, 1, 7)
	assert.Error(t, err)
}

func TestDiffStatements(t *testing.T) {
	a := Statement{
		Score:    PrevNext{Next: common.FieldFromUint64(35)},
		Location: PrevNext{Next: common.FieldFromUint64(2)},
		Moves:    2,
	}
	_, changed, err := DiffStatements(a, a, false)
	require.NoError(t, err)
	assert.False(t, changed)

	b := a
	b.Score.Next = common.FieldFromUint64(55)
	out, changed, err := DiffStatements(a, b, false)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, out, "score")
}

func TestRenderFoldTree(t *testing.T) {
	left := NewLeafNode(0, RIGHT, Statement{Moves: 1})
	right := NewLeafNode(1, LEFT, Statement{Moves: 1})
	root := NewFoldNode(left, right, Statement{Moves: 2})

	var buf bytes.Buffer
	require.NoError(t, RenderFoldTree(root, &buf))
	assert.Contains(t, buf.String(), "step 1 LEFT")
	assert.Error(t, RenderFoldTree(nil, &buf))
}
