package types

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/colorfulnotion/treasure/common"
	"github.com/colorfulnotion/treasure/gameerrors"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOpcodes(t *testing.T) {
	ops, err := ParseOpcodes("R, d,RIGHT 2\tUP,4")
	require.NoError(t, err)
	assert.Equal(t, []Opcode{RIGHT, DOWN, RIGHT, LEFT, UP, DOWN}, ops)
	assert.Equal(t, []uint64{3, 4, 3, 2, 1, 4}, OpcodesToUint64(ops))

	for _, bad := range []string{"0", "5", "X", "256", "259"} {
		_, err := ParseOpcode(bad)
		assert.True(t, errors.Is(err, gameerrors.ErrIUnknownOpcode), bad)
	}
}

func TestOpcodeDelta(t *testing.T) {
	cases := map[Opcode]int64{UP: -50, LEFT: -1, RIGHT: 1, DOWN: 50}
	for op, want := range cases {
		got, err := op.Delta(50)
		require.NoError(t, err)
		assert.Equal(t, want, got, op.String())
	}
	_, err := Opcode(9).Delta(50)
	assert.True(t, errors.Is(err, gameerrors.ErrIUnknownOpcode))
	assert.Equal(t, "Opcode(9)", Opcode(9).String())
}

func TestGameConfigStep(t *testing.T) {
	cfg := DefaultGameConfig()
	assert.Equal(t, uint64(50), cfg.N)
	assert.Equal(t, 12, cfg.Depth)

	next, err := cfg.Step(0, RIGHT)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next)
	next, err = cfg.Step(1, DOWN)
	require.NoError(t, err)
	assert.Equal(t, uint64(51), next)

	_, err = cfg.Step(0, UP)
	assert.True(t, errors.Is(err, gameerrors.ErrILeavesGrid))
	_, err = cfg.Step(2499, DOWN)
	assert.True(t, errors.Is(err, gameerrors.ErrILeavesGrid))

	_, err = NewGameConfig(1)
	assert.True(t, errors.Is(err, gameerrors.ErrIBadGridSize))
}

func TestPrevNextUpdateAndSpan(t *testing.T) {
	p := PrevNextFrom(common.FieldFromUint64(0))
	p = p.Update(func(prev fr.Element) fr.Element {
		var out fr.Element
		return *out.Add(&prev, new(fr.Element).SetUint64(20))
	})
	q := p.Update(func(prev fr.Element) fr.Element { return prev })
	assert.Equal(t, "0->20", p.String())
	assert.Equal(t, "20->20", q.String())
	assert.Equal(t, "0->20", Span(p, q).String())
}

func sampleStatement() Statement {
	return Statement{
		ScoresRoot:  common.FieldFromUint64(77),
		ClaimedRoot: PrevNext{Prev: common.FieldFromUint64(1), Next: common.FieldFromUint64(2)},
		Score:       PrevNext{Prev: common.FieldFromUint64(0), Next: common.FieldFromUint64(35)},
		Location:    PrevNext{Prev: common.FieldFromUint64(0), Next: common.FieldFromUint64(2)},
		Moves:       2,
	}
}

func TestStatementJSONAndEncode(t *testing.T) {
	s := sampleStatement()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), `"moves":2`))

	var back Statement
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, s.Equal(back))
	assert.Len(t, s.Encode(), StatementBytes)
	assert.Equal(t, s.Digest(), back.Digest())
	assert.True(t, s.StartsAtOrigin())

	back.Moves = 3
	assert.NotEqual(t, s.Digest(), back.Digest())
}

func TestFoldTreeRender(t *testing.T) {
	s := sampleStatement()
	a := NewLeafNode(0, RIGHT, s)
	b := NewLeafNode(1, RIGHT, s)
	c := NewLeafNode(2, LEFT, s)
	ab := NewFoldNode(a, b, s)
	root := NewFoldNode(ab, c, s)

	assert.Equal(t, 2, root.Level)
	assert.Len(t, root.Leaves(), 3)
	out := root.String()
	assert.True(t, strings.Contains(out, "step 2 LEFT"))
	assert.True(t, strings.Contains(out, "fold moves 0-1"))
}
