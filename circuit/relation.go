// Package circuit holds the two relations a proof can attest: a single move
// (Play) and the join of two adjacent proved ranges (Fold). The native
// checks here and MoveCircuit accept exactly the same move statements.
package circuit

import (
	"fmt"

	"github.com/colorfulnotion/treasure/common"
	"github.com/colorfulnotion/treasure/gameerrors"
	"github.com/colorfulnotion/treasure/statedb"
	"github.com/colorfulnotion/treasure/trie"
	"github.com/colorfulnotion/treasure/types"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// expectedNext applies the opcode's delta in the field, so UP from row 0
// wraps to a huge element rather than failing here.
func expectedNext(cfg types.GameConfig, prev fr.Element, op types.Opcode) (fr.Element, error) {
	var out fr.Element
	n := common.FieldFromUint64(cfg.N)
	one := common.FieldFromUint64(1)
	switch op {
	case types.UP:
		out.Sub(&prev, &n)
	case types.LEFT:
		out.Sub(&prev, &one)
	case types.RIGHT:
		out.Add(&prev, &one)
	case types.DOWN:
		out.Add(&prev, &n)
	default:
		return out, fmt.Errorf("%w: %d", gameerrors.ErrMUnknownOpcode, uint8(op))
	}
	return out, nil
}

func inGrid(cfg types.GameConfig, e fr.Element) bool {
	v, ok := common.FieldToUint64(e)
	return ok && cfg.InGrid(v)
}

func checkWitnessShape(cfg types.GameConfig, w *trie.Witness, key uint64) error {
	if w == nil || len(w.Path) != cfg.Depth {
		return fmt.Errorf("%w: witness path does not match depth %d", gameerrors.ErrMWitnessKey, cfg.Depth)
	}
	if w.Key != key {
		return fmt.Errorf("%w: witness key %d, destination %d", gameerrors.ErrMWitnessKey, w.Key, key)
	}
	return nil
}

// Play checks one move. The first failed check is returned.
func Play(cfg types.GameConfig, stmt types.Statement, w *statedb.StepWitness) error {
	if w == nil {
		return fmt.Errorf("%w: missing witness", gameerrors.ErrMWitnessKey)
	}

	// 1. direction
	want, err := expectedNext(cfg, stmt.Location.Prev, w.Opcode)
	if err != nil {
		return err
	}
	if !want.Equal(&stmt.Location.Next) {
		return fmt.Errorf("%w: %s from %s reaches %s, statement says %s", gameerrors.ErrMBadDirection,
			w.Opcode, common.FieldShort(stmt.Location.Prev), common.FieldShort(want), common.FieldShort(stmt.Location.Next))
	}

	// 2. grid boundary
	if !inGrid(cfg, stmt.Location.Prev) || !inGrid(cfg, stmt.Location.Next) {
		return fmt.Errorf("%w: %s", gameerrors.ErrMOutOfBounds, stmt.Location)
	}
	dest, _ := common.FieldToUint64(stmt.Location.Next)
	if err := checkWitnessShape(cfg, w.Claimed, dest); err != nil {
		return err
	}
	if err := checkWitnessShape(cfg, w.Treasure, dest); err != nil {
		return err
	}

	// 3. claimed flag
	flag := w.Claimed.Value
	one := common.FieldFromUint64(1)
	if !flag.IsZero() && !flag.Equal(&one) {
		return fmt.Errorf("%w: %s", gameerrors.ErrMClaimedNotBoolean, common.FieldShort(flag))
	}
	if !w.Claimed.Verify(stmt.ClaimedRoot.Prev) {
		return gameerrors.ErrMClaimedWitness
	}

	// 4. treasure membership
	if !w.Treasure.Verify(stmt.ScoresRoot) {
		return gameerrors.ErrMTreasureWitness
	}

	// 5. claim rule
	score := stmt.Score.Prev
	if flag.IsZero() {
		score.Add(&score, &w.Treasure.Value)
	}
	if !score.Equal(&stmt.Score.Next) {
		return fmt.Errorf("%w: want %s, statement says %s", gameerrors.ErrMScoreUpdate,
			common.FieldShort(score), common.FieldShort(stmt.Score.Next))
	}

	// 6. leaf move count
	if stmt.Moves != 1 {
		return fmt.Errorf("%w: got %d", gameerrors.ErrMMoveCount, stmt.Moves)
	}

	// 7. destination marked claimed
	after := w.Claimed.WithValue(one).ComputeRoot()
	if !after.Equal(&stmt.ClaimedRoot.Next) {
		return gameerrors.ErrMClaimedUpdate
	}
	return nil
}

// Fold checks that out is the join of two adjacent ranges. Verifying the
// children themselves is the caller's job.
func Fold(out, left, right types.Statement) error {
	want, err := types.FoldStatements(left, right)
	if err != nil {
		return err
	}
	if out.Moves != want.Moves {
		return fmt.Errorf("%w: %d + %d != %d", gameerrors.ErrFMoveCount, left.Moves, right.Moves, out.Moves)
	}
	if !out.Equal(want) {
		return fmt.Errorf("%w: got %s, want %s", gameerrors.ErrFEndpoints, out, want)
	}
	return nil
}
