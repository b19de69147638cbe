package statedb

import (
	"fmt"

	"github.com/colorfulnotion/treasure/common"
	"github.com/colorfulnotion/treasure/gameerrors"
	"github.com/colorfulnotion/treasure/log"
	"github.com/colorfulnotion/treasure/trie"
	"github.com/colorfulnotion/treasure/types"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// StepWitness is the private input of one move, read from the trees as they
// were before the move was applied.
type StepWitness struct {
	Opcode   types.Opcode
	Treasure *trie.Witness // value at Location.Next under ScoresRoot
	Claimed  *trie.Witness // claimed flag at Location.Next under ClaimedRoot.Prev
}

// ClaimedBefore is the flag the witness opens, 0 or 1 for honest witnesses.
func (w *StepWitness) ClaimedBefore() fr.Element {
	return w.Claimed.Value
}

// GameState is one snapshot: the public statement plus the trees needed to
// take the next step. Snapshots are never mutated after construction; each
// owns its own tree handles.
type GameState struct {
	types.Statement

	cfg     types.GameConfig
	scores  *trie.SparseMerkleTree
	claimed *trie.SparseMerkleTree
}

// Initial builds the start-of-game snapshot. Zero-valued treasure entries are
// skipped; cells outside the grid are rejected.
func Initial(cfg types.GameConfig, treasure map[uint64]uint64) (*GameState, error) {
	scores, err := trie.NewSparseMerkleTree(cfg.Depth)
	if err != nil {
		return nil, err
	}
	claimed, err := trie.NewSparseMerkleTree(cfg.Depth)
	if err != nil {
		return nil, err
	}
	for cell, value := range treasure {
		if !cfg.InGrid(cell) {
			return nil, fmt.Errorf("%w: treasure at cell %d outside %s", gameerrors.ErrKeyOutOfRange, cell, cfg)
		}
		if value == 0 {
			continue
		}
		if err := scores.Set(cell, common.FieldFromUint64(value)); err != nil {
			return nil, err
		}
	}
	log.Debug(log.StateMonitoring, "initial state", "cells", len(treasure), "scoresRoot", common.FieldShort(scores.Root()))
	var zero fr.Element
	return &GameState{
		Statement: types.Statement{
			ScoresRoot:  scores.Root(),
			ClaimedRoot: types.PrevNextFrom(claimed.Root()),
			Score:       types.PrevNextFrom(zero),
			Location:    types.PrevNextFrom(zero),
			// covers no step yet; never proved, only operated on
			Moves: 1,
		},
		cfg:     cfg,
		scores:  scores,
		claimed: claimed,
	}, nil
}

func (s *GameState) Config() types.GameConfig { return s.cfg }

// CurrentLocation is Location.Next as a cell index.
func (s *GameState) CurrentLocation() (uint64, error) {
	cell, ok := common.FieldToUint64(s.Location.Next)
	if !ok || !s.cfg.InGrid(cell) {
		return 0, fmt.Errorf("%w: location %s", gameerrors.ErrILeavesGrid, common.FieldShort(s.Location.Next))
	}
	return cell, nil
}

// ScoresTree returns a clone of the treasure tree.
func (s *GameState) ScoresTree() *trie.SparseMerkleTree { return s.scores.Clone() }

// ClaimedTree returns a clone of the claimed tree.
func (s *GameState) ClaimedTree() *trie.SparseMerkleTree { return s.claimed.Clone() }

// IsClaimed reports whether cell has already been collected.
func (s *GameState) IsClaimed(cell uint64) (bool, error) {
	_, ok, err := s.claimed.Get(cell)
	return ok, err
}

// Operate applies one move and returns the next snapshot together with the
// witness the move relation needs. The receiver is left untouched.
func (s *GameState) Operate(op types.Opcode) (*GameState, *StepWitness, error) {
	if !op.Valid() {
		return nil, nil, fmt.Errorf("%w: %d", gameerrors.ErrIUnknownOpcode, uint8(op))
	}
	cur, err := s.CurrentLocation()
	if err != nil {
		return nil, nil, err
	}
	dest, err := s.cfg.Step(cur, op)
	if err != nil {
		return nil, nil, err
	}

	treasureW, err := s.scores.Witness(dest)
	if err != nil {
		return nil, nil, err
	}
	claimedW, err := s.claimed.Witness(dest)
	if err != nil {
		return nil, nil, err
	}

	claimed := s.claimed.Clone()
	gain := treasureW.Value
	if !claimedW.Value.IsZero() {
		gain.SetZero()
	}
	if err := claimed.Set(dest, common.FieldFromUint64(1)); err != nil {
		return nil, nil, err
	}

	next := &GameState{
		Statement: types.Statement{
			ScoresRoot: s.ScoresRoot,
			ClaimedRoot: s.ClaimedRoot.Update(func(fr.Element) fr.Element {
				return claimed.Root()
			}),
			Score: s.Score.Update(func(prev fr.Element) fr.Element {
				var out fr.Element
				out.Add(&prev, &gain)
				return out
			}),
			Location: s.Location.Update(func(fr.Element) fr.Element {
				return common.FieldFromUint64(dest)
			}),
			Moves: 1,
		},
		cfg:     s.cfg,
		scores:  s.scores.Clone(),
		claimed: claimed,
	}
	log.Debug(log.StateMonitoring, "operate", "op", op, "from", cur, "to", dest,
		"revisit", !claimedW.Value.IsZero(), "score", common.FieldShort(next.Score.Next))
	return next, &StepWitness{Opcode: op, Treasure: treasureW, Claimed: claimedW}, nil
}

// Fold joins s with the snapshot that directly follows it. The result keeps
// the later snapshot's trees since they reflect the end of the combined range.
func (s *GameState) Fold(next *GameState) (*GameState, error) {
	stmt, err := types.FoldStatements(s.Statement, next.Statement)
	if err != nil {
		return nil, err
	}
	return &GameState{
		Statement: stmt,
		cfg:       s.cfg,
		scores:    next.scores.Clone(),
		claimed:   next.claimed.Clone(),
	}, nil
}

// Replay operates every move from the initial state and returns the per-step
// snapshots and witnesses in order.
func Replay(cfg types.GameConfig, treasure map[uint64]uint64, ops []types.Opcode) ([]*GameState, []*StepWitness, error) {
	if len(ops) == 0 {
		return nil, nil, gameerrors.ErrIEmptyPath
	}
	state, err := Initial(cfg, treasure)
	if err != nil {
		return nil, nil, err
	}
	states := make([]*GameState, 0, len(ops))
	witnesses := make([]*StepWitness, 0, len(ops))
	for i, op := range ops {
		next, w, err := state.Operate(op)
		if err != nil {
			return nil, nil, fmt.Errorf("move %d: %w", i, err)
		}
		state = next
		states = append(states, state)
		witnesses = append(witnesses, w)
	}
	return states, witnesses, nil
}
