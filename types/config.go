package types

import (
	"fmt"

	"github.com/colorfulnotion/treasure/gameerrors"
	"github.com/colorfulnotion/treasure/trie"
)

// DefaultGridSize is the side length of the standard 50x50 board.
const DefaultGridSize = 50

// GameConfig is shared by prover and verifier. Cells are numbered row-major
// from 0, so cell = row*N + col.
type GameConfig struct {
	N     uint64 `json:"grid_size"`
	Depth int    `json:"depth"`
}

func NewGameConfig(n uint64) (GameConfig, error) {
	if n < 2 || n > 1<<31 {
		return GameConfig{}, fmt.Errorf("%w: %d", gameerrors.ErrIBadGridSize, n)
	}
	return GameConfig{N: n, Depth: trie.DepthFor(n * n)}, nil
}

func DefaultGameConfig() GameConfig {
	cfg, _ := NewGameConfig(DefaultGridSize)
	return cfg
}

func (c GameConfig) Cells() uint64 { return c.N * c.N }

func (c GameConfig) InGrid(cell uint64) bool { return cell < c.Cells() }

// Step applies op to cell without wrapping; leaving the grid is an input error.
func (c GameConfig) Step(cell uint64, op Opcode) (uint64, error) {
	delta, err := op.Delta(c.N)
	if err != nil {
		return 0, err
	}
	next := int64(cell) + delta
	if next < 0 || !c.InGrid(uint64(next)) {
		return 0, fmt.Errorf("%w: %s from %d", gameerrors.ErrILeavesGrid, op, cell)
	}
	return uint64(next), nil
}

func (c GameConfig) String() string {
	return fmt.Sprintf("grid %dx%d (depth %d)", c.N, c.N, c.Depth)
}
