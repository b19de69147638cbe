package circuit

import (
	"fmt"
	"math/big"

	"github.com/colorfulnotion/treasure/statedb"
	"github.com/colorfulnotion/treasure/types"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash"
	"github.com/consensys/gnark/std/hash/mimc"
)

// MoveCircuit is the move relation as R1CS. Public inputs follow the
// statement field order; Moves is last.
type MoveCircuit struct {
	ScoresRoot   frontend.Variable `gnark:",public"`
	ClaimedPrev  frontend.Variable `gnark:",public"`
	ClaimedNext  frontend.Variable `gnark:",public"`
	ScorePrev    frontend.Variable `gnark:",public"`
	ScoreNext    frontend.Variable `gnark:",public"`
	LocationPrev frontend.Variable `gnark:",public"`
	LocationNext frontend.Variable `gnark:",public"`
	Moves        frontend.Variable `gnark:",public"`

	Opcode        frontend.Variable
	Treasure      frontend.Variable
	TreasurePath  []frontend.Variable
	ClaimedBefore frontend.Variable
	ClaimedPath   []frontend.Variable

	N uint64 `gnark:"-"`
}

// NewMoveCircuit allocates the path slices; the shape is fixed by cfg.
func NewMoveCircuit(cfg types.GameConfig) *MoveCircuit {
	return &MoveCircuit{
		TreasurePath: make([]frontend.Variable, cfg.Depth),
		ClaimedPath:  make([]frontend.Variable, cfg.Depth),
		N:            cfg.N,
	}
}

// merkleRoot walks the path bottom-up; bit i set means the running node is
// the right child at level i.
func merkleRoot(api frontend.API, h hash.FieldHasher, leaf frontend.Variable, path, bits []frontend.Variable) frontend.Variable {
	cur := leaf
	for i, sibling := range path {
		h.Reset()
		left := api.Select(bits[i], sibling, cur)
		right := api.Select(bits[i], cur, sibling)
		h.Write(left, right)
		cur = h.Sum()
	}
	return cur
}

func (c *MoveCircuit) Define(api frontend.API) error {
	if len(c.TreasurePath) != len(c.ClaimedPath) || len(c.ClaimedPath) == 0 {
		return fmt.Errorf("move circuit: path lengths %d and %d", len(c.TreasurePath), len(c.ClaimedPath))
	}
	n := new(big.Int).SetUint64(c.N)
	lastCell := new(big.Int).SetUint64(c.N*c.N - 1)

	// exactly one direction, so any other opcode is unsatisfiable
	isUp := api.IsZero(api.Sub(c.Opcode, int(types.UP)))
	isLeft := api.IsZero(api.Sub(c.Opcode, int(types.LEFT)))
	isRight := api.IsZero(api.Sub(c.Opcode, int(types.RIGHT)))
	isDown := api.IsZero(api.Sub(c.Opcode, int(types.DOWN)))
	api.AssertIsEqual(api.Add(isUp, isLeft, isRight, isDown), 1)

	delta := api.Sub(
		api.Add(isRight, api.Mul(isDown, n)),
		api.Add(isLeft, api.Mul(isUp, n)),
	)
	api.AssertIsEqual(c.LocationNext, api.Add(c.LocationPrev, delta))

	api.AssertIsLessOrEqual(c.LocationPrev, lastCell)
	api.AssertIsLessOrEqual(c.LocationNext, lastCell)

	keyBits := api.ToBinary(c.LocationNext, len(c.ClaimedPath))

	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	api.AssertIsBoolean(c.ClaimedBefore)
	api.AssertIsEqual(merkleRoot(api, &h, c.ClaimedBefore, c.ClaimedPath, keyBits), c.ClaimedPrev)
	api.AssertIsEqual(merkleRoot(api, &h, 1, c.ClaimedPath, keyBits), c.ClaimedNext)
	api.AssertIsEqual(merkleRoot(api, &h, c.Treasure, c.TreasurePath, keyBits), c.ScoresRoot)

	gain := api.Mul(api.Sub(1, c.ClaimedBefore), c.Treasure)
	api.AssertIsEqual(c.ScoreNext, api.Add(c.ScorePrev, gain))
	api.AssertIsEqual(c.Moves, 1)
	return nil
}

func toVar(e fr.Element) *big.Int {
	return e.BigInt(new(big.Int))
}

func pathVars(path []fr.Element) []frontend.Variable {
	out := make([]frontend.Variable, len(path))
	for i, e := range path {
		out[i] = toVar(e)
	}
	return out
}

// PublicAssignment fills only the statement; the secret slots are zeroed so
// the shape still matches the compiled circuit.
func PublicAssignment(cfg types.GameConfig, stmt types.Statement) *MoveCircuit {
	c := NewMoveCircuit(cfg)
	c.ScoresRoot = toVar(stmt.ScoresRoot)
	c.ClaimedPrev = toVar(stmt.ClaimedRoot.Prev)
	c.ClaimedNext = toVar(stmt.ClaimedRoot.Next)
	c.ScorePrev = toVar(stmt.Score.Prev)
	c.ScoreNext = toVar(stmt.Score.Next)
	c.LocationPrev = toVar(stmt.Location.Prev)
	c.LocationNext = toVar(stmt.Location.Next)
	c.Moves = stmt.Moves
	c.Opcode = 0
	c.Treasure = 0
	c.ClaimedBefore = 0
	for i := range c.TreasurePath {
		c.TreasurePath[i] = 0
		c.ClaimedPath[i] = 0
	}
	return c
}

// NewMoveAssignment is the full witness for one move.
func NewMoveAssignment(cfg types.GameConfig, stmt types.Statement, w *statedb.StepWitness) (*MoveCircuit, error) {
	if w == nil || w.Treasure == nil || w.Claimed == nil {
		return nil, fmt.Errorf("move assignment: incomplete witness")
	}
	if len(w.Treasure.Path) != cfg.Depth || len(w.Claimed.Path) != cfg.Depth {
		return nil, fmt.Errorf("move assignment: witness depth %d/%d, circuit depth %d",
			len(w.Treasure.Path), len(w.Claimed.Path), cfg.Depth)
	}
	c := PublicAssignment(cfg, stmt)
	c.Opcode = uint64(w.Opcode)
	c.Treasure = toVar(w.Treasure.Value)
	c.TreasurePath = pathVars(w.Treasure.Path)
	c.ClaimedBefore = toVar(w.Claimed.Value)
	c.ClaimedPath = pathVars(w.Claimed.Path)
	return c, nil
}
