package types

import (
	"fmt"

	"golang.org/x/exp/rand"
)

var directions = []Opcode{UP, LEFT, RIGHT, DOWN}

// RandomPath draws n moves from start that never leave the grid. The same
// seed always gives the same path.
func RandomPath(cfg GameConfig, start uint64, n int, seed uint64) ([]Opcode, error) {
	if !cfg.InGrid(start) {
		return nil, fmt.Errorf("random path: start %d is off a %dx%d grid", start, cfg.N, cfg.N)
	}
	r := rand.New(rand.NewSource(seed))
	ops := make([]Opcode, 0, n)
	cur := start
	for len(ops) < n {
		op := directions[r.Intn(len(directions))]
		next, err := cfg.Step(cur, op)
		if err != nil {
			continue
		}
		ops = append(ops, op)
		cur = next
	}
	return ops, nil
}
