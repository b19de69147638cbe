package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/colorfulnotion/treasure/gameerrors"
)

// Opcode is one grid step. The zero value is not a valid move.
type Opcode uint8

const (
	UP    Opcode = 1
	LEFT  Opcode = 2
	RIGHT Opcode = 3
	DOWN  Opcode = 4
)

var opcodeNames = map[Opcode]string{
	UP:    "UP",
	LEFT:  "LEFT",
	RIGHT: "RIGHT",
	DOWN:  "DOWN",
}

// OpcodeFromUint64 rejects anything outside 1..4.
func OpcodeFromUint64(v uint64) (Opcode, error) {
	op := Opcode(v)
	if v > 4 || !op.Valid() {
		return 0, fmt.Errorf("%w: %d", gameerrors.ErrIUnknownOpcode, v)
	}
	return op, nil
}

func (op Opcode) Valid() bool {
	_, ok := opcodeNames[op]
	return ok
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(%d)", uint8(op))
}

// Delta is the signed location change for a grid of side n.
func (op Opcode) Delta(n uint64) (int64, error) {
	switch op {
	case UP:
		return -int64(n), nil
	case LEFT:
		return -1, nil
	case RIGHT:
		return 1, nil
	case DOWN:
		return int64(n), nil
	}
	return 0, fmt.Errorf("%w: %d", gameerrors.ErrIUnknownOpcode, uint8(op))
}

// ParseOpcode accepts U/L/R/D, the full names, or the numeric codes.
func ParseOpcode(s string) (Opcode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "U", "UP":
		return UP, nil
	case "L", "LEFT":
		return LEFT, nil
	case "R", "RIGHT":
		return RIGHT, nil
	case "D", "DOWN":
		return DOWN, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", gameerrors.ErrIUnknownOpcode, s)
	}
	return OpcodeFromUint64(v)
}

// ParseOpcodes splits on commas and whitespace.
func ParseOpcodes(s string) ([]Opcode, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	ops := make([]Opcode, 0, len(fields))
	for _, field := range fields {
		op, err := ParseOpcode(field)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func OpcodesToUint64(ops []Opcode) []uint64 {
	out := make([]uint64, len(ops))
	for i, op := range ops {
		out[i] = uint64(op)
	}
	return out
}
