package prover

import (
	"github.com/colorfulnotion/treasure/statedb"
	"github.com/colorfulnotion/treasure/types"
)

// Backend is the proving oracle. Prove* evaluate the relation and fail with
// its error when the statement does not hold; Verify* check a seal against a
// statement without any private input.
type Backend interface {
	Name() string
	ProveMove(stmt types.Statement, w *statedb.StepWitness) ([]byte, error)
	VerifyMove(stmt types.Statement, seal []byte) error
	ProveFold(out types.Statement, left, right Provable) ([]byte, error)
	VerifyFold(out types.Statement, left, right Provable, seal []byte) error
}

const (
	BackendNative  = "native"
	BackendGroth16 = "groth16"
)
