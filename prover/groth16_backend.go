package prover

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/colorfulnotion/treasure/circuit"
	"github.com/colorfulnotion/treasure/gameerrors"
	"github.com/colorfulnotion/treasure/log"
	"github.com/colorfulnotion/treasure/statedb"
	"github.com/colorfulnotion/treasure/types"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// Groth16Backend proves every move as a BN254 Groth16 proof of MoveCircuit.
// Folds carry a native seal, issued only after both children verified
// through this backend.
type Groth16Backend struct {
	cfg    types.GameConfig
	ccs    constraint.ConstraintSystem
	pk     groth16.ProvingKey
	vk     groth16.VerifyingKey
	native *NativeBackend
}

// NewGroth16Backend compiles the circuit and runs a fresh setup. The keys
// are only as trustworthy as this process.
func NewGroth16Backend(cfg types.GameConfig, foldKey []byte) (*Groth16Backend, error) {
	native, err := NewNativeBackend(cfg, foldKey)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit.NewMoveCircuit(cfg))
	if err != nil {
		return nil, fmt.Errorf("compile move circuit: %w", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("groth16 setup: %w", err)
	}
	log.Info(log.CircuitMonitoring, "groth16 setup", "grid", cfg.N, "depth", cfg.Depth,
		"constraints", ccs.GetNbConstraints(), "elapsed", time.Since(start))
	return &Groth16Backend{cfg: cfg, ccs: ccs, pk: pk, vk: vk, native: native}, nil
}

func (b *Groth16Backend) Name() string { return BackendGroth16 }

// WriteVerifyingKey exports the key a third party needs to check leaves.
func (b *Groth16Backend) WriteVerifyingKey(w io.Writer) (int64, error) {
	return b.vk.WriteTo(w)
}

func (b *Groth16Backend) ProveMove(stmt types.Statement, w *statedb.StepWitness) ([]byte, error) {
	// the solver only reports "constraint not satisfied"; the native relation names the check
	if err := circuit.Play(b.cfg, stmt, w); err != nil {
		return nil, err
	}
	assignment, err := circuit.NewMoveAssignment(b.cfg, stmt, w)
	if err != nil {
		return nil, err
	}
	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("move witness: %w", err)
	}
	proof, err := groth16.Prove(b.ccs, b.pk, witness)
	if err != nil {
		return nil, fmt.Errorf("groth16 prove: %w", err)
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *Groth16Backend) VerifyMove(stmt types.Statement, seal []byte) error {
	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(seal)); err != nil {
		return fmt.Errorf("%w: %v", gameerrors.ErrFBadSeal, err)
	}
	public, err := frontend.NewWitness(circuit.PublicAssignment(b.cfg, stmt), ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("public witness: %w", err)
	}
	if err := groth16.Verify(proof, b.vk, public); err != nil {
		return fmt.Errorf("%w: %v", gameerrors.ErrFBadSeal, err)
	}
	return nil
}

func (b *Groth16Backend) ProveFold(out types.Statement, left, right Provable) ([]byte, error) {
	return b.native.ProveFold(out, left, right)
}

func (b *Groth16Backend) VerifyFold(out types.Statement, left, right Provable, seal []byte) error {
	return b.native.VerifyFold(out, left, right, seal)
}
