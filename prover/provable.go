package prover

import (
	"fmt"

	"github.com/colorfulnotion/treasure/gameerrors"
	"github.com/colorfulnotion/treasure/types"
)

type ProofKind uint8

const (
	LeafKind ProofKind = iota
	FoldKind
)

func (k ProofKind) String() string {
	switch k {
	case LeafKind:
		return "leaf"
	case FoldKind:
		return "fold"
	}
	return fmt.Sprintf("ProofKind(%d)", uint8(k))
}

// Provable is anything that attests a statement: a single move or the fold
// of two adjacent ranges. The aggregator only ever sees this interface.
type Provable interface {
	Statement() types.Statement
	Seal() []byte
	Kind() ProofKind
	Verify(b Backend) error
}

// LeafProof attests exactly one move.
type LeafProof struct {
	Stmt  types.Statement
	Proof []byte
}

func (p *LeafProof) Statement() types.Statement { return p.Stmt }
func (p *LeafProof) Seal() []byte               { return p.Proof }
func (p *LeafProof) Kind() ProofKind            { return LeafKind }

func (p *LeafProof) Verify(b Backend) error {
	return b.VerifyMove(p.Stmt, p.Proof)
}

// FoldProof attests the join of Left and Right.
type FoldProof struct {
	Stmt        types.Statement
	Left, Right Provable
	Proof       []byte
}

func (p *FoldProof) Statement() types.Statement { return p.Stmt }
func (p *FoldProof) Seal() []byte               { return p.Proof }
func (p *FoldProof) Kind() ProofKind            { return FoldKind }

// Verify checks both children recursively before the fold seal itself.
func (p *FoldProof) Verify(b Backend) error {
	if p.Left == nil || p.Right == nil {
		return fmt.Errorf("%w: fold is missing a child", gameerrors.ErrFChildInvalid)
	}
	if err := p.Left.Verify(b); err != nil {
		return fmt.Errorf("%w: left: %w", gameerrors.ErrFChildInvalid, err)
	}
	if err := p.Right.Verify(b); err != nil {
		return fmt.Errorf("%w: right: %w", gameerrors.ErrFChildInvalid, err)
	}
	return b.VerifyFold(p.Stmt, p.Left, p.Right, p.Proof)
}

// Aggregate folds one adjacent pair into a proof for the combined range.
func Aggregate(b Backend, left, right Provable) (Provable, error) {
	stmt, err := types.FoldStatements(left.Statement(), right.Statement())
	if err != nil {
		return nil, err
	}
	if err := left.Verify(b); err != nil {
		return nil, fmt.Errorf("%w: left: %w", gameerrors.ErrFChildInvalid, err)
	}
	if err := right.Verify(b); err != nil {
		return nil, fmt.Errorf("%w: right: %w", gameerrors.ErrFChildInvalid, err)
	}
	seal, err := b.ProveFold(stmt, left, right)
	if err != nil {
		return nil, err
	}
	return &FoldProof{Stmt: stmt, Left: left, Right: right, Proof: seal}, nil
}
