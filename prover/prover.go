// Package prover turns a move list into a single proof: one leaf per move,
// then adjacent proofs folded pairwise until one remains.
package prover

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/colorfulnotion/treasure/gameerrors"
	"github.com/colorfulnotion/treasure/log"
	"github.com/colorfulnotion/treasure/statedb"
	"github.com/colorfulnotion/treasure/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "ProverTracer"

type Prover struct {
	cfg         types.GameConfig
	backend     Backend
	parallelism int
	tracer      trace.Tracer
}

type Option func(*Prover)

// WithParallelism bounds the number of concurrent folds per level.
func WithParallelism(n int) Option {
	return func(p *Prover) {
		if n > 0 {
			p.parallelism = n
		}
	}
}

// WithTracerProvider overrides the global otel provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Prover) {
		p.tracer = tp.Tracer(tracerName)
	}
}

func New(cfg types.GameConfig, backend Backend, opts ...Option) *Prover {
	p := &Prover{
		cfg:         cfg,
		backend:     backend,
		parallelism: runtime.NumCPU(),
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Prover) Backend() Backend { return p.backend }

func (p *Prover) Config() types.GameConfig { return p.cfg }

// ParseMoves validates raw opcodes before any proving starts.
func ParseMoves(opcodes []uint64) ([]types.Opcode, error) {
	if len(opcodes) == 0 {
		return nil, gameerrors.ErrIEmptyPath
	}
	ops := make([]types.Opcode, len(opcodes))
	for i, v := range opcodes {
		op, err := types.OpcodeFromUint64(v)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i, err)
		}
		ops[i] = op
	}
	return ops, nil
}

// ProveGame proves every move in order and folds the leaves into a root
// proof. The returned tree mirrors how the root was assembled.
func (p *Prover) ProveGame(ctx context.Context, opcodes []uint64, treasure map[uint64]uint64) (Provable, *types.FoldNode, error) {
	ops, err := ParseMoves(opcodes)
	if err != nil {
		return nil, nil, err
	}
	ctx, span := p.tracer.Start(ctx, "ProveGame", trace.WithAttributes(
		attribute.Int("moves", len(ops)),
		attribute.String("backend", p.backend.Name()),
	))
	defer span.End()

	start := time.Now()
	leaves, err := p.proveLeaves(ctx, ops, treasure)
	if err != nil {
		return nil, nil, err
	}
	log.Debug(log.ProverMonitoring, "leaves proved", "moves", len(ops), "elapsed", time.Since(start))

	root, err := p.reduce(ctx, leaves)
	if err != nil {
		return nil, nil, err
	}
	log.Info(log.ProverMonitoring, "game proved", "moves", len(ops), "backend", p.backend.Name(),
		"score", root.proof.Statement().Score, "elapsed", time.Since(start))
	return root.proof, root.node, nil
}

// proveLeaves runs sequentially: each witness comes from the state the
// previous move produced.
func (p *Prover) proveLeaves(ctx context.Context, ops []types.Opcode, treasure map[uint64]uint64) ([]item, error) {
	state, err := statedb.Initial(p.cfg, treasure)
	if err != nil {
		return nil, err
	}
	leaves := make([]item, 0, len(ops))
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, w, err := state.Operate(op)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i, err)
		}
		_, span := p.tracer.Start(ctx, fmt.Sprintf("[step %d] ProveMove", i))
		seal, err := p.backend.ProveMove(next.Statement, w)
		span.End()
		if err != nil {
			return nil, fmt.Errorf("prove move %d: %w", i, err)
		}
		log.Trace(log.ProverMonitoring, "leaf", "step", i, "op", op, "location", next.Location, "score", next.Score)
		leaves = append(leaves, item{
			proof: &LeafProof{Stmt: next.Statement, Proof: seal},
			node:  types.NewLeafNode(i, op, next.Statement),
		})
		state = next
	}
	return leaves, nil
}

type item struct {
	proof Provable
	node  *types.FoldNode
}

func (p *Prover) reduce(ctx context.Context, items []item) (item, error) {
	return reduceItems(ctx, p.tracer, p.backend, p.parallelism, items)
}

func reduceItems(ctx context.Context, tracer trace.Tracer, b Backend, parallelism int, items []item) (item, error) {
	if len(items) == 0 {
		return item{}, gameerrors.ErrIEmptyPath
	}
	for level := 1; len(items) > 1; level++ {
		next := make([]item, (len(items)+1)/2)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(parallelism)
		for i := 0; i+1 < len(items); i += 2 {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				_, span := tracer.Start(gctx, fmt.Sprintf("[L%d] Fold", level))
				defer span.End()
				left, right := items[i], items[i+1]
				proof, err := Aggregate(b, left.proof, right.proof)
				if err != nil {
					return fmt.Errorf("fold level %d pair %d: %w", level, i/2, err)
				}
				out := item{proof: proof}
				if left.node != nil && right.node != nil {
					out.node = types.NewFoldNode(left.node, right.node, proof.Statement())
				}
				next[i/2] = out
				return nil
			})
		}
		if len(items)%2 == 1 {
			next[len(next)-1] = items[len(items)-1]
		}
		if err := g.Wait(); err != nil {
			return item{}, err
		}
		log.Debug(log.ProverMonitoring, "fold level", "level", level, "in", len(items), "out", len(next))
		items = next
	}
	return items[0], nil
}

// ReduceProofs folds adjacent proofs pairwise, level by level, carrying an
// odd leftover forward. Any grouping of the same leaves yields the same
// root statement.
func ReduceProofs(ctx context.Context, proofs []Provable, b Backend, parallelism int) (Provable, error) {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	items := make([]item, len(proofs))
	for i, pr := range proofs {
		items[i] = item{proof: pr}
	}
	root, err := reduceItems(ctx, otel.Tracer(tracerName), b, parallelism, items)
	if err != nil {
		return nil, err
	}
	return root.proof, nil
}

// ProveLeaves proves each move without folding. Exposed so callers can
// choose their own reduction grouping.
func (p *Prover) ProveLeaves(ctx context.Context, opcodes []uint64, treasure map[uint64]uint64) ([]Provable, error) {
	ops, err := ParseMoves(opcodes)
	if err != nil {
		return nil, err
	}
	items, err := p.proveLeaves(ctx, ops, treasure)
	if err != nil {
		return nil, err
	}
	out := make([]Provable, len(items))
	for i, it := range items {
		out[i] = it.proof
	}
	return out, nil
}
