package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/colorfulnotion/treasure/common"
	"github.com/colorfulnotion/treasure/prover"
	"github.com/colorfulnotion/treasure/statedb"
	"github.com/colorfulnotion/treasure/treasuremaps"
	"github.com/colorfulnotion/treasure/types"
	"github.com/dop251/goja"
	"github.com/spf13/cobra"
)

// session is one interactive game. States are persistent snapshots, so undo
// is just dropping the last one.
type session struct {
	cfg     types.GameConfig
	m       *treasuremaps.TreasureMap
	prover  *prover.Prover
	initial *statedb.GameState
	states  []*statedb.GameState
	ops     []types.Opcode
}

func newSession(m *treasuremaps.TreasureMap, cfg types.GameConfig, p *prover.Prover) (*session, error) {
	initial, err := statedb.Initial(cfg, m.Treasure)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, m: m, prover: p, initial: initial}, nil
}

func (s *session) current() *statedb.GameState {
	if len(s.states) == 0 {
		return s.initial
	}
	return s.states[len(s.states)-1]
}

// move applies every move in line or none of them.
func (s *session) move(line string) error {
	ops, err := types.ParseOpcodes(line)
	if err != nil {
		return err
	}
	state := s.current()
	var next []*statedb.GameState
	for _, op := range ops {
		if state, _, err = state.Operate(op); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		next = append(next, state)
	}
	s.states = append(s.states, next...)
	s.ops = append(s.ops, ops...)
	return nil
}

func (s *session) score() uint64 {
	v, _ := common.FieldToUint64(s.current().Score.Next)
	return v
}

func (s *session) location() uint64 {
	v, _ := s.current().CurrentLocation()
	return v
}

func (s *session) undo() bool {
	if len(s.states) == 0 {
		return false
	}
	s.states = s.states[:len(s.states)-1]
	s.ops = s.ops[:len(s.ops)-1]
	return true
}

func (s *session) reset() {
	s.states, s.ops = nil, nil
}

func (s *session) moves() []string {
	out := make([]string, len(s.ops))
	for i, op := range s.ops {
		out[i] = op.String()
	}
	return out
}

func (s *session) status() string {
	loc := s.location()
	score := fmt.Sprintf("%d / %d", s.score(), s.m.Total())
	if s.score() == s.m.Total() {
		score = common.Colorize(common.ColorBrightGreen, score)
	}
	return fmt.Sprintf("📍 cell %d (row %d, col %d)  💰 %s  moves %d",
		loc, loc/s.cfg.N, loc%s.cfg.N, score, len(s.ops))
}

// random walks n on-grid moves from the current cell.
func (s *session) random(n int, seed uint64) error {
	ops, err := types.RandomPath(s.cfg, s.location(), n, seed)
	if err != nil {
		return err
	}
	line := make([]string, len(ops))
	for i, op := range ops {
		line[i] = op.String()
	}
	return s.move(strings.Join(line, ","))
}

func (s *session) prove(ctx context.Context) (string, error) {
	if len(s.ops) == 0 {
		return "", fmt.Errorf("no moves to prove")
	}
	root, tree, err := s.prover.ProveGame(ctx, types.OpcodesToUint64(s.ops), s.m.Treasure)
	if err != nil {
		return "", err
	}
	if err := root.Verify(s.prover.Backend()); err != nil {
		return "", err
	}
	return tree.String(), nil
}

// bind exposes the session to scripts as the global "game".
func (s *session) bind(ctx context.Context, vm *goja.Runtime) error {
	game := vm.NewObject()
	for name, fn := range map[string]interface{}{
		"move": func(line string) (uint64, error) {
			err := s.move(line)
			return s.score(), err
		},
		"score":    s.score,
		"location": s.location,
		"moves":    s.moves,
		"undo":     s.undo,
		"reset":    s.reset,
		"status":   s.status,
		"random":   s.random,
		"prove":    func() (string, error) { return s.prove(ctx) },
	} {
		if err := game.Set(name, fn); err != nil {
			return err
		}
	}
	if err := vm.Set("game", game); err != nil {
		return err
	}
	return vm.Set("print", func(args ...goja.Value) {
		for _, arg := range args {
			fmt.Println(arg.Export())
		}
	})
}

const playHelp = `Moves: type them directly, e.g. "r r l" or "R,D,U" (u/l/r/d, names or 1-4).
Commands: status, undo, reset, prove, help, exit.
Scripts see a "game" object: move, score, location, moves, undo, reset, status, random(n, seed), prove.
Anything else runs as JavaScript, e.g.:
  for (i = 0; i < 3; i++) game.move("R")
  game.score()`

func newPlayCmd(g *globalFlags) *cobra.Command {
	var mapID, backendName string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Interactive console: walk the map, then prove the path",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, cfg, err := loadMap(mapID)
			if err != nil {
				return err
			}
			b, err := openBackend(g, backendName, cfg)
			if err != nil {
				return err
			}
			s, err := newSession(m, cfg, prover.New(cfg, b))
			if err != nil {
				return err
			}
			vm := goja.New()
			if err := s.bind(cmd.Context(), vm); err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:      "treasure> ",
				HistoryFile: filepath.Join(os.TempDir(), "treasure_console_history.txt"),
			})
			if err != nil {
				return fmt.Errorf("start readline: %w", err)
			}
			defer rl.Close()

			fmt.Printf("✅ map %s on a %dx%d grid, backend %s\n", m.ID, cfg.N, cfg.N, b.Name())
			fmt.Println(playHelp)
			for {
				line, err := rl.Readline()
				if err != nil {
					break
				}
				if out, quit := s.eval(cmd.Context(), vm, strings.TrimSpace(line)); quit {
					break
				} else if out != "" {
					fmt.Println(out)
				}
			}
			fmt.Println("🔴 bye")
			return nil
		},
	}
	cmd.Flags().StringVar(&mapID, "map", "demo", "Built-in map name or path to a map JSON file")
	cmd.Flags().StringVar(&backendName, "backend", prover.BackendNative, "Proving backend: native or groth16")
	return cmd
}

func failed(err error) string {
	return common.Colorize(common.ColorRed, "❌ "+err.Error())
}

// eval handles one console line and returns what to print.
func (s *session) eval(ctx context.Context, vm *goja.Runtime, line string) (string, bool) {
	switch line {
	case "":
		return "", false
	case "exit", "quit":
		return "", true
	case "help":
		return playHelp, false
	case "status":
		return s.status(), false
	case "undo":
		s.undo()
		return s.status(), false
	case "reset":
		s.reset()
		return s.status(), false
	case "prove":
		tree, err := s.prove(ctx)
		if err != nil {
			return failed(err), false
		}
		return tree + common.Colorize(common.ColorGreen, "✅ proof verified"), false
	}
	if _, err := types.ParseOpcodes(line); err == nil {
		if err := s.move(line); err != nil {
			return failed(err), false
		}
		return s.status(), false
	}
	v, err := vm.RunString(line)
	if err != nil {
		return failed(err), false
	}
	if v == nil || goja.IsUndefined(v) {
		return "", false
	}
	return fmt.Sprint(v.Export()), false
}
