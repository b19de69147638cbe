package main

import (
	"fmt"
	"os"

	"github.com/colorfulnotion/treasure/common"
	"github.com/colorfulnotion/treasure/prover"
	"github.com/colorfulnotion/treasure/types"
	"github.com/spf13/cobra"
)

func newProveCmd(g *globalFlags) *cobra.Command {
	var (
		mapID       string
		moves       string
		backendName string
		out         string
		parallelism int
		showTree    bool
		htmlOut     string
		randomMoves int
		seed        uint64
	)
	cmd := &cobra.Command{
		Use:   "prove",
		Short: "Prove a path over a treasure map",
		Example: `  treasure prove --map demo --moves R,R,L --out proof.json --tree
  treasure prove --map loop --moves "r d r l u r l" --backend groth16 --keys ./keys`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, cfg, err := loadMap(mapID)
			if err != nil {
				return err
			}
			var ops []types.Opcode
			if randomMoves > 0 {
				ops, err = types.RandomPath(cfg, 0, randomMoves, seed)
			} else {
				ops, err = types.ParseOpcodes(moves)
			}
			if err != nil {
				return err
			}
			if randomMoves > 0 {
				fmt.Printf("random path (seed %d): %v\n", seed, ops)
			}
			b, err := openBackend(g, backendName, cfg)
			if err != nil {
				return err
			}
			p := prover.New(cfg, b, prover.WithParallelism(parallelism))
			root, tree, err := p.ProveGame(cmd.Context(), types.OpcodesToUint64(ops), m.Treasure)
			if err != nil {
				return err
			}
			if showTree {
				fmt.Print(tree.String())
			}
			if htmlOut != "" {
				if err := writeTreeHTML(htmlOut, tree); err != nil {
					return err
				}
				fmt.Printf("fold tree drawn to %s\n", htmlOut)
			}
			stmt := root.Statement()
			fmt.Printf("✅ %d moves proved with %s: score %s, location %s\n",
				stmt.Moves, b.Name(), common.FieldShort(stmt.Score.Next), common.FieldShort(stmt.Location.Next))
			if out == "" {
				return nil
			}
			data, err := prover.MarshalEnvelope(b.Name(), cfg, root)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("proof written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&mapID, "map", "demo", "Built-in map name or path to a map JSON file")
	cmd.Flags().StringVar(&moves, "moves", "", "Moves, e.g. R,R,L or \"up left 3\"")
	cmd.Flags().StringVar(&backendName, "backend", prover.BackendNative, "Proving backend: native or groth16")
	cmd.Flags().StringVar(&out, "out", "", "Write the proof JSON here")
	cmd.Flags().IntVar(&parallelism, "parallel", 0, "Concurrent folds per level (0 = number of CPUs)")
	cmd.Flags().BoolVar(&showTree, "tree", false, "Print the fold tree")
	cmd.Flags().StringVar(&htmlOut, "html", "", "Draw the fold tree as an HTML chart here")
	cmd.Flags().IntVar(&randomMoves, "random", 0, "Prove a random on-grid walk of this many moves instead of --moves")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Seed for --random")
	cmd.MarkFlagsOneRequired("moves", "random")
	cmd.MarkFlagsMutuallyExclusive("moves", "random")
	return cmd
}

func writeTreeHTML(path string, tree *types.FoldNode) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := types.RenderFoldTree(tree, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
