package main

import (
	"fmt"
	"os"

	"github.com/colorfulnotion/treasure/gameerrors"
	"github.com/colorfulnotion/treasure/prover"
	"github.com/colorfulnotion/treasure/types"
	"github.com/spf13/cobra"
)

func readProof(path string) (*prover.Envelope, prover.Provable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return prover.UnmarshalEnvelope(data)
}

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff A.json B.json",
		Short: "Show how two proofs' root statements differ",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, a, err := readProof(args[0])
			if err != nil {
				return err
			}
			_, b, err := readProof(args[1])
			if err != nil {
				return err
			}
			out, changed, err := types.DiffStatements(a.Statement(), b.Statement(), true)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Println("✅ statements match")
				return nil
			}
			fmt.Println(out)
			return nil
		},
	}
}

func newVerifyCmd(g *globalFlags) *cobra.Command {
	var proofPath, mapID, backendName string
	var grid uint64
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a proof file against this verifier's backend and grid",
		Example: `  treasure verify --proof proof.json --map demo
  treasure verify --proof proof.json --grid 50 --backend groth16 --keys ./keys`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := openVerifier(g, backendName, mapID, grid)
			if err != nil {
				return err
			}
			env, proof, err := readProof(proofPath)
			if err != nil {
				return err
			}
			if err := v.accept(env); err != nil {
				fmt.Printf("❌ invalid (%s)\n", gameerrors.GetErrorCodeWithName(err))
				return err
			}
			stmt := proof.Statement()
			if err := proof.Verify(v.backend); err != nil {
				fmt.Printf("❌ invalid (%s)\n", gameerrors.GetErrorCodeWithName(err))
				return err
			}
			if v.m != nil {
				root, err := v.m.Root()
				if err != nil {
					return err
				}
				if !root.Equal(&stmt.ScoresRoot) {
					return fmt.Errorf("%w: proof is not over map %s", gameerrors.ErrCWrongMap, v.m.ID)
				}
			}
			fmt.Printf("✅ valid %s proof\n%s\n", env.Backend, stmt)
			if !stmt.StartsAtOrigin() {
				fmt.Println("⚠️  proof does not start at the origin with score 0; the leaderboard will reject it")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&proofPath, "proof", "proof.json", "Proof file written by prove")
	cmd.Flags().StringVar(&mapID, "map", "", "Map the proof must be over; also fixes the grid")
	cmd.Flags().Uint64Var(&grid, "grid", 0, "Grid side length, when no --map is given")
	cmd.Flags().StringVar(&backendName, "backend", prover.BackendNative, "Backend to verify with: native or groth16 (needs --keys)")
	cmd.MarkFlagsOneRequired("map", "grid")
	return cmd
}
