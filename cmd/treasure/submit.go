package main

import (
	"fmt"

	"github.com/colorfulnotion/treasure/common"
	"github.com/colorfulnotion/treasure/contract"
	"github.com/colorfulnotion/treasure/gameerrors"
	"github.com/colorfulnotion/treasure/prover"
	"github.com/colorfulnotion/treasure/storage"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/spf13/cobra"
)

func newSubmitCmd(g *globalFlags) *cobra.Command {
	var proofPath, player, dbPath, mapID, signKey, backendName string
	var grid uint64
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a proof to the leaderboard",
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
				return fmt.Errorf("%w: %w", gameerrors.ErrCInvalidProof, err)
			}
			var cfg contract.Config
			if v.m != nil {
				root, err := v.m.Root()
				if err != nil {
					return err
				}
				cfg.MapRoot = new(fr.Element).Set(&root)
			}
			store, err := storage.NewPersistenceStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			lb := contract.New(store, v.backend, cfg)
			var ev *contract.SubmitScoreEvent
			if signKey != "" {
				var sig []byte
				if sig, err = common.EthSign(signKey, proof.Statement().Digest()); err != nil {
					return err
				}
				ev, err = lb.SubmitSignedScore(sig, proof)
			} else {
				ev, err = lb.SubmitScore(player, proof)
			}
			if err != nil {
				return err
			}
			fmt.Printf("✅ %s\n", ev)
			return nil
		},
	}
	cmd.Flags().StringVar(&proofPath, "proof", "proof.json", "Proof file written by prove")
	cmd.Flags().StringVar(&player, "player", "", "Player name")
	cmd.Flags().StringVar(&dbPath, "db", "leaderboard.db", "Leaderboard database directory")
	cmd.Flags().StringVar(&mapID, "map", "", "Only accept proofs over this map; also fixes the grid")
	cmd.Flags().Uint64Var(&grid, "grid", 0, "Grid side length, when no --map is given")
	cmd.Flags().StringVar(&backendName, "backend", prover.BackendNative, "Backend the leaderboard verifies with: native or groth16 (needs --keys)")
	cmd.Flags().StringVar(&signKey, "sign-key", "", "Hex secp256k1 key; submit as the signing address instead of --player")
	cmd.MarkFlagsOneRequired("player", "sign-key")
	cmd.MarkFlagsMutuallyExclusive("player", "sign-key")
	cmd.MarkFlagsOneRequired("map", "grid")
	return cmd
}

func newLeaderboardCmd() *cobra.Command {
	var dbPath string
	var showEvents bool
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the high score and standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.NewPersistenceStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			// reading needs no verifier
			lb := contract.New(store, nil, contract.Config{})

			high, holder, err := lb.HighScore()
			if err != nil {
				return err
			}
			if holder == "" {
				fmt.Println("no scores yet")
				return nil
			}
			fmt.Printf("🏆 high score %s by %s\n", high.Dec(), holder)
			standings, err := lb.Standings()
			if err != nil {
				return err
			}
			for i, s := range standings {
				fmt.Printf("%3d. %-20s %s\n", i+1, s.Player, s.Score.Dec())
			}
			if !showEvents {
				return nil
			}
			events, err := lb.Events()
			if err != nil {
				return err
			}
			for _, ev := range events {
				fmt.Println(ev)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "leaderboard.db", "Leaderboard database directory")
	cmd.Flags().BoolVar(&showEvents, "events", false, "Also list every submission")
	return cmd
}
