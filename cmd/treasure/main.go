// treasure proves, verifies and scores treasure-hunt games.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/colorfulnotion/treasure/common"
	"github.com/colorfulnotion/treasure/log"
	"github.com/colorfulnotion/treasure/telemetry"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

type globalFlags struct {
	logLevel     string
	debugModules string
	otlpEndpoint string
	sealKey      string
	keysDir      string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	var tracing *telemetry.Tracing

	rootCmd := &cobra.Command{
		Use:   "treasure",
		Short: "Zero-knowledge treasure hunt prover",
		Long: `Walk a public treasure map, prove every move without revealing the path,
fold the move proofs into one, and submit it to a local leaderboard.`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := log.InitLogger(g.logLevel); err != nil {
				return err
			}
			log.EnableModules(g.debugModules)
			var err error
			tracing, err = telemetry.InitTracing(cmd.Context(), g.otlpEndpoint)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if tracing == nil {
				return nil
			}
			return tracing.Shutdown(context.Background())
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&g.debugModules, "debug", "", "Modules to enable trace/debug output for, comma separated or \"all\"")
	rootCmd.PersistentFlags().StringVar(&g.otlpEndpoint, "otlp-endpoint", "", "OTLP/HTTP trace collector, host:port or URL")
	rootCmd.PersistentFlags().StringVar(&g.sealKey, "seal-key", defaultSealKey, "MAC key for native seals (at most 64 bytes)")
	rootCmd.PersistentFlags().StringVar(&g.keysDir, "keys", "", "Directory holding groth16 keys; created on first use")

	rootCmd.AddCommand(newProveCmd(g))
	rootCmd.AddCommand(newVerifyCmd(g))
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newSubmitCmd(g))
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newPlayCmd(g))
	return rootCmd
}

func versionString() string {
	commit := Commit
	if commit == "none" {
		commit = common.CommitHash()
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, commit, BuildTime)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
