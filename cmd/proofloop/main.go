package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "proofloop",
	Short: "Iterative solve-verify-refine proof engine",
	Long: `proofloop drives a language model through drafting, self-critique,
independent verification, and correction until it produces a result it can
defend, or gives up within a resource budget.

Every invocation persists its problem, transcript, and (on success) the
accepted solution under a timestamped run directory for later inspection.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to proofloop.yaml (default: ./proofloop.yaml if present)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
