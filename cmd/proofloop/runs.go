package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"proofloop/internal/config"
	"proofloop/internal/runstore"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent engine invocations from the run index",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		store, err := runstore.Open(cfg.ResolvedIndexPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = store.Close() }()

		invocations, err := store.Recent(context.Background(), limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(invocations) == 0 {
			fmt.Println("No recorded invocations.")
			return
		}

		for _, inv := range invocations {
			fmt.Printf("%-36s  %-9s  runs=%-2d  %s  %s\n",
				inv.ID, inv.State, inv.RunsUsed,
				inv.StartedAt.Format(time.RFC3339), inv.RunDir)
			if inv.LastError != "" {
				fmt.Printf("%38s%s\n", "", inv.LastError)
			}
		}
	},
}

func init() {
	runsCmd.Flags().Int("limit", 20, "maximum invocations to list")
	rootCmd.AddCommand(runsCmd)
}
