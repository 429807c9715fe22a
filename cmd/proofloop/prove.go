package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"proofloop/internal/config"
	"proofloop/internal/engine"
	"proofloop/internal/llm"
	"proofloop/internal/problem"
	"proofloop/internal/runlog"
	"proofloop/internal/runstore"
)

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Attempt a problem until verification converges",
	Long: `Attempt a problem end to end: draft a solution, self-improve it, have an
adversarial pass verify it, and feed rejections back as corrections. A run
converges once verification accepts five times in a row; the engine makes
up to --max-runs independent attempts.

The problem is given inline with --problem, or with --problem-path naming a
file or a directory containing one of: problem.txt, problem.md,
statement.txt, statement.md.`,
	Run: func(cmd *cobra.Command, args []string) {
		problemFlag, _ := cmd.Flags().GetString("problem")
		problemPath, _ := cmd.Flags().GetString("problem-path")
		model, _ := cmd.Flags().GetString("model")
		extras, _ := cmd.Flags().GetStringArray("other-prompt")
		maxRuns, _ := cmd.Flags().GetInt("max-runs")
		verbose, _ := cmd.Flags().GetBool("verbose")
		runRoot, _ := cmd.Flags().GetString("run-root")

		statement, err := problem.Load(problemFlag, problemPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if runRoot != "" {
			cfg.RunRoot = runRoot
		}

		dim := color.New(color.Faint).SprintFunc()
		var onLine func(string)
		if verbose {
			onLine = func(line string) { fmt.Fprintln(os.Stderr, dim(line)) }
		}

		run, err := runlog.Begin(cfg.RunRoot, statement, extras, onLine)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Run directory: %s\n", run.Dir)

		adapter, err := newAdapter(run, model, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "Transcript in %s\n", run.Dir)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Backend: %s\n", adapter.Backend())

		// The run index is audit data; its failures never stop a proof.
		invocationID := uuid.NewString()
		store, storeErr := runstore.Open(cfg.ResolvedIndexPath())
		if storeErr != nil {
			slog.Warn("run index unavailable", "error", storeErr)
		} else {
			defer func() { _ = store.Close() }()
			if err := store.RecordStart(context.Background(), invocationID, adapter.Backend().String(), run.Dir); err != nil {
				slog.Warn("failed to index invocation", "error", err)
				_ = store.Close()
				store = nil
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		eng := engine.New(adapter, run, slog.Default())
		res := eng.Solve(ctx, engine.Params{
			Problem: statement,
			Extras:  extras,
			MaxRuns: maxRuns,
		})

		if store != nil {
			if err := store.RecordFinish(context.Background(), invocationID,
				res.State.String(), res.RunsUsed, res.LastError, res.SolutionPath); err != nil {
				slog.Warn("failed to index invocation result", "error", err)
			}
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		switch res.State {
		case engine.StateConverged:
			fmt.Fprintf(os.Stderr, "%s Converged after %d run(s)\n", green("✓"), res.RunsUsed)
			if res.SolutionPath != "" {
				fmt.Fprintf(os.Stderr, "Solution written to %s\n", res.SolutionPath)
			}
			fmt.Println(res.Solution)
		case engine.StateAborted:
			fmt.Fprintf(os.Stderr, "%s Aborted: %s\n", yellow("!"), res.LastError)
			fmt.Fprintf(os.Stderr, "Partial transcript in %s\n", res.RunDir)
			os.Exit(1)
		default:
			fmt.Fprintf(os.Stderr, "%s Failed after %d run(s): %s\n", red("✗"), res.RunsUsed, res.LastError)
			fmt.Fprintf(os.Stderr, "Transcript in %s\n", res.RunDir)
			os.Exit(1)
		}
	},
}

// newAdapter resolves the generation backend after the run directory
// exists, so a bad model override still leaves a transcript naming it.
func newAdapter(run *runlog.Run, model string, cfg config.Config) (*llm.Adapter, error) {
	adapter, err := llm.New(llm.Options{
		ModelOverride:      model,
		MaxConcurrentCalls: cfg.MaxConcurrentCalls,
		RequestsPerMinute:  cfg.RequestsPerMinute,
	})
	if err != nil {
		run.Appendf("configuration error: %v", err)
		return nil, err
	}
	return adapter, nil
}

func init() {
	proveCmd.Flags().String("problem", "", "problem statement, inline")
	proveCmd.Flags().String("problem-path", "", "path to a problem file or directory")
	proveCmd.Flags().String("model", "", "model override (plain Gemini name, or openai:<name>)")
	proveCmd.Flags().StringArray("other-prompt", nil, "extra instruction injected into every fresh attempt (repeatable)")
	proveCmd.Flags().Int("max-runs", engine.DefaultMaxRuns, "maximum independent run attempts")
	proveCmd.Flags().Bool("verbose", true, "stream transcript lines to stderr")
	proveCmd.Flags().String("run-root", "", "override the run artifact root directory")
	rootCmd.AddCommand(proveCmd)
}
