package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"proofloop/internal/config"
	"proofloop/internal/llm"
	"proofloop/internal/runstore"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check credentials, backend resolution, and run-root health",
	Run: func(cmd *cobra.Command, args []string) {
		model, _ := cmd.Flags().GetString("model")

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		ok := func(format string, args ...any) {
			fmt.Printf("%s %s\n", green("✓"), fmt.Sprintf(format, args...))
		}
		bad := func(format string, args ...any) {
			fmt.Printf("%s %s\n", red("✗"), fmt.Sprintf(format, args...))
		}

		healthy := true

		if os.Getenv(llm.EnvGeminiKey) != "" {
			ok("%s is set", llm.EnvGeminiKey)
		} else {
			bad("%s is not set", llm.EnvGeminiKey)
		}
		if os.Getenv(llm.EnvOpenAIKey) != "" {
			ok("%s is set", llm.EnvOpenAIKey)
		} else {
			bad("%s is not set", llm.EnvOpenAIKey)
		}

		backend, err := llm.Resolve(model)
		if err != nil {
			bad("backend resolution: %v", err)
			healthy = false
		} else {
			ok("would use backend %s", backend)
			switch backend.(type) {
			case llm.Gemini:
				if os.Getenv(llm.EnvGeminiKey) == "" {
					bad("resolved backend needs %s", llm.EnvGeminiKey)
					healthy = false
				}
			case llm.OpenAI:
				if os.Getenv(llm.EnvOpenAIKey) == "" {
					bad("resolved backend needs %s", llm.EnvOpenAIKey)
					healthy = false
				}
			}
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			bad("config: %v", err)
			os.Exit(1)
		}

		if err := checkWritable(cfg.RunRoot); err != nil {
			bad("run root %s is not writable: %v", cfg.RunRoot, err)
			healthy = false
		} else {
			ok("run root %s is writable", cfg.RunRoot)
		}

		if store, err := runstore.Open(cfg.ResolvedIndexPath()); err != nil {
			bad("run index %s: %v", cfg.ResolvedIndexPath(), err)
			healthy = false
		} else {
			_ = store.Close()
			ok("run index %s opens", cfg.ResolvedIndexPath())
		}

		if !healthy {
			os.Exit(1)
		}
	},
}

func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return err
	}
	return os.Remove(probe)
}

func init() {
	doctorCmd.Flags().String("model", "", "model override to test resolution with")
	rootCmd.AddCommand(doctorCmd)
}
