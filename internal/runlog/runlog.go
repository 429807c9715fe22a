// Package runlog persists the artifacts of one engine invocation: the
// problem statement, any supplementary prompts, an append-only transcript,
// and (on success) the accepted solution. One timestamp-named directory is
// created per invocation and shared by every run attempt inside it.
//
// Transcript appends are fire-and-forget: a failed write must never abort
// a proof attempt, so Append returns nothing.
package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Artifact filenames inside a run directory.
const (
	ProblemFile      = "problem.txt"
	OtherPromptsJSON = "other_prompts.json"
	OtherPromptsMD   = "other_prompts.md"
	TranscriptFile   = "log.txt"
	SolutionFile     = "solution.md"
)

// dirStamp keeps the timestamp ISO-shaped but filesystem-safe.
const dirStamp = "2006-01-02T15-04-05.000Z"

// Run is the artifact directory for one engine invocation.
type Run struct {
	Dir string

	mu     sync.Mutex
	onLine func(string)
}

// Begin creates the run directory and synchronously writes the problem and
// supplementary-prompt files before any generation call is made. onLine,
// when non-nil, receives every transcript line as it is appended.
func Begin(root, problem string, extras []string, onLine func(string)) (*Run, error) {
	dir := filepath.Join(root, time.Now().UTC().Format(dirStamp))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ProblemFile), []byte(problem), 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", ProblemFile, err)
	}

	if len(extras) > 0 {
		data, err := json.MarshalIndent(extras, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal supplementary prompts: %w", err)
		}
		if err := os.WriteFile(filepath.Join(dir, OtherPromptsJSON), data, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", OtherPromptsJSON, err)
		}
		if err := os.WriteFile(filepath.Join(dir, OtherPromptsMD), []byte(extrasMarkdown(extras)), 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", OtherPromptsMD, err)
		}
	}

	return &Run{Dir: dir, onLine: onLine}, nil
}

// Append adds one line to the transcript and streams it to the live
// callback. Write failures are swallowed.
func (r *Run) Append(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.onLine != nil {
		r.onLine(line)
	}

	f, err := os.OpenFile(filepath.Join(r.Dir, TranscriptFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()
	_, _ = f.WriteString(line + "\n")
}

// Appendf is Append with formatting.
func (r *Run) Appendf(format string, args ...any) {
	r.Append(fmt.Sprintf(format, args...))
}

// Finalize writes the accepted solution and returns its path. Called on
// overall success only.
func (r *Run) Finalize(solution string) (string, error) {
	path := filepath.Join(r.Dir, SolutionFile)
	if err := os.WriteFile(path, []byte(solution), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", SolutionFile, err)
	}
	return path, nil
}

func extrasMarkdown(extras []string) string {
	var b strings.Builder
	b.WriteString("# Supplementary Prompts\n")
	for i, extra := range extras {
		fmt.Fprintf(&b, "\n## Prompt %d\n\n%s\n", i+1, extra)
	}
	return b.String()
}
