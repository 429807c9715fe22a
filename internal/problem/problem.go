// Package problem resolves the problem statement the engine is asked to
// solve. The statement is supplied inline or by path, never both.
package problem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConventionalNames are the filenames searched, in order, when a problem
// path points at a directory.
var ConventionalNames = []string{
	"problem.txt",
	"problem.md",
	"statement.txt",
	"statement.md",
}

var (
	// ErrMissing is returned when neither inline text nor a path is given.
	ErrMissing = errors.New("a problem statement is required (inline text or path)")

	// ErrAmbiguous is returned when both inline text and a path are given.
	ErrAmbiguous = errors.New("provide the problem inline or by path, not both")
)

// Load resolves the problem statement. Exactly one of inline and path must
// be non-empty. A path may name a file, or a directory searched for one of
// the conventional filenames.
func Load(inline, path string) (string, error) {
	inline = strings.TrimSpace(inline)
	switch {
	case inline == "" && path == "":
		return "", ErrMissing
	case inline != "" && path != "":
		return "", ErrAmbiguous
	case inline != "":
		return inline, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("problem path: %w", err)
	}
	if info.IsDir() {
		return loadFromDir(path)
	}
	return readStatement(path)
}

func loadFromDir(dir string) (string, error) {
	for _, name := range ConventionalNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return readStatement(candidate)
		}
	}
	return "", fmt.Errorf("no problem file found in %s (looked for %s)",
		dir, strings.Join(ConventionalNames, ", "))
}

func readStatement(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read problem file: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("problem file %s is empty", path)
	}
	return text, nil
}
