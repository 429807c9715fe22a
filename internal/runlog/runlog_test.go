package runlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBegin_WritesProblemFirst(t *testing.T) {
	root := t.TempDir()

	r, err := Begin(root, "Prove 1+1=2", nil, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(r.Dir, ProblemFile))
	require.NoError(t, err)
	assert.Equal(t, "Prove 1+1=2", string(data))

	// No extras were given, so the prompt mirrors must not exist.
	_, err = os.Stat(filepath.Join(r.Dir, OtherPromptsJSON))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(r.Dir, OtherPromptsMD))
	assert.True(t, os.IsNotExist(err))
}

func TestBegin_WritesExtras(t *testing.T) {
	root := t.TempDir()
	extras := []string{"use induction", "avoid AC"}

	r, err := Begin(root, "p", extras, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(r.Dir, OtherPromptsJSON))
	require.NoError(t, err)
	var got []string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, extras, got)

	md, err := os.ReadFile(filepath.Join(r.Dir, OtherPromptsMD))
	require.NoError(t, err)
	assert.Contains(t, string(md), "## Prompt 1")
	assert.Contains(t, string(md), "use induction")
	assert.Contains(t, string(md), "## Prompt 2")
}

func TestAppend_TranscriptAndCallback(t *testing.T) {
	root := t.TempDir()
	var streamed []string

	r, err := Begin(root, "p", nil, func(line string) { streamed = append(streamed, line) })
	require.NoError(t, err)

	r.Append("run 1: drafting")
	r.Appendf("run %d: verdict %v", 1, true)

	data, err := os.ReadFile(filepath.Join(r.Dir, TranscriptFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, []string{"run 1: drafting", "run 1: verdict true"}, lines)
	assert.Equal(t, lines, streamed)
}

func TestAppend_SwallowsWriteFailure(t *testing.T) {
	root := t.TempDir()
	r, err := Begin(root, "p", nil, nil)
	require.NoError(t, err)

	// Make the transcript unwritable by removing the directory.
	require.NoError(t, os.RemoveAll(r.Dir))

	assert.NotPanics(t, func() { r.Append("lost line") })
}

func TestFinalize(t *testing.T) {
	root := t.TempDir()
	r, err := Begin(root, "p", nil, nil)
	require.NoError(t, err)

	path, err := r.Finalize("the accepted proof")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.Dir, SolutionFile), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "the accepted proof", string(data))
}
