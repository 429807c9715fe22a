package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proofloop/internal/config"
	"proofloop/internal/runlog"
)

func TestNewAdapter_BadOverrideLeavesTranscript(t *testing.T) {
	run, err := runlog.Begin(t.TempDir(), "problem text", nil, nil)
	require.NoError(t, err)

	_, err = newAdapter(run, "openai:", config.Default())
	require.Error(t, err)

	data, err := os.ReadFile(filepath.Join(run.Dir, runlog.TranscriptFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "configuration error")
	assert.Contains(t, string(data), "openai:")
}
