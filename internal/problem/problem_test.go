package problem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Inline(t *testing.T) {
	got, err := Load("  Prove 1+1=2  ", "")
	require.NoError(t, err)
	assert.Equal(t, "Prove 1+1=2", got)
}

func TestLoad_Validation(t *testing.T) {
	_, err := Load("", "")
	assert.ErrorIs(t, err, ErrMissing)

	_, err = Load("inline", "/tmp/somewhere")
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "q.md")
	require.NoError(t, os.WriteFile(path, []byte("Show that e is irrational.\n"), 0644))

	got, err := Load("", path)
	require.NoError(t, err)
	assert.Equal(t, "Show that e is irrational.", got)
}

func TestLoad_DirSearchOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "statement.txt"), []byte("second choice"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "problem.txt"), []byte("first choice"), 0644))

	got, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, "first choice", got, "problem.txt outranks statement.txt")
}

func TestLoad_DirWithoutProblem(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("unrelated"), 0644))

	_, err := Load("", dir)
	assert.Error(t, err)
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "problem.txt")
	require.NoError(t, os.WriteFile(path, []byte("   \n"), 0644))

	_, err := Load("", path)
	assert.Error(t, err)
}

func TestLoad_MissingPath(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
