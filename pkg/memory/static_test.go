package memory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestData(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestStaticStoreConcatenatesSortedFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestData(t, dir, "b_users.json", `{"admin": "secret"}`)
	writeTestData(t, dir, "a_notes.txt", "the staging host is flaky")

	ltm, err := NewStaticStore(dir).GetUserLTM(context.Background())
	require.NoError(t, err)

	assert.Contains(t, ltm, "--- a_notes.txt ---")
	assert.Contains(t, ltm, "--- b_users.json ---")
	assert.Contains(t, ltm, "the staging host is flaky")
	assert.Contains(t, ltm, `{"admin": "secret"}`)
	assert.Less(t, strings.Index(ltm, "a_notes.txt"), strings.Index(ltm, "b_users.json"))
}

func TestStaticStoreSkipsUnsupportedFilesAndDirs(t *testing.T) {
	dir := t.TempDir()
	writeTestData(t, dir, "data.csv", "id,name\n1,alice")
	writeTestData(t, dir, "binary.png", "\x89PNG")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	ltm, err := NewStaticStore(dir).GetUserLTM(context.Background())
	require.NoError(t, err)
	assert.Contains(t, ltm, "data.csv")
	assert.NotContains(t, ltm, "binary.png")
	assert.NotContains(t, ltm, "nested")
}

func TestStaticStoreMissingDirIsEmpty(t *testing.T) {
	s := NewStaticStore(filepath.Join(t.TempDir(), "does-not-exist"))
	ltm, err := s.GetUserLTM(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ltm)
}

// The blob is loaded once; later writes to the directory are not seen.
func TestStaticStoreCachesFirstLoad(t *testing.T) {
	dir := t.TempDir()
	writeTestData(t, dir, "seed.txt", "original")
	s := NewStaticStore(dir)

	first, err := s.GetUserLTM(context.Background())
	require.NoError(t, err)
	require.Contains(t, first, "original")

	writeTestData(t, dir, "late.txt", "added later")
	second, err := s.GetUserLTM(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
