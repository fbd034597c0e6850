package proofs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testzeus/hercules/pkg/models"
)

func TestDisabledWriterIsInert(t *testing.T) {
	w := NewWriter("")
	assert.False(t, w.Enabled())
	assert.Empty(t, w.RunDir("run-1"))
	assert.Empty(t, w.ScreenshotDir("run-1"))
	// Must not panic or create anything.
	w.WriteConversation("run-1", "planner", "user", nil)
}

func TestRunDirCreatesLayout(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	require.True(t, w.Enabled())

	dir := w.RunDir("run-42")
	require.Equal(t, filepath.Join(root, "run-42"), dir)
	for _, sub := range []string{"screenshots", "network", "videos"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err, sub)
		assert.True(t, info.IsDir())
	}

	assert.Equal(t, filepath.Join(dir, "screenshots"), w.ScreenshotDir("run-42"))
}

func TestWriteConversationPersistsMessages(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)

	msgs := []models.Message{
		{Role: models.RoleUser, Name: "user", Content: "open the page"},
		{Role: models.RoleAssistant, Name: "browser_nav", Content: "done ##TERMINATE TASK##"},
	}
	w.WriteConversation("run-7", "browser_nav", "browser_executor", msgs)

	entries, err := os.ReadDir(filepath.Join(root, "run-7"))
	require.NoError(t, err)

	var logFile string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			logFile = e.Name()
		}
	}
	require.NotEmpty(t, logFile, "conversation log missing")
	assert.Contains(t, logFile, "browser_nav__browser_executor__")

	data, err := os.ReadFile(filepath.Join(root, "run-7", logFile))
	require.NoError(t, err)

	var record struct {
		Sender   string           `json:"sender"`
		Receiver string           `json:"receiver"`
		LoggedAt string           `json:"logged_at"`
		Messages []models.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "browser_nav", record.Sender)
	assert.Equal(t, "browser_executor", record.Receiver)
	assert.NotEmpty(t, record.LoggedAt)
	require.Len(t, record.Messages, 2)
	assert.Equal(t, "open the page", record.Messages[0].Content)
}
