// Package proofs persists per-run evidence artifacts: conversation logs
// as JSON files plus the directory layout for screenshots, network
// traces, and videos. Writing is best-effort; a failed artifact logs a
// warning and never fails the run.
package proofs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/testzeus/hercules/pkg/models"
)

// artifact subdirectories created per run.
var runSubdirs = []string{"screenshots", "network", "videos"}

// Writer lays out proof artifacts under a root directory, one
// subdirectory per run.
type Writer struct {
	root string
}

// NewWriter creates a proofs writer rooted at dir. An empty dir disables
// proof writing entirely.
func NewWriter(dir string) *Writer {
	return &Writer{root: dir}
}

// Enabled reports whether proof writing is configured.
func (w *Writer) Enabled() bool { return w != nil && w.root != "" }

// RunDir creates (if needed) and returns the artifact directory for a
// run, with the standard subdirectories alongside. Returns "" when
// disabled or on filesystem failure.
func (w *Writer) RunDir(runID string) string {
	if !w.Enabled() {
		return ""
	}
	dir := filepath.Join(w.root, runID)
	for _, sub := range runSubdirs {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			slog.Warn("creating proof directory failed", "dir", dir, "error", err)
			return ""
		}
	}
	return dir
}

// ScreenshotDir returns the screenshot directory for a run, creating the
// run layout on the way. Empty when disabled.
func (w *Writer) ScreenshotDir(runID string) string {
	dir := w.RunDir(runID)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "screenshots")
}

// conversationRecord is the on-disk shape of one logged dialogue.
type conversationRecord struct {
	Sender   string           `json:"sender"`
	Receiver string           `json:"receiver"`
	LoggedAt string           `json:"logged_at"`
	Messages []models.Message `json:"messages"`
}

// WriteConversation persists one dialogue as
// <sender>__<receiver>__<RFC3339 ts>.json in the run directory.
// Best-effort: failures are logged, never returned.
func (w *Writer) WriteConversation(runID, sender, receiver string, msgs []models.Message) {
	dir := w.RunDir(runID)
	if dir == "" {
		return
	}

	now := time.Now().UTC()
	record := conversationRecord{
		Sender:   sender,
		Receiver: receiver,
		LoggedAt: now.Format(time.RFC3339),
		Messages: msgs,
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		slog.Warn("marshaling proof conversation failed", "run_id", runID, "error", err)
		return
	}

	// Colons are not portable in file names; use a compact timestamp.
	name := fmt.Sprintf("%s__%s__%s.json", sender, receiver, now.Format("2006-01-02T15-04-05Z"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Warn("writing proof conversation failed", "path", path, "error", err)
	}
}
