package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/agent/registry"
	"github.com/testzeus/hercules/pkg/memory"
)

func TestTruncateBoundsObservation(t *testing.T) {
	short := "small output"
	assert.Equal(t, short, truncate(short))

	long := strings.Repeat("x", maxObservationChars+500)
	got := truncate(long)
	assert.Len(t, got, maxObservationChars+len("\n... (output truncated)"))
	assert.Contains(t, got, "(output truncated)")
}

func TestCompactWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", compactWhitespace("  a \n\t b   c\n"))
	assert.Equal(t, "", compactWhitespace(" \n\t "))
}

func TestRegisterBuiltinsSkipsUnconfiguredFamilies(t *testing.T) {
	reg := registry.New()
	require.NoError(t, RegisterBuiltins(reg, Deps{}))

	// Always-on families.
	for tag, tool := range map[agent.Tag]string{
		agent.TagAPI:        "http_request",
		agent.TagTimeKeeper: "wait_for",
		agent.TagExecutor:   "run_command",
	} {
		_, err := reg.Resolve(tag, tool)
		assert.NoError(t, err, tool)
	}

	// Families gated on dependencies.
	for tag, tool := range map[agent.Tag]string{
		agent.TagBrowser: "openurl",
		agent.TagSQL:     "sql_query",
		agent.TagSec:     "run_scan",
	} {
		_, err := reg.Resolve(tag, tool)
		assert.ErrorIs(t, err, registry.ErrToolNotFound, tool)
	}
}

func TestWaitForPausesAndReports(t *testing.T) {
	reg := registry.New()
	require.NoError(t, registerTimeTools(reg))

	start := time.Now()
	res := invoke(t, reg, agent.TagTimeKeeper, "wait_for", `{"seconds": 0.05}`)
	require.False(t, res.IsError)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Contains(t, res.Content, "Waited")
}

func TestWaitForHonorsCancellation(t *testing.T) {
	reg := registry.New()
	require.NoError(t, registerTimeTools(reg))
	d, err := reg.Resolve(agent.TagTimeKeeper, "wait_for")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = d.Invoke(ctx, "c", []byte(`{"seconds": 30}`))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCurrentTime(t *testing.T) {
	reg := registry.New()
	require.NoError(t, registerTimeTools(reg))

	res := invoke(t, reg, agent.TagTimeKeeper, "current_time", `{}`)
	require.False(t, res.IsError)
	_, err := time.Parse(time.RFC1123, res.Content)
	assert.NoError(t, err)
}

func TestRunCommandCapturesOutput(t *testing.T) {
	reg := registry.New()
	require.NoError(t, registerExecutorTools(reg))

	res := invoke(t, reg, agent.TagExecutor, "run_command", `{"command": "echo hello"}`)
	require.False(t, res.IsError, res.Content)
	assert.Equal(t, "hello", res.Content)
}

func TestRunCommandReportsExitError(t *testing.T) {
	reg := registry.New()
	require.NoError(t, registerExecutorTools(reg))

	res := invoke(t, reg, agent.TagExecutor, "run_command", `{"command": "echo oops >&2; exit 3"}`)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "oops")
	assert.Contains(t, res.Content, "exit")
}

func TestRunCommandNoOutput(t *testing.T) {
	reg := registry.New()
	require.NoError(t, registerExecutorTools(reg))

	res := invoke(t, reg, agent.TagExecutor, "run_command", `{"command": "true"}`)
	require.False(t, res.IsError)
	assert.Equal(t, "(command produced no output)", res.Content)
}

func TestRetrieveMemoryStaticFallback(t *testing.T) {
	dir := t.TempDir()
	writeMemoryFile(t, dir, "creds.txt", "admin password is hunter2")

	reg := registry.New()
	require.NoError(t, registerMemoryTools(reg, memory.NewStaticStore(dir)))

	res := invoke(t, reg, agent.TagBrowser, "retrieve_memory", `{"query": "admin password"}`)
	require.False(t, res.IsError)
	assert.Contains(t, res.Content, "hunter2")
}

func TestRetrieveMemoryEmptyStore(t *testing.T) {
	reg := registry.New()
	require.NoError(t, registerMemoryTools(reg, memory.NewStaticStore(t.TempDir())))

	res := invoke(t, reg, agent.TagSQL, "retrieve_memory", `{"query": "anything"}`)
	require.False(t, res.IsError)
	assert.Equal(t, "No memory is available.", res.Content)
}

// retrieve_memory is advertised to every navigator, not one family.
func TestRetrieveMemoryVisibleEverywhere(t *testing.T) {
	reg := registry.New()
	require.NoError(t, registerMemoryTools(reg, memory.NewStaticStore(t.TempDir())))

	for _, tag := range agent.KnownTags() {
		_, err := reg.Resolve(tag, "retrieve_memory")
		assert.NoError(t, err, tag)
	}
}

func writeMemoryFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
