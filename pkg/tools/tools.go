// Package tools registers the engine's built-in tool surfaces into the
// tool registry: browser driving, HTTP requests, SQL access, security
// scans, waits, shell commands, and memory retrieval. All registration
// happens at startup.
package tools

import (
	"strings"

	"github.com/testzeus/hercules/pkg/agent/registry"
	"github.com/testzeus/hercules/pkg/browser"
	"github.com/testzeus/hercules/pkg/config"
	"github.com/testzeus/hercules/pkg/memory"
)

// maxObservationChars bounds tool output fed back into LLM context.
const maxObservationChars = 8000

// Deps carries the shared resources the built-in handlers close over.
// Nil/empty fields skip the corresponding tool family.
type Deps struct {
	Browser   *browser.Manager
	Databases map[string]config.DatabaseConfig
	Scanner   config.ScannerConfig
	Memory    memory.Store

	// ScreenshotDir receives screenshot captures; empty disables the
	// screenshot tool.
	ScreenshotDir string
}

// RegisterBuiltins wires every applicable built-in tool into the registry.
func RegisterBuiltins(reg *registry.Registry, deps Deps) error {
	if deps.Browser != nil {
		if err := registerBrowserTools(reg, deps.Browser, deps.ScreenshotDir); err != nil {
			return err
		}
	}
	if err := registerAPITools(reg); err != nil {
		return err
	}
	if len(deps.Databases) > 0 {
		if err := registerSQLTools(reg, deps.Databases); err != nil {
			return err
		}
	}
	if deps.Scanner.Binary != "" {
		if err := registerScanTools(reg, deps.Scanner); err != nil {
			return err
		}
	}
	if err := registerTimeTools(reg); err != nil {
		return err
	}
	if err := registerExecutorTools(reg); err != nil {
		return err
	}
	if deps.Memory != nil {
		if err := registerMemoryTools(reg, deps.Memory); err != nil {
			return err
		}
	}
	return nil
}

// truncate bounds observation text, marking the cut.
func truncate(s string) string {
	if len(s) <= maxObservationChars {
		return s
	}
	return s[:maxObservationChars] + "\n... (output truncated)"
}

// compactWhitespace collapses runs of whitespace, keeping page text and
// command output readable inside observations.
func compactWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
