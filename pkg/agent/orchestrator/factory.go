package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/agent/loopdetect"
	"github.com/testzeus/hercules/pkg/agent/navigator"
	"github.com/testzeus/hercules/pkg/agent/planner"
	"github.com/testzeus/hercules/pkg/agent/prompt"
	"github.com/testzeus/hercules/pkg/agent/registry"
	"github.com/testzeus/hercules/pkg/agent/scheduler"
	"github.com/testzeus/hercules/pkg/browser"
	"github.com/testzeus/hercules/pkg/config"
	"github.com/testzeus/hercules/pkg/llm"
	"github.com/testzeus/hercules/pkg/mcptool"
	"github.com/testzeus/hercules/pkg/memory"
	"github.com/testzeus/hercules/pkg/proofs"
	"github.com/testzeus/hercules/pkg/tools"
)

// Engine bundles the orchestrator with the resources it owns. Close in
// reverse construction order when the process shuts down.
type Engine struct {
	*Orchestrator

	llmClient agent.LLMClient
	browser   *browser.Manager
	bridge    *mcptool.Bridge
	mem       memory.Store
}

// New wires a complete engine from configuration: memory, browser, the
// tool registry with built-ins and MCP bridges, the planner, and one
// navigator pair per enabled tag.
func New(ctx context.Context, cfg *config.Config) (*Engine, error) {
	plannerProvider, err := cfg.Provider(cfg.PlannerProvider)
	if err != nil {
		return nil, err
	}
	navProvider, err := cfg.Provider(cfg.NavigatorProvider)
	if err != nil {
		return nil, err
	}

	mem, err := buildMemory(cfg)
	if err != nil {
		return nil, err
	}
	ltm, err := mem.GetUserLTM(ctx)
	if err != nil {
		return nil, fmt.Errorf("preloading memory: %w", err)
	}

	enabled := enabledTags(cfg)
	proofWriter := proofs.NewWriter(cfg.ProofsDir)

	var browserMgr *browser.Manager
	var currentURL func() string
	if tagEnabled(enabled, agent.TagBrowser) {
		browserMgr = browser.NewManager(cfg.Browser)
		currentURL = browserMgr.CurrentURL
	}

	reg := registry.New()
	err = tools.RegisterBuiltins(reg, tools.Deps{
		Browser:       browserMgr,
		Databases:     cfg.Databases,
		Scanner:       cfg.Scanner,
		Memory:        mem,
		ScreenshotDir: screenshotDir(cfg),
	})
	if err != nil {
		return nil, fmt.Errorf("registering built-in tools: %w", err)
	}

	var bridge *mcptool.Bridge
	if len(cfg.MCPServers) > 0 {
		bridge, err = mcptool.Connect(ctx, reg, cfg.MCPServers)
		if err != nil {
			return nil, fmt.Errorf("connecting MCP servers: %w", err)
		}
	}

	llmClient := llm.NewClient()
	prompts := prompt.NewBuilder()

	pairs := make(map[agent.Tag]*navigator.Pair, len(enabled))
	for _, tag := range enabled {
		pairs[tag] = &navigator.Pair{
			Tag:          tag,
			SystemPrompt: prompts.NavigatorSystemPrompt(tag, ltm),
			MaxTurns:     cfg.NavigatorMaxRounds,
			LLM:          llmClient,
			Provider:     navProvider,
			Registry:     reg,
			Detector:     loopdetect.Detector{},
			Prompts:      prompts,
			CurrentURL:   currentURL,
		}
	}

	orch := &Orchestrator{
		plannerMaxRounds: cfg.PlannerMaxRounds,
		planner: &planner.Planner{
			SystemPrompt: prompts.PlannerSystemPrompt(time.Now(), ltm),
			LLM:          llmClient,
			Provider:     plannerProvider,
		},
		pairs:      pairs,
		sched:      scheduler.New(enabled),
		prompts:    prompts,
		mem:        mem,
		proofs:     proofWriter,
		currentURL: currentURL,
	}
	return &Engine{
		Orchestrator: orch,
		llmClient:    llmClient,
		browser:      browserMgr,
		bridge:       bridge,
		mem:          mem,
	}, nil
}

// Close releases every resource the engine owns.
func (e *Engine) Close() error {
	var firstErr error
	if e.bridge != nil {
		if err := e.bridge.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if e.browser != nil {
		if err := e.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := e.llmClient.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := e.mem.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func buildMemory(cfg *config.Config) (memory.Store, error) {
	if cfg.MemoryMode == config.MemoryModeDynamic {
		dbPath := filepath.Join(cfg.TestDataDir, ".memory")
		return memory.NewDynamicStore(cfg.TestDataDir, dbPath)
	}
	return memory.NewStaticStore(cfg.TestDataDir), nil
}

// enabledTags converts the validated config strings to typed tags.
func enabledTags(cfg *config.Config) []agent.Tag {
	out := make([]agent.Tag, 0, len(cfg.EnabledNavigators))
	for _, name := range cfg.EnabledNavigators {
		out = append(out, agent.Tag(name))
	}
	return out
}

func tagEnabled(tags []agent.Tag, want agent.Tag) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

// screenshotDir places tool-initiated screenshots under a shared captures
// directory; per-run screenshot layout is handled by the proofs writer.
func screenshotDir(cfg *config.Config) string {
	if cfg.ProofsDir == "" {
		return ""
	}
	dir := filepath.Join(cfg.ProofsDir, "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Warn("creating screenshot directory failed", "dir", dir, "error", err)
		return ""
	}
	return dir
}
