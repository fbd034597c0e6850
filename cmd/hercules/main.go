// Hercules test-execution engine — runs a single test command from the
// CLI or serves the HTTP API for callers to submit commands.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/testzeus/hercules/pkg/agent/orchestrator"
	"github.com/testzeus/hercules/pkg/api"
	"github.com/testzeus/hercules/pkg/config"
	"github.com/testzeus/hercules/pkg/models"
	"github.com/testzeus/hercules/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configPath := flag.String("config",
		getEnv("HERCULES_CONFIG", "./hercules.yaml"),
		"Path to the configuration file")
	command := flag.String("command", "", "Test command to execute (CLI mode)")
	currentURL := flag.String("current-url", "", "Starting URL for browser steps")
	serve := flag.Bool("serve", false, "Serve the HTTP API instead of running one command")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Version)
		return
	}

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, continuing with existing environment", "error", err)
	}

	slog.Info("Starting hercules", "version", version.Version, "config", *configPath)

	cfg, err := config.Initialize(*configPath)
	if err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	engine, err := orchestrator.New(ctx, cfg)
	if err != nil {
		slog.Error("Failed to build engine", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			slog.Error("Error closing engine", "error", err)
		}
	}()

	if *serve {
		server := api.NewServer(engine)
		if err := server.Run(cfg.API.Port); err != nil {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
		return
	}

	if *command == "" {
		slog.Error("Either --command or --serve is required")
		flag.Usage()
		os.Exit(2)
	}

	result, err := engine.ProcessCommand(ctx, *command, *currentURL)
	if err != nil {
		slog.Error("Command execution failed", "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		slog.Error("Failed to render result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if result.TerminatedReason != models.TerminatedOK || !assertionsPassed(result) {
		os.Exit(1)
	}
}

// assertionsPassed reports whether every recorded assertion passed.
func assertionsPassed(result *models.ChatResult) bool {
	for _, a := range result.Assertions {
		if !a.Passed {
			return false
		}
	}
	return true
}
