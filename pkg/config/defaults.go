package config

// Default budgets and settings, applied to any field left zero in YAML.
const (
	// DefaultPlannerMaxRounds caps the outer planner loop.
	DefaultPlannerMaxRounds = 100
	// DefaultNavigatorMaxRounds caps each inner navigator dialogue.
	DefaultNavigatorMaxRounds = 20
)

// defaults returns the baseline configuration merged under user YAML.
func defaults() *Config {
	return &Config{
		PlannerMaxRounds:   DefaultPlannerMaxRounds,
		NavigatorMaxRounds: DefaultNavigatorMaxRounds,
		EnabledNavigators:  []string{"browser", "api", "time_keeper"},
		MemoryMode:         MemoryModeStatic,
		ProofsDir:          "proofs",
		Browser: BrowserConfig{
			Headless:       true,
			TimeoutSeconds: 30,
		},
		Scanner: ScannerConfig{
			TimeoutSeconds: 300,
		},
		API: APIConfig{
			Port: 8080,
		},
	}
}
