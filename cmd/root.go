// Package cmd wires the CLI commands for the learnai tutor.
package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/learnai/internal/assets"
	"github.com/abhisek/learnai/internal/clarify"
	"github.com/abhisek/learnai/internal/engine"
	"github.com/abhisek/learnai/internal/evaluate"
	"github.com/abhisek/learnai/internal/llm"
	"github.com/abhisek/learnai/internal/memory"
	"github.com/abhisek/learnai/internal/reasoning"
	"github.com/abhisek/learnai/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var rootCmd = &cobra.Command{
	Use:   "learnai",
	Short: "Adaptive AI literacy tutor",
	Long: "LearnAI — terminal tutor that teaches how LLMs and AI agents work,\n" +
		"adapting difficulty and style to how you answer.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLearn(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Env files are optional; absence is not an error.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LEARNAI_DB env var)")
	rootCmd.PersistentFlags().String("learner", "default", "Learner id to operate on")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then LEARNAI_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func learnerID(cmd *cobra.Command) string {
	id, _ := cmd.Flags().GetString("learner")
	if id == "" {
		id = "default"
	}
	return id
}

// newLogger builds the CLI logger: warnings only unless --verbose.
func newLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// llmConfig resolves the provider configuration. An explicit
// LEARNAI_LLM_PROVIDER selection takes precedence over API key discovery;
// a misconfigured explicit selection is reported and the engine runs on
// deterministic fallbacks.
func llmConfig() (llm.Config, bool) {
	if os.Getenv("LEARNAI_LLM_PROVIDER") != "" {
		cfg := llm.ConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider misconfigured:", err)
			return llm.Config{}, false
		}
		return cfg, true
	}
	return llm.DiscoverConfig()
}

// buildEngine opens the store and assembles the session engine with
// whatever collaborators the environment provides. The returned store
// must be closed by the caller.
func buildEngine(cmd *cobra.Command, log *zap.Logger) (*engine.Engine, *store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	cfg, haveCfg := llmConfig()
	var provider llm.Provider
	if haveCfg {
		provider, err = llm.NewProvider(cmd.Context(), cfg, st.Events(), log)
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "AI features will run on deterministic fallbacks.")
			provider = nil
		}
	}

	evaluator := evaluate.New(evaluate.NewLLMEvaluator(provider), log)
	if haveCfg {
		evaluator.SetTimeout(cfg.Timeout)
	}

	runner := reasoning.NewRunner(provider, log)
	eng, err := engine.New(engine.Options{
		Store:     st.Records(),
		Runner:    runner,
		Evaluator: evaluator,
		Clarifier: clarify.New(runner, log),
		Memory:    memory.NewClient(log),
		Assets:    assets.NewClient(log),
		Logger:    log,
	})
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return eng, st, nil
}
