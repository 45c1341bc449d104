package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/bibliz/internal/config"
	"github.com/abhisek/bibliz/internal/history"
	"github.com/abhisek/bibliz/internal/llm"
	"github.com/abhisek/bibliz/internal/logger"
	"github.com/abhisek/bibliz/internal/questions"
	"github.com/abhisek/bibliz/internal/store"
)

// env holds the dependencies shared by the commands that touch storage.
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *store.Store
	kv      store.KV
	history *history.Repository

	closers []func()
}

// loadConfig reads configuration, applying the --config and --db flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{ConfigFile: file})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Store.DBPath = p
	}
	return cfg, nil
}

// openEnv loads config, builds the logger and opens the sqlite store and
// the configured history backend. logFile is used when the config names
// no log file; "" logs to stderr.
func openEnv(cmd *cobra.Command, logFile string) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}
	log, syncLog, err := logger.New(cfg.LoggerConfig(logFile))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	e.log = log
	e.closers = append(e.closers, syncLog)

	dbPath, err := cfg.DBPath()
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, func() { _ = st.Close() })

	kv, err := store.OpenKV(cmd.Context(), cfg.BackendConfig(), st)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open %s history store: %w", cfg.Store.Backend, err)
	}
	e.kv = kv
	e.closers = append(e.closers, func() { _ = kv.Close() })
	e.history = history.NewRepository(kv, log)

	log.Debug("environment ready",
		zap.String("db", dbPath),
		zap.String("backend", cfg.Store.Backend),
	)
	return e, nil
}

// generator builds the question generator over the configured provider.
// Every provider call is recorded in the store's LLM event log.
func (e *env) generator(ctx context.Context) (*questions.LLMGenerator, error) {
	provider, err := llm.NewProvider(ctx, e.cfg.LLMConfig(), e.store.EventRepo(), e.log)
	if err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w\n\nSet GEMINI_API_KEY (or another provider key) or configure llm.provider", err)
	}
	return questions.New(provider, e.cfg.QuestionsConfig()), nil
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

// openStore opens only the sqlite store, for commands that inspect the
// LLM event log.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := cfg.DBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
