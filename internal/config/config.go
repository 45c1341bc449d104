// Package config loads bibliz settings from defaults, an optional YAML
// file, a .env file and BIBLIZ_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/bibliz/internal/llm"
	"github.com/abhisek/bibliz/internal/logger"
	"github.com/abhisek/bibliz/internal/questions"
	"github.com/abhisek/bibliz/internal/quiz"
	"github.com/abhisek/bibliz/internal/server"
	"github.com/abhisek/bibliz/internal/store"
)

// EnvPrefix is prepended to every environment override, e.g.
// BIBLIZ_QUIZ_TIME_LIMIT for quiz.time_limit.
const EnvPrefix = "BIBLIZ"

// Config is the fully resolved application configuration.
type Config struct {
	LLM    LLM    `mapstructure:"llm"`
	Quiz   Quiz   `mapstructure:"quiz"`
	Store  Store  `mapstructure:"store"`
	Server Server `mapstructure:"server"`
	Log    Log    `mapstructure:"log"`
}

// LLM holds provider selection and credentials.
type LLM struct {
	Provider    string        `mapstructure:"provider"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Retry       Retry         `mapstructure:"retry"`

	Gemini     Provider `mapstructure:"gemini"`
	OpenAI     Provider `mapstructure:"openai"`
	Anthropic  Provider `mapstructure:"anthropic"`
	OpenRouter Provider `mapstructure:"openrouter"`
	Ollama     Ollama   `mapstructure:"ollama"`
}

// Provider is the common shape of a hosted provider section.
type Provider struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Ollama points at a local model server.
type Ollama struct {
	ServerURL string `mapstructure:"server_url"`
	Model     string `mapstructure:"model"`
}

type Retry struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// Quiz holds game rules.
type Quiz struct {
	QuestionsPerBlock int           `mapstructure:"questions_per_block"`
	TimeLimit         time.Duration `mapstructure:"time_limit"`
	Language          string        `mapstructure:"language"`
	Difficulty        string        `mapstructure:"difficulty"`
}

// Store selects the persistence backend.
type Store struct {
	Backend  string   `mapstructure:"backend"`
	DBPath   string   `mapstructure:"db_path"`
	Postgres Postgres `mapstructure:"postgres"`
	Redis    Redis    `mapstructure:"redis"`
}

type Postgres struct {
	DSN             string        `mapstructure:"dsn"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Server configures the HTTP API started by `bibliz serve`.
type Server struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Log configures the zap logger.
type Log struct {
	Level      string `mapstructure:"level"`
	Production bool   `mapstructure:"production"`
	File       string `mapstructure:"file"`
}

// Options tells Load where to look.
type Options struct {
	// ConfigFile is an explicit YAML path. When empty, bibliz.yaml is
	// searched for in the working directory and the user config dir, and
	// a missing file is not an error.
	ConfigFile string

	// EnvFile is the dotenv file to load. Defaults to ".env"; a missing
	// file is skipped.
	EnvFile string
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()
	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.temperature", questions.DefaultConfig().Temperature)
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)

	// Keys without a default are invisible to AutomaticEnv during
	// Unmarshal, so every key gets one.
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.ollama.server_url", d.Ollama.ServerURL)
	v.SetDefault("llm.ollama.model", d.Ollama.Model)

	q := quiz.DefaultSettings()
	v.SetDefault("quiz.questions_per_block", q.QuestionsPerBlock)
	v.SetDefault("quiz.time_limit", q.TimeLimit)
	v.SetDefault("quiz.language", string(q.Language))
	v.SetDefault("quiz.difficulty", string(q.Difficulty))

	v.SetDefault("store.backend", store.BackendSQLite)
	v.SetDefault("store.db_path", "")
	v.SetDefault("store.postgres.dsn", "")
	v.SetDefault("store.postgres.max_conns", 4)
	v.SetDefault("store.postgres.max_conn_lifetime", 30*time.Minute)
	v.SetDefault("store.redis.addr", "")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "bibliz:")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.production", false)
	v.SetDefault("log.file", "")
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("bibliz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "bibliz"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	if c.Quiz.QuestionsPerBlock < quiz.MinQuestionsPerBlock {
		return fmt.Errorf("quiz.questions_per_block must be at least %d, got %d", quiz.MinQuestionsPerBlock, c.Quiz.QuestionsPerBlock)
	}
	if c.Quiz.TimeLimit < time.Second {
		return fmt.Errorf("quiz.time_limit must be at least 1s, got %s", c.Quiz.TimeLimit)
	}
	if _, err := quiz.ParseLanguage(c.Quiz.Language); err != nil {
		return fmt.Errorf("quiz.language: %w", err)
	}
	if _, err := quiz.ParseDifficulty(c.Quiz.Difficulty); err != nil {
		return fmt.Errorf("quiz.difficulty: %w", err)
	}
	switch c.Store.Backend {
	case store.BackendSQLite, store.BackendPostgres, store.BackendRedis:
	default:
		return fmt.Errorf("store.backend must be one of sqlite, postgres, redis; got %q", c.Store.Backend)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		return fmt.Errorf("llm.temperature must be within 0-1, got %g", c.LLM.Temperature)
	}
	return nil
}

// LLMConfig converts the llm section for llm.NewProvider. Provider
// auto-discovery still applies when the selected provider has no key.
func (c *Config) LLMConfig() llm.Config {
	l := c.LLM
	return llm.Config{
		Provider:   l.Provider,
		Anthropic:  llm.AnthropicConfig{APIKey: l.Anthropic.APIKey, Model: l.Anthropic.Model},
		OpenAI:     llm.OpenAIConfig{APIKey: l.OpenAI.APIKey, Model: l.OpenAI.Model, BaseURL: l.OpenAI.BaseURL},
		Gemini:     llm.GeminiConfig{APIKey: l.Gemini.APIKey, Model: l.Gemini.Model, BaseURL: l.Gemini.BaseURL},
		OpenRouter: llm.OpenRouterConfig{APIKey: l.OpenRouter.APIKey, Model: l.OpenRouter.Model, BaseURL: l.OpenRouter.BaseURL},
		Ollama:     llm.OllamaConfig{ServerURL: l.Ollama.ServerURL, Model: l.Ollama.Model},
		Retry: llm.RetryConfig{
			MaxAttempts: l.Retry.MaxAttempts,
			InitialWait: l.Retry.InitialWait,
			MaxWait:     l.Retry.MaxWait,
			Multiplier:  l.Retry.Multiplier,
		},
		Timeout: l.Timeout,
	}
}

// QuestionsConfig returns the generator settings.
func (c *Config) QuestionsConfig() questions.Config {
	qc := questions.DefaultConfig()
	qc.Temperature = c.LLM.Temperature
	qc.Timeout = c.LLM.Timeout
	return qc
}

// QuizSettings returns the game rules. Load has already validated them.
func (c *Config) QuizSettings() quiz.Settings {
	lang, _ := quiz.ParseLanguage(c.Quiz.Language)
	diff, _ := quiz.ParseDifficulty(c.Quiz.Difficulty)
	return quiz.Settings{
		QuestionsPerBlock: c.Quiz.QuestionsPerBlock,
		TimeLimit:         c.Quiz.TimeLimit,
		Language:          lang,
		Difficulty:        diff,
	}
}

// BackendConfig returns the KV backend selection.
func (c *Config) BackendConfig() store.BackendConfig {
	return store.BackendConfig{
		Backend: c.Store.Backend,
		Postgres: store.PostgresConfig{
			DSN:             c.Store.Postgres.DSN,
			MaxConns:        c.Store.Postgres.MaxConns,
			MaxConnLifetime: c.Store.Postgres.MaxConnLifetime,
		},
		Redis: store.RedisConfig{
			Addr:     c.Store.Redis.Addr,
			Password: c.Store.Redis.Password,
			DB:       c.Store.Redis.DB,
			Prefix:   c.Store.Redis.Prefix,
		},
	}
}

// DBPath returns the sqlite path, falling back to the default location.
func (c *Config) DBPath() (string, error) {
	if c.Store.DBPath != "" {
		return c.Store.DBPath, store.EnsureDir(c.Store.DBPath)
	}
	return store.DefaultDBPath()
}

// ServerConfig returns the HTTP listener settings.
func (c *Config) ServerConfig() server.Config {
	return server.Config{
		Addr:         c.Server.Addr,
		ReadTimeout:  c.Server.ReadTimeout,
		WriteTimeout: c.Server.WriteTimeout,
	}
}

// LoggerConfig returns the logger settings. fallbackFile is used when no
// log file is configured; pass "" to log to stderr.
func (c *Config) LoggerConfig(fallbackFile string) logger.Config {
	file := c.Log.File
	if file == "" {
		file = fallbackFile
	}
	return logger.Config{Level: c.Log.Level, Production: c.Log.Production, File: file}
}
