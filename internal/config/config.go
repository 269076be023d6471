package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" toml:"server"`
	DB         DBConfig         `yaml:"db" toml:"db"`
	Log        LogConfig        `yaml:"log" toml:"log"`
	Transport  string           `yaml:"transport" toml:"transport"`
	Auth       AuthConfig       `yaml:"auth" toml:"auth"`
	Classifier ClassifierConfig `yaml:"classifier" toml:"classifier"`
	Heuristic  HeuristicConfig  `yaml:"heuristic" toml:"heuristic"`
	Reconciler ReconcilerConfig `yaml:"reconciler" toml:"reconciler"`
	Calendar   CalendarConfig   `yaml:"calendar" toml:"calendar"`
}

type ServerConfig struct {
	Host string `yaml:"host" toml:"host"`
	Port int    `yaml:"port" toml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path" toml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	Path  string `yaml:"path" toml:"path"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// ClassifierConfig points at an OpenAI-compatible chat completions API.
type ClassifierConfig struct {
	Enabled        bool   `yaml:"enabled" toml:"enabled"`
	BaseURL        string `yaml:"base_url" toml:"base_url"`
	Model          string `yaml:"model" toml:"model"`
	APIKeyEnv      string `yaml:"api_key_env" toml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds" toml:"timeout_seconds"`
}

// Timeout returns the per-call classifier deadline.
func (c ClassifierConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HeuristicConfig lists apps and hosts that are always productive.
type HeuristicConfig struct {
	ProductiveApps  []string `yaml:"productive_apps" toml:"productive_apps"`
	ProductiveHosts []string `yaml:"productive_hosts" toml:"productive_hosts"`
}

type ReconcilerConfig struct {
	Concurrency int `yaml:"concurrency" toml:"concurrency"`
}

type CalendarConfig struct {
	EventsPath string `yaml:"events_path" toml:"events_path"`
}

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "focuslog.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportStdio,
		Classifier: ClassifierConfig{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			APIKeyEnv:      "OPENAI_API_KEY",
			TimeoutSeconds: 10,
		},
		Reconciler: ReconcilerConfig{
			Concurrency: 4,
		},
	}
}

// Load reads configuration from an optional YAML or TOML file and
// environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("FOCUSLOG_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid transport %q", c.Transport)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Classifier.TimeoutSeconds <= 0 {
		return fmt.Errorf("classifier timeout must be positive")
	}
	if c.Reconciler.Concurrency <= 0 {
		return fmt.Errorf("reconciler concurrency must be positive")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("FOCUSLOG_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("FOCUSLOG_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid FOCUSLOG_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("FOCUSLOG_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("FOCUSLOG_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if path := os.Getenv("FOCUSLOG_LOG_PATH"); path != "" {
		cfg.Log.Path = path
	}
	if transport := os.Getenv("FOCUSLOG_TRANSPORT"); transport != "" {
		cfg.Transport = strings.ToLower(transport)
	}
	if err := envBool("FOCUSLOG_AUTH_ENABLED", &cfg.Auth.Enabled); err != nil {
		return err
	}
	if err := envBool("FOCUSLOG_CLASSIFIER_ENABLED", &cfg.Classifier.Enabled); err != nil {
		return err
	}
	if baseURL := os.Getenv("FOCUSLOG_CLASSIFIER_BASE_URL"); baseURL != "" {
		cfg.Classifier.BaseURL = baseURL
	}
	if model := os.Getenv("FOCUSLOG_CLASSIFIER_MODEL"); model != "" {
		cfg.Classifier.Model = model
	}
	if timeout := os.Getenv("FOCUSLOG_CLASSIFIER_TIMEOUT"); timeout != "" {
		seconds, err := strconv.Atoi(timeout)
		if err != nil {
			return fmt.Errorf("invalid FOCUSLOG_CLASSIFIER_TIMEOUT: %w", err)
		}
		cfg.Classifier.TimeoutSeconds = seconds
	}
	if path := os.Getenv("FOCUSLOG_CALENDAR_EVENTS_PATH"); path != "" {
		cfg.Calendar.EventsPath = path
	}
	return nil
}

func envBool(key string, dst *bool) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if strings.HasSuffix(strings.ToLower(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
