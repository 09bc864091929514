package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// config is the REPL configuration. Values come from ~/.squill.yaml and
// are overridden by SQUILL_ENGINE, DATABASE_URL and SQUILL_LOG_LEVEL.
type config struct {
	// Engine is the SQL dialect: postgres, mysql or sqlite.
	Engine string `yaml:"engine,omitempty"`

	// DSN is connected to on startup when set.
	DSN string `yaml:"dsn,omitempty"`

	// HistoryFile overrides the readline history location.
	HistoryFile string `yaml:"history_file,omitempty"`

	// Inline renders values as literals instead of placeholders.
	Inline bool `yaml:"inline,omitempty"`

	// LogLevel is one of debug, info, warn, error or disable.
	LogLevel string `yaml:"log_level,omitempty"`
}

const configFileName = ".squill.yaml"

// defaultConfigPath returns ~/.squill.yaml, or "" when there is no home.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configFileName)
}

// loadConfig reads path (a missing file is not an error) and applies
// environment overrides looked up through getenv.
func loadConfig(path string, getenv func(string) string) (config, error) {
	var cfg config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if v := getenv("SQUILL_ENGINE"); v != "" {
		cfg.Engine = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		cfg.DSN = v
	}
	if v := getenv("SQUILL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	cfg.Engine = strings.ToLower(strings.TrimSpace(cfg.Engine))
	if cfg.Engine != "" && !isValidEngine(cfg.Engine) {
		return config{}, fmt.Errorf("invalid engine %q (choose: postgres, mysql, sqlite)", cfg.Engine)
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return config{}, err
	}
	return cfg, nil
}

// save writes the configuration back to path.
func (c config) save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func isValidEngine(engine string) bool {
	switch engine {
	case "postgres", "mysql", "sqlite":
		return true
	}
	return false
}

// levelDisable silences every record.
const levelDisable = slog.Level(math.MaxInt)

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "warn", "":
		return slog.LevelWarn, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "error":
		return slog.LevelError, nil
	case "disable":
		return levelDisable, nil
	default:
		return 0, fmt.Errorf("invalid log level: %q", level)
	}
}

// newLogger returns a text logger writing to w. The level must already
// have been validated by loadConfig.
func newLogger(w io.Writer, level string) *slog.Logger {
	lvl, _ := parseLevel(level)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
