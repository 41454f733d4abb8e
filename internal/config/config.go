// Package config loads runtime configuration from a .env file and the
// environment, with the environment taking precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the collector and the dashboard server need.
type Config struct {
	GithubToken     string
	DBPath          string
	Repositories    []string
	IncludeComments bool
	ListenAddr      string
	LogLevel        string
}

// Load reads configuration from .env (optional) and environment variables.
// GITHUB_TOKEN is required; everything else has a default.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("DB_PATH", "repopulse.db")
	v.SetDefault("INCLUDE_COMMENTS", true)
	v.SetDefault("LISTEN_ADDR", "127.0.0.1:8080")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !strings.Contains(err.Error(), "no such file") {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		GithubToken:     v.GetString("GITHUB_TOKEN"),
		DBPath:          v.GetString("DB_PATH"),
		Repositories:    splitRepos(v.GetString("REPOSITORIES")),
		IncludeComments: v.GetBool("INCLUDE_COMMENTS"),
		ListenAddr:      v.GetString("LISTEN_ADDR"),
		LogLevel:        v.GetString("LOG_LEVEL"),
	}

	if cfg.GithubToken == "" {
		return nil, errors.New("GITHUB_TOKEN is required")
	}

	return cfg, nil
}

// splitRepos parses a comma-separated "owner/name,owner/name" list.
func splitRepos(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	repos := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			repos = append(repos, trimmed)
		}
	}
	return repos
}

// SlogLevel maps the configured level name to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
