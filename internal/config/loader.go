package config

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if TALENTSYNC_CONFIG is set
//  3. env (prefix TALENTSYNC_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("TALENTSYNC_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: TALENTSYNC_ADDR, TALENTSYNC_REDIS_ADDR, ...
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("TALENTSYNC_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "talentsync_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	switch {
	case cfg.Addr == "":
		return nil, errors.New("addr must not be empty")
	case cfg.SQLitePath == "":
		return nil, errors.New("sqlite_path must not be empty")
	case cfg.DefaultPageSize < 1:
		return nil, errors.New("default_page_size must be positive")
	case cfg.MaxPageSize < cfg.DefaultPageSize:
		return nil, errors.New("max_page_size must be at least default_page_size")
	case cfg.RefreshIntervalMinutes < 1:
		return nil, errors.New("refresh_interval_minutes must be positive")
	case cfg.MessageQueueSize < 1:
		return nil, errors.New("message_queue_size must be positive")
	case cfg.WorkerCount < 0:
		return nil, errors.New("worker_count must not be negative")
	}
	return &cfg, nil
}
