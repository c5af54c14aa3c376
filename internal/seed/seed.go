// Package seed populates the document store with demo marketplace data,
// so a fresh deployment has jobs, freelancers and conversations to browse.
package seed

import (
	"context"
	"fmt"

	"github.com/talentsync/talentsync/internal/adapters/repository"
	"github.com/talentsync/talentsync/pkg/logger"
)

// Config holds configuration for a seeding run.
type Config struct {
	RedisAddr     string // Primary store address; empty skips Redis
	RedisPassword string
	RedisDB       int
	SQLitePath    string // Local store path; empty skips SQLite
	Jobs          int    // Number of demo jobs to generate
	Freelancers   int    // Number of demo freelancers to generate
	Messages      int    // Number of demo messages to generate
	Seed          int64  // RNG seed for reproducible runs
}

// Run generates demo records and writes them through the repository.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Get().Named("seed")

	store, err := buildStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	g := newGenerator(cfg.Seed)

	for i := 0; i < cfg.Jobs; i++ {
		if _, err := store.SaveJob(ctx, g.job(i)); err != nil {
			return fmt.Errorf("save job %d: %w", i, err)
		}
	}
	log.Info(ctx, "seeded jobs", logger.Int("count", cfg.Jobs))

	users := make([]string, 0, cfg.Freelancers)
	for i := 0; i < cfg.Freelancers; i++ {
		f := g.freelancer(i)
		if _, err := store.SaveFreelancer(ctx, f); err != nil {
			return fmt.Errorf("save freelancer %d: %w", i, err)
		}
		users = append(users, f.ID)
	}
	log.Info(ctx, "seeded freelancers", logger.Int("count", cfg.Freelancers))

	if len(users) >= 2 {
		for i := 0; i < cfg.Messages; i++ {
			if _, err := store.SaveMessage(ctx, g.message(users)); err != nil {
				return fmt.Errorf("save message %d: %w", i, err)
			}
		}
		log.Info(ctx, "seeded messages", logger.Int("count", cfg.Messages))
	}

	return nil
}

func buildStore(ctx context.Context, cfg *Config, log logger.Logger) (repository.Store, error) {
	var primary, fallback repository.Store

	if cfg.RedisAddr != "" {
		remote, err := repository.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log.Named("redis"))
		if err != nil {
			log.Warn(ctx, "redis unavailable, seeding local store only", logger.Error(err))
		} else {
			primary = remote
		}
	}
	if cfg.SQLitePath != "" {
		local, err := repository.NewSQLiteStore(cfg.SQLitePath, log.Named("sqlite"))
		if err != nil {
			return nil, fmt.Errorf("open local store: %w", err)
		}
		fallback = local
	}
	switch {
	case primary == nil && fallback == nil:
		return nil, fmt.Errorf("no store configured")
	case fallback == nil:
		return primary, nil
	default:
		return repository.NewFailover(primary, fallback, log), nil
	}
}
