package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/talentsync/talentsync/internal/seed"
	"github.com/talentsync/talentsync/pkg/logger"
)

// Default configuration constants.
const (
	defaultJobs        = 24
	defaultFreelancers = 50
	defaultMessages    = 120
	defaultTimeout     = 2 * time.Minute
)

func main() {
	var (
		redisAddr   = flag.String("redis", "localhost:6379", "Redis address; empty disables the primary store")
		redisPass   = flag.String("redis-password", "", "Redis password")
		redisDB     = flag.Int("redis-db", 0, "Redis database number")
		sqlitePath  = flag.String("sqlite", "talentsync.db", "SQLite path; empty disables the local store")
		jobs        = flag.Int("jobs", defaultJobs, "Number of demo jobs to generate")
		freelancers = flag.Int("freelancers", defaultFreelancers, "Number of demo freelancers to generate")
		messages    = flag.Int("messages", defaultMessages, "Number of demo messages to generate")
		seedValue   = flag.Int64("seed", time.Now().UnixNano(), "RNG seed for reproducible runs")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	cfg := &seed.Config{
		RedisAddr:     *redisAddr,
		RedisPassword: *redisPass,
		RedisDB:       *redisDB,
		SQLitePath:    *sqlitePath,
		Jobs:          *jobs,
		Freelancers:   *freelancers,
		Messages:      *messages,
		Seed:          *seedValue,
	}

	if err := seed.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
