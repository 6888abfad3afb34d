package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/voyagen/streamcheck/internal/cache"
	"github.com/voyagen/streamcheck/internal/config"
	"github.com/voyagen/streamcheck/internal/logging"
	"github.com/voyagen/streamcheck/internal/metrics"
	"github.com/voyagen/streamcheck/internal/probe"
	"github.com/voyagen/streamcheck/internal/service"
	"github.com/voyagen/streamcheck/internal/store"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "streamcheck: %v\n", err)
		os.Exit(1)
	}
}

// run performs one check. Resources it opens are released before it returns.
func run(args []string, stderr io.Writer) error {
	cfg, err := config.Load(args)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg == nil {
		// --help or --version
		return nil
	}

	log := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)

	// A run is not cancellable: it ends once every dispatched probe has resolved.
	ctx := context.Background()

	deps := service.Deps{
		Log:     log,
		Metrics: metrics.New(prometheus.NewRegistry()),
		Checker: probe.New(cfg.Timeout, cfg.UserAgent),
	}

	if cfg.DatabaseURL != "" {
		if err := store.RunMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db: %w", err)
		}
		defer pg.Close()
		deps.Store = pg
		log.Info("run report enabled (postgres)")
	}

	if cfg.RedisURL != "" {
		rds, err := cache.New(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rds.Close()
		if err := rds.Ping(ctx); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		deps.Redis = rds
		log.Info("redis connected (output lock and valid-entry list enabled)")
	}

	if _, err := service.Check(ctx, cfg, deps); err != nil {
		return fmt.Errorf("check: %w", err)
	}
	return nil
}
