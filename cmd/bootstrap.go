package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"groupbuy/internal/adapter/gateway"
	"groupbuy/internal/adapter/memory"
	"groupbuy/internal/app"
	"groupbuy/internal/config"
	"groupbuy/internal/db"
)

// runtime is what every subcommand needs after start-up.
type runtime struct {
	cfg    config.Config
	logger *slog.Logger
	app    *app.App
	close  func()
}

func newLogger(cfg config.Config) *slog.Logger {
	var handler slog.Handler
	level := cfg.Log.SlogLevel()
	switch cfg.Log.SlogFormat() {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler).With(slog.String("env", cfg.Env))
}

// bootstrap loads configuration, opens the configured store and builds the
// use case graph. Migrations run first when PSQL_RUN_MIGRATIONS is set.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	logger := newLogger(cfg)

	var (
		repos   app.Repositories
		closeFn = func() {}
	)
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("using in-memory store, data is lost on exit")
		repos = app.MemoryRepositories(memory.NewStore())
	case config.StorePostgres:
		if cfg.Psql.RunMigrations {
			if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
				return nil, errors.Wrap(err, "migrate")
			}
			logger.Info("migrations applied successfully")
		}
		pool, err := db.NewPostgresPool(ctx, cfg.Psql)
		if err != nil {
			return nil, errors.Wrap(err, "database connection")
		}
		repos = app.PostgresRepositories(pool)
		closeFn = pool.Close
	default:
		return nil, errors.Errorf("unknown store %q", cfg.Store)
	}

	a := app.New(repos, gateway.NewLogging(logger), cfg.Lifecycle.GracePeriodDays, logger)
	return &runtime{cfg: cfg, logger: logger, app: a, close: closeFn}, nil
}
