// Package repository opens the vote store selected by configuration.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/awardvote/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/awardvote/internal/adapters/repository/mysql"
	"github.com/vncsmyrnk/awardvote/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/awardvote/internal/adapters/repository/rest"
	"github.com/vncsmyrnk/awardvote/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/awardvote/internal/config"
	"github.com/vncsmyrnk/awardvote/internal/core/ports"
)

// Open returns the configured store and a function releasing its resources.
// SQL stores are migrated before they are returned.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.VoteStore, func() error, error) {
	noop := func() error { return nil }
	if err := cfg.Validate(); err != nil {
		return nil, noop, err
	}

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.Postgres.ConnString())
		if err != nil {
			return nil, noop, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("ping postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, noop, err
		}
		return postgres.NewVoteRepository(db), db.Close, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil

	case config.DriverMySQL:
		store, err := mysql.Open(ctx, cfg.MySQLDSN, logger)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil

	case config.DriverREST:
		return rest.New(cfg.StoreURL, cfg.StoreKey, nil), noop, nil

	case config.DriverMemory:
		logger.Warn("using the in-memory vote store, votes are lost on restart")
		return memory.New(), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
