package store

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/bizdir/internal/config"
	"github.com/JonMunkholm/bizdir/internal/core"
)

// Selection is the backend chosen at startup.
type Selection struct {
	Store core.Store
	Mode  core.StorageMode
	pool  *pgxpool.Pool
}

// Close releases the database pool, if any.
func (s *Selection) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Open picks the storage backend once:
//
//   - no DATABASE_URL, or DATABASE_DISABLED: in-memory store
//   - database reachable: PostgreSQL store
//   - database configured but unreachable: Unavailable, never memory
//
// Open never fails; an unusable database yields StorageUnavailable.
func Open(ctx context.Context, cfg config.DatabaseConfig) *Selection {
	if cfg.URL == "" {
		slog.Warn("DATABASE_URL not set, using in-memory storage (data is lost on restart)")
		return &Selection{Store: NewMemory(), Mode: core.StorageMemory}
	}
	if cfg.Disabled {
		slog.Warn("database disabled by DATABASE_DISABLED, using in-memory storage")
		return &Selection{Store: NewMemory(), Mode: core.StorageMemory}
	}

	pool, err := connect(ctx, cfg)
	if err != nil {
		slog.Error("database configured but unavailable, refusing requests", "error", err)
		return &Selection{Store: Unavailable{}, Mode: core.StorageUnavailable}
	}

	pg := NewPostgres(pool)
	schemaCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := pg.EnsureSchema(schemaCtx); err != nil {
		pool.Close()
		slog.Error("database schema check failed, refusing requests", "error", err)
		return &Selection{Store: Unavailable{}, Mode: core.StorageUnavailable}
	}

	slog.Info("connected to database", "name", databaseName(cfg.URL), "max_conns", cfg.MaxConns)
	return &Selection{Store: pg, Mode: core.StoragePostgres, pool: pool}
}

func connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func databaseName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
