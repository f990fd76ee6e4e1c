package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PoolOptions struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

var DefaultPoolOptions = PoolOptions{
	MaxConns:        10,
	MinConns:        2,
	MaxConnLifetime: time.Hour,
}

// PoolConfig parses dsn and applies opts.
func PoolConfig(dsn string, opts PoolOptions) (*pgxpool.Config, error) {
	if dsn == "" {
		return nil, fmt.Errorf("db: DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("db: parse DATABASE_URL: %w", err)
	}

	config.MaxConns = opts.MaxConns
	config.MinConns = opts.MinConns
	config.MaxConnLifetime = opts.MaxConnLifetime

	return config, nil
}

// ConnectPostgres opens and pings a pool.
func ConnectPostgres(ctx context.Context, dsn string, log *zap.SugaredLogger) (*pgxpool.Pool, error) {
	config, err := PoolConfig(dsn, DefaultPoolOptions)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	log.Infow("connected to postgres", "host", config.ConnConfig.Host, "database", config.ConnConfig.Database)
	return pool, nil
}

// Schema is applied in order; every statement is idempotent.
var Schema = []string{
	// -------------------------------
	// MENUS
	// -------------------------------
	`
	CREATE TABLE IF NOT EXISTS menus (
		id BIGSERIAL PRIMARY KEY,
		restaurant_name VARCHAR(255) NOT NULL,
		slug VARCHAR(80) UNIQUE NOT NULL,
		pdf_path VARCHAR(500) NOT NULL,
		languages VARCHAR(255) NOT NULL DEFAULT '',
		menu_json JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
	`,

	// -------------------------------
	// CONVERSATIONS
	// -------------------------------
	`
	CREATE TABLE IF NOT EXISTS conversations (
		id BIGSERIAL PRIMARY KEY,
		menu_id BIGINT NOT NULL REFERENCES menus(id) ON DELETE CASCADE,
		session_id VARCHAR(128) NOT NULL,
		messages JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (menu_id, session_id)
	)
	`,
}

// Execer is satisfied by *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// InitSchema creates or updates the database schema
func InitSchema(ctx context.Context, db Execer, log *zap.SugaredLogger) error {
	for i, stmt := range Schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("db: schema statement %d: %w", i+1, err)
		}
	}

	log.Infow("schema initialized", "statements", len(Schema))
	return nil
}
