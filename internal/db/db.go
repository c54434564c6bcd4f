// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-props/internal/config"
)

// Prepared statement names.
const (
	StmtHealthCheck    = "health_check"
	StmtWaitlistInsert = "waitlist_insert"
	StmtWaitlistCount  = "waitlist_count"
)

// Schema is applied idempotently on every new connection, before statements
// are prepared against it.
const Schema = `
CREATE TABLE IF NOT EXISTS ` + config.WaitlistTable + ` (
	id         UUID PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if _, err := conn.Exec(ctx, Schema); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, StmtHealthCheck).Scan(&n)
}

// Statements is every statement prepared on each connection.
var Statements = map[string]string{
	StmtHealthCheck: "SELECT 1",

	// Waitlist: duplicate emails are ignored, not errors.
	StmtWaitlistInsert: "INSERT INTO " + config.WaitlistTable + " (id, email, created_at) VALUES ($1, $2, $3) ON CONFLICT (email) DO NOTHING",
	StmtWaitlistCount:  "SELECT count(*) FROM " + config.WaitlistTable,
}

func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	for name, sql := range Statements {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
