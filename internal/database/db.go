package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var DB *pgxpool.Pool

// ConnectDB initializes the global pgx pool and verifies connectivity.
func ConnectDB(ctx context.Context, databaseURL string) error {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("unable to parse pgx config: %w", err)
	}

	DB, err = pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := DB.Ping(pingCtx); err != nil {
		return fmt.Errorf("db ping error: %w", err)
	}

	log.Info("connected to postgres")
	return nil
}

// EnsureSchema creates the tables this service needs if they do not exist.
func EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			email         TEXT PRIMARY KEY,
			display_name  TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS lobbies (
			code       TEXT PRIMARY KEY,
			host_id    TEXT NOT NULL,
			host_name  TEXT NOT NULL,
			status     TEXT NOT NULL,
			settings   JSONB NOT NULL DEFAULT '{}',
			players    JSONB NOT NULL DEFAULT '[]',
			results    JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS round_results (
			id            BIGSERIAL PRIMARY KEY,
			player_id     TEXT NOT NULL,
			player_name   TEXT NOT NULL,
			team          TEXT NOT NULL DEFAULT '',
			lobby_code    TEXT NOT NULL DEFAULT '',
			score         DOUBLE PRECISION NOT NULL,
			correct_count INT NOT NULL,
			time_taken    DOUBLE PRECISION NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS round_results_player_idx ON round_results (player_id, created_at)`,
	}
	for _, q := range stmts {
		if _, err := DB.Exec(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
