// internal/database/lobby.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sortonym/backend/internal/lobby"
	"github.com/sortonym/backend/internal/models"
)

// LobbyStore implements lobby.Store on postgres. Update takes the row lock
// (SELECT ... FOR UPDATE) before reading, so concurrent mutations of one
// lobby serialize; the whole record is written back before commit.
type LobbyStore struct{}

func NewLobbyStore() *LobbyStore { return &LobbyStore{} }

const uniqueViolation = "23505"

// Create inserts a new lobby row. A code collision surfaces as
// lobby.ErrCodeTaken so the caller can redraw.
func (s *LobbyStore) Create(ctx context.Context, l *models.Lobby) error {
	settings, players, results, err := marshalLobby(l)
	if err != nil {
		return err
	}

	q := `
	INSERT INTO lobbies (code, host_id, host_name, status, settings, players, results, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q,
			l.Code, l.HostID, l.HostName, string(l.Status),
			settings, players, results, l.CreatedAt,
		)
		return err
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return lobby.ErrCodeTaken
	}
	return err
}

// Get is a plain snapshot read; status polls tolerate slightly stale data.
func (s *LobbyStore) Get(ctx context.Context, code string) (*models.Lobby, error) {
	row := DB.QueryRow(ctx, `
	SELECT code, host_id, host_name, status, settings, players, results, created_at
	FROM lobbies WHERE code = $1
	`, code)
	return scanLobby(row)
}

// Update runs fn against the locked current record and persists the result.
// This is the read-modify-write primitive every lobby mutation relies on.
func (s *LobbyStore) Update(ctx context.Context, code string, fn func(l *models.Lobby) error) error {
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
		SELECT code, host_id, host_name, status, settings, players, results, created_at
		FROM lobbies WHERE code = $1
		FOR UPDATE
		`, code)
		l, err := scanLobby(row)
		if err != nil {
			return err
		}

		if err := fn(l); err != nil {
			return err
		}

		settings, players, results, err := marshalLobby(l)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
		UPDATE lobbies SET status = $2, settings = $3, players = $4, results = $5
		WHERE code = $1
		`, l.Code, string(l.Status), settings, players, results)
		return err
	})
}

func marshalLobby(l *models.Lobby) (settings, players, results []byte, err error) {
	if settings, err = json.Marshal(l.Settings); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal settings: %w", err)
	}
	if players, err = json.Marshal(l.Players); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal players: %w", err)
	}
	if results, err = json.Marshal(l.Results); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal results: %w", err)
	}
	return settings, players, results, nil
}

func scanLobby(row pgx.Row) (*models.Lobby, error) {
	var l models.Lobby
	var status string
	var settings, players, results []byte
	err := row.Scan(&l.Code, &l.HostID, &l.HostName, &status, &settings, &players, &results, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lobby.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	l.Status = models.LobbyStatus(status)
	if err := json.Unmarshal(settings, &l.Settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	if err := json.Unmarshal(players, &l.Players); err != nil {
		return nil, fmt.Errorf("unmarshal players: %w", err)
	}
	if err := json.Unmarshal(results, &l.Results); err != nil {
		return nil, fmt.Errorf("unmarshal results: %w", err)
	}
	return &l, nil
}
