// internal/database/result.go
package database

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/sortonym/backend/internal/models"
)

// InsertRoundResult records a completed round in the flat results table.
// Lobby rounds additionally append to the lobby's own result log; this table
// is what leaderboard and stats consumers read.
func InsertRoundResult(ctx context.Context, lobbyCode string, r models.RoundResult) error {
	q := `
	INSERT INTO round_results (player_id, player_name, team, lobby_code, score, correct_count, time_taken, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q,
			r.ResultPlayerID(), r.PlayerName, r.Team, lobbyCode,
			r.Score, r.CorrectCount, r.TimeTaken, r.Timestamp,
		)
		return err
	})
}
