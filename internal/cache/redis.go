// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sortonym/backend/internal/models"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

// resultQueue is the list external consumers (leaderboard, archive) drain.
var resultQueue = "sortonym_results"

// ResultEvent is the record pushed per completed round for out-of-process
// consumers; the in-process source of truth stays in postgres.
type ResultEvent struct {
	LobbyCode  string  `json:"lobby_code,omitempty"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Team       string  `json:"team,omitempty"`
	Score      float64 `json:"score"`
	Correct    int     `json:"correct"`
	TimeTaken  float64 `json:"time_taken"`
	Timestamp  int64   `json:"timestamp"`
}

// ConnectRedis initializes the global Redis client.
func ConnectRedis(addr string, db int, queueName string) error {
	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if queueName != "" {
		resultQueue = queueName
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// PublishResult serializes the round result and pushes it onto the result
// queue. Quick network send only; failures are the caller's to log, not to
// retry.
func PublishResult(ctx context.Context, lobbyCode string, r models.RoundResult) error {
	ev := ResultEvent{
		LobbyCode:  lobbyCode,
		PlayerID:   r.ResultPlayerID(),
		PlayerName: r.PlayerName,
		Team:       r.Team,
		Score:      r.Score,
		Correct:    r.CorrectCount,
		TimeTaken:  r.TimeTaken,
		Timestamp:  r.Timestamp.Unix(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal ResultEvent: %w", err)
	}
	if err := Rdb.RPush(ctx, resultQueue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", resultQueue, err)
	}
	return nil
}
