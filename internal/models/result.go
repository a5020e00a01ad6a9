// internal/models/result.go
package models

import "time"

// RoundResult is one completed round by one player. Entries in
// Lobby.Results are append-only; the only bulk mutation is the clear
// performed when a game (re)starts.
//
// PlayerEmail mirrors PlayerID for records written by older clients that
// identified players by email; the completion detector accepts either.
type RoundResult struct {
	PlayerID     string    `json:"playerId"`
	PlayerEmail  string    `json:"playerEmail,omitempty"`
	PlayerName   string    `json:"playerName"`
	Team         string    `json:"team,omitempty"`
	Score        float64   `json:"score"`
	CorrectCount int       `json:"correctCount"`
	TimeTaken    float64   `json:"timeTaken"`
	Timestamp    time.Time `json:"timestamp"`
}

// ResultPlayerID returns the id a result should be counted under.
func (r RoundResult) ResultPlayerID() string {
	if r.PlayerID != "" {
		return r.PlayerID
	}
	return r.PlayerEmail
}
