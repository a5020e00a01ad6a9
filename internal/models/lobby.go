// internal/models/lobby.go
package models

import "time"

// LobbyStatus is the lifecycle state of a lobby. WAITING -> STARTED is the
// only transition the state machine performs; FINISHED is reserved for
// external processes and never set here.
type LobbyStatus string

const (
	StatusWaiting  LobbyStatus = "WAITING"
	StatusStarted  LobbyStatus = "STARTED"
	StatusFinished LobbyStatus = "FINISHED"
)

// Lobby is the central aggregate: one row per lobby, keyed by Code.
// Players and Results are stored as JSONB alongside the row and always
// read/written as a whole under the row lock.
type Lobby struct {
	Code     string            `json:"code"`
	HostID   string            `json:"hostId"`
	HostName string            `json:"hostName"`
	Status   LobbyStatus       `json:"status"`
	Settings map[string]string `json:"settings"`
	Players  []Player          `json:"players"`
	Results  []RoundResult     `json:"results"`

	CreatedAt time.Time `json:"createdAt"`
}

// Setting keys stored in Lobby.Settings. Settings stays a free-form map for
// optional configuration; core fields (team, id, results) are typed.
const (
	SettingDifficulty = "difficulty"
	SettingTeamName   = "team_name"
	SettingTeamSize   = "team_size"
)

// Player is one participant embedded in Lobby.Players, unique by ID.
// Team is "" while unassigned.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Team   string `json:"team,omitempty"`
	IsHost bool   `json:"isHost"`
}

// FindPlayer returns the index of the player with the given id, or -1.
func (l *Lobby) FindPlayer(id string) int {
	for i := range l.Players {
		if l.Players[i].ID == id {
			return i
		}
	}
	return -1
}
