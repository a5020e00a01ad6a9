// internal/models/view.go
package models

// LobbyView is the derived, poll-facing projection of a lobby. It is
// recomputed from Players and Results on every status read; nothing in it
// is stored, so it cannot desync from the lobby record.
type LobbyView struct {
	Code       string              `json:"code"`
	Host       string              `json:"host"`
	HostName   string              `json:"hostName"`
	Status     LobbyStatus         `json:"status"`
	Players    []Player            `json:"players"`
	Teams      map[string][]Player `json:"teams"`
	Unassigned []Player            `json:"unassigned"`
	Difficulty string              `json:"difficulty"`
	TeamName   string              `json:"teamName,omitempty"`
	TeamSize   string              `json:"teamSize,omitempty"`
	Results    []RoundResult       `json:"results"`

	// AllFinished is true once every team-assigned player has submitted the
	// required number of rounds.
	AllFinished bool `json:"allFinished"`
}
