// internal/lobby/view.go
package lobby

import "github.com/sortonym/backend/internal/models"

// View derives the poll-facing projection from a lobby snapshot. It is a
// pure function recomputed on every read; deriving instead of storing means
// there is no second copy of team/completion state to drift out of sync.
// Cost is O(players + results) per poll, fine at lobby scale.
func (s *Service) View(l *models.Lobby) *models.LobbyView {
	teams := map[string][]models.Player{}
	var unassigned []models.Player
	for _, p := range l.Players {
		if p.Team == "" {
			unassigned = append(unassigned, p)
			continue
		}
		teams[p.Team] = append(teams[p.Team], p)
	}

	// Completion counts keyed by player id. Older producers wrote results
	// under playerEmail; ResultPlayerID absorbs both.
	counts := map[string]int{}
	for _, r := range l.Results {
		counts[r.ResultPlayerID()]++
	}

	active := 0
	finished := true
	for _, p := range l.Players {
		if p.Team == "" {
			continue
		}
		active++
		if counts[p.ID] < s.roundTarget {
			finished = false
		}
	}
	allFinished := active > 0 && finished

	return &models.LobbyView{
		Code:        l.Code,
		Host:        l.HostID,
		HostName:    l.HostName,
		Status:      l.Status,
		Players:     l.Players,
		Teams:       teams,
		Unassigned:  unassigned,
		Difficulty:  l.Settings[models.SettingDifficulty],
		TeamName:    l.Settings[models.SettingTeamName],
		TeamSize:    l.Settings[models.SettingTeamSize],
		Results:     l.Results,
		AllFinished: allFinished,
	}
}
