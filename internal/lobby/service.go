// internal/lobby/service.go
package lobby

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sortonym/backend/internal/identity"
	"github.com/sortonym/backend/internal/models"
)

// Store is the durable keyed storage a Service runs against. Update must
// serialize concurrent callers on the same code: it reads the current
// record under an exclusive lock (row lock or equivalent), applies fn, and
// commits the full updated record before releasing. Get is a snapshot read.
type Store interface {
	Get(ctx context.Context, code string) (*models.Lobby, error)
	Create(ctx context.Context, l *models.Lobby) error
	Update(ctx context.Context, code string, fn func(l *models.Lobby) error) error
}

// Service is the lobby state machine. All mutations go through Store.Update
// so that concurrent join/team-switch/submit calls on one lobby never lose
// writes; reads recompute the view from scratch.
type Service struct {
	store Store

	// roundTarget is how many rounds each team-assigned player must submit
	// before the view reports allFinished.
	roundTarget int

	// validDifficulties guards SetDifficulty; keys of the game level table.
	validDifficulties map[string]bool

	log *log.Entry
}

const (
	codeLength      = 6
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	createRetries   = 5
	DefaultRounds   = 5
	DefaultDiffName = "MEDIUM"
)

// NewService builds a Service. difficulties is the set of accepted
// difficulty labels (the game package's level table keys).
func NewService(store Store, roundTarget int, difficulties []string) *Service {
	if roundTarget <= 0 {
		roundTarget = DefaultRounds
	}
	valid := make(map[string]bool, len(difficulties))
	for _, d := range difficulties {
		valid[strings.ToUpper(d)] = true
	}
	return &Service{
		store:             store,
		roundTarget:       roundTarget,
		validDifficulties: valid,
		log:               log.WithField("component", "lobby"),
	}
}

// newCode draws a fresh 6-character code from [A-Z0-9].
func newCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand read failure is not recoverable here
		panic(err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}

// Create builds a new WAITING lobby hosted by host, with the host seeded as
// the only (team-less) player. The code space is finite, so insertion is
// retried on collision before giving up.
func (s *Service) Create(ctx context.Context, host identity.Identity, teamLabel string) (*models.Lobby, error) {
	settings := map[string]string{
		models.SettingDifficulty: DefaultDiffName,
	}
	if teamLabel != "" {
		settings[models.SettingTeamName] = teamLabel
	}

	var lastErr error
	for range createRetries {
		l := &models.Lobby{
			Code:     newCode(),
			HostID:   host.ID,
			HostName: host.Name,
			Status:   models.StatusWaiting,
			Settings: settings,
			Players: []models.Player{
				{ID: host.ID, Name: host.Name, IsHost: true},
			},
			Results:   []models.RoundResult{},
			CreatedAt: time.Now().UTC(),
		}
		err := s.store.Create(ctx, l)
		if err == nil {
			s.log.WithFields(log.Fields{"code": l.Code, "host": host.ID}).Info("lobby created")
			return l, nil
		}
		if !errors.Is(err, ErrCodeTaken) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// Join adds p to the lobby, or refreshes its display name if p already
// joined (idempotent on id). A name held by a different player rejects the
// join.
func (s *Service) Join(ctx context.Context, code string, p identity.Identity) (*models.LobbyView, error) {
	err := s.store.Update(ctx, code, func(l *models.Lobby) error {
		for i := range l.Players {
			if l.Players[i].ID != p.ID && strings.EqualFold(l.Players[i].Name, p.Name) {
				return ErrNameConflict
			}
		}
		if i := l.FindPlayer(p.ID); i >= 0 {
			l.Players[i].Name = p.Name
			return nil
		}
		l.Players = append(l.Players, models.Player{ID: p.ID, Name: p.Name})
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(log.Fields{"code": code, "player": p.ID}).Info("player joined")
	return s.Status(ctx, code)
}

// SetTeam assigns the player to a team label; an empty team clears the
// assignment (leave_team). Only that player's record is touched.
func (s *Service) SetTeam(ctx context.Context, code, playerID, team string) error {
	return s.store.Update(ctx, code, func(l *models.Lobby) error {
		i := l.FindPlayer(playerID)
		if i < 0 {
			return ErrNotMember
		}
		l.Players[i].Team = team
		return nil
	})
}

// SetDifficulty updates settings.difficulty. Host only.
func (s *Service) SetDifficulty(ctx context.Context, code, actorID, difficulty string) error {
	difficulty = strings.ToUpper(strings.TrimSpace(difficulty))
	return s.store.Update(ctx, code, func(l *models.Lobby) error {
		if l.HostID != actorID {
			return ErrForbidden
		}
		// validated after the host check so non-hosts always see forbidden
		if !s.validDifficulties[difficulty] {
			return ErrInvalidDifficulty
		}
		if l.Settings == nil {
			l.Settings = map[string]string{}
		}
		l.Settings[models.SettingDifficulty] = difficulty
		return nil
	})
}

// SetTeamSize stores the display-only target team size. Host only.
func (s *Service) SetTeamSize(ctx context.Context, code, actorID, size string) error {
	return s.store.Update(ctx, code, func(l *models.Lobby) error {
		if l.HostID != actorID {
			return ErrForbidden
		}
		if l.Settings == nil {
			l.Settings = map[string]string{}
		}
		l.Settings[models.SettingTeamSize] = size
		return nil
	})
}

// Start transitions WAITING -> STARTED and clears the result log, which is
// the synchronization reset the completion detector counts from. Host only.
// Preconditions: at least 2 distinct teams, nobody unassigned.
func (s *Service) Start(ctx context.Context, code, actorID string) error {
	err := s.store.Update(ctx, code, func(l *models.Lobby) error {
		if l.HostID != actorID {
			return ErrForbidden
		}
		if l.Status != models.StatusWaiting {
			return ErrAlreadyStarted
		}

		teams := map[string]bool{}
		for _, p := range l.Players {
			if p.Team == "" {
				return ErrUnassignedPlayers
			}
			teams[p.Team] = true
		}
		if len(teams) < 2 {
			return ErrInsufficientTeams
		}

		l.Status = models.StatusStarted
		l.Results = []models.RoundResult{}
		return nil
	})
	if err == nil {
		s.log.WithField("code", code).Info("game started")
	}
	return err
}

// AppendResult appends one round result to the lobby's log, stamping the
// player's current team onto the record. Runs under the same per-lobby lock
// as every other mutation.
func (s *Service) AppendResult(ctx context.Context, code string, r models.RoundResult) error {
	return s.store.Update(ctx, code, func(l *models.Lobby) error {
		if i := l.FindPlayer(r.ResultPlayerID()); i >= 0 {
			r.Team = l.Players[i].Team
		}
		if r.Timestamp.IsZero() {
			r.Timestamp = time.Now().UTC()
		}
		l.Results = append(l.Results, r)
		return nil
	})
}

// Status is the poll endpoint's read path: a lock-free snapshot plus the
// pure view derivation.
func (s *Service) Status(ctx context.Context, code string) (*models.LobbyView, error) {
	l, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.View(l), nil
}
