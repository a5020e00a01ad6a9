// internal/handlers/lobby.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sortonym/backend/internal/identity"
	"github.com/sortonym/backend/internal/lobby"
)

// lobbyErrorStatus maps the state machine's error taxonomy onto HTTP codes.
func lobbyErrorStatus(err error) int {
	switch {
	case errors.Is(err, lobby.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lobby.ErrNameConflict), errors.Is(err, lobby.ErrAlreadyStarted):
		return http.StatusConflict
	case errors.Is(err, lobby.ErrForbidden), errors.Is(err, lobby.ErrNotMember):
		return http.StatusForbidden
	case errors.Is(err, lobby.ErrInsufficientTeams),
		errors.Is(err, lobby.ErrUnassignedPlayers),
		errors.Is(err, lobby.ErrInvalidDifficulty):
		return http.StatusBadRequest
	case errors.Is(err, identity.ErrNameRequired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeLobbyError(w http.ResponseWriter, err error) {
	status := lobbyErrorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeError(w, status, msg)
}

type createLobbyRequest struct {
	TeamName    string `json:"teamName"`
	TeamSize    string `json:"teamSize"`
	DisplayName string `json:"displayName"`
}

// CreateLobbyHandler creates a lobby hosted by the caller.
func (s *Server) CreateLobbyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createLobbyRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request payload")
			return
		}

		host, err := identityFromRequest(r, req.DisplayName)
		if err != nil {
			writeLobbyError(w, err)
			return
		}

		l, err := s.Lobbies.Create(r.Context(), host, strings.TrimSpace(req.TeamName))
		if err != nil {
			writeLobbyError(w, err)
			return
		}
		if size := strings.TrimSpace(req.TeamSize); size != "" {
			// optional display-only setting, stored free-form; the lobby is
			// already created, so a failure here is logged, not fatal
			if err := s.Lobbies.SetTeamSize(r.Context(), l.Code, host.ID, size); err != nil {
				s.Logger.WithError(err).WithField("code", l.Code).Warn("failed to store team size")
			}
		}

		view, err := s.Lobbies.Status(r.Context(), l.Code)
		if err != nil {
			writeLobbyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"code": l.Code, "lobby": view})
	}
}

type joinLobbyRequest struct {
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
}

// JoinLobbyHandler adds the caller to a lobby by code.
func (s *Server) JoinLobbyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req joinLobbyRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request payload")
			return
		}
		code := normalizeCode(req.Code)
		if code == "" {
			writeError(w, http.StatusBadRequest, "missing lobby code")
			return
		}

		p, err := identityFromRequest(r, req.DisplayName)
		if err != nil {
			writeLobbyError(w, err)
			return
		}

		view, err := s.Lobbies.Join(r.Context(), code, p)
		if err != nil {
			writeLobbyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// LobbyStatusHandler is the polling read path.
func (s *Server) LobbyStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := normalizeCode(r.URL.Query().Get("code"))
		if code == "" {
			writeError(w, http.StatusBadRequest, "missing lobby code")
			return
		}
		view, err := s.Lobbies.Status(r.Context(), code)
		if err != nil {
			writeLobbyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

type updateLobbyRequest struct {
	Code        string `json:"code"`
	Action      string `json:"action"`
	Team        string `json:"team"`
	Difficulty  string `json:"difficulty"`
	DisplayName string `json:"displayName"`
}

// UpdateLobbyHandler dispatches the lobby actions:
// join_team, leave_team, set_difficulty, start_game.
func (s *Server) UpdateLobbyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateLobbyRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request payload")
			return
		}
		code := normalizeCode(req.Code)
		if code == "" {
			writeError(w, http.StatusBadRequest, "missing lobby code")
			return
		}

		actor, err := identityFromRequest(r, req.DisplayName)
		if err != nil {
			writeLobbyError(w, err)
			return
		}

		switch req.Action {
		case "join_team":
			if strings.TrimSpace(req.Team) == "" {
				writeError(w, http.StatusBadRequest, "missing team")
				return
			}
			err = s.Lobbies.SetTeam(r.Context(), code, actor.ID, strings.TrimSpace(req.Team))
		case "leave_team":
			err = s.Lobbies.SetTeam(r.Context(), code, actor.ID, "")
		case "set_difficulty":
			err = s.Lobbies.SetDifficulty(r.Context(), code, actor.ID, req.Difficulty)
		case "start_game":
			err = s.Lobbies.Start(r.Context(), code, actor.ID)
		default:
			writeError(w, http.StatusBadRequest, "unknown action")
			return
		}
		if err != nil {
			writeLobbyError(w, err)
			return
		}

		view, err := s.Lobbies.Status(r.Context(), code)
		if err != nil {
			writeLobbyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// normalizeCode uppercases and trims a client-supplied lobby code.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
