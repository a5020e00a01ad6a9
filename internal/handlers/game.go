// internal/handlers/game.go
package handlers

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/sortonym/backend/internal/game"
	"github.com/sortonym/backend/internal/identity"
	"github.com/sortonym/backend/internal/words"
)

type startRoundRequest struct {
	Level        string   `json:"level"`
	ExcludeWords []string `json:"excludeWords"`
}

// StartRoundHandler issues a fresh round for the requested level.
func (s *Server) StartRoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startRoundRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request payload")
			return
		}

		resp, err := s.Engine.StartRound(r.Context(), req.Level, req.ExcludeWords)
		if err != nil {
			if errors.Is(err, words.ErrNoWords) {
				writeError(w, http.StatusServiceUnavailable, "no words available")
				return
			}
			log.WithError(err).Error("round start failed")
			writeError(w, http.StatusInternalServerError, "failed to start round")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type submitRoundRequest struct {
	game.SubmitRequest
	DisplayName string `json:"displayName"`
}

// SubmitRoundHandler grades a submission. The caller is resolved from the
// bearer token or, for multiplayer guests, the displayName in the body.
func (s *Server) SubmitRoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRoundRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request payload")
			return
		}

		player, err := identityFromRequest(r, req.DisplayName)
		if err != nil {
			if errors.Is(err, identity.ErrNameRequired) {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		resp, err := s.Engine.SubmitRound(r.Context(), player, req.SubmitRequest)
		if err != nil {
			if errors.Is(err, game.ErrInvalidRound) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeLobbyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
