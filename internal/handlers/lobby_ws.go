// internal/handlers/lobby_ws.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/sortonym/backend/internal/lobby"
)

// LobbyWSHandler streams lobby view snapshots over a websocket. It is a
// push wrapper over the same derived view the polling endpoint serves: the
// server polls the store and forwards snapshots whenever they change, so
// the state machine contract is untouched. Clients that cannot hold a
// socket keep using GET /api/lobby/status.
func (s *Server) LobbyWSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := normalizeCode(r.URL.Query().Get("code"))
		if code == "" {
			writeError(w, http.StatusBadRequest, "missing lobby code")
			return
		}
		if _, err := s.Lobbies.Status(r.Context(), code); err != nil {
			writeLobbyError(w, err)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // same-origin enforcement handled upstream
		})
		if err != nil {
			s.Logger.WithError(err).Warn("websocket accept failed")
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		// The stream is write-only; CloseRead watches for the client's close
		// frame (or a dropped connection) and cancels the context, which is
		// what stops the poll loop for abandoned sockets.
		ctx := conn.CloseRead(r.Context())

		s.Logger.WithField("code", code).Info("lobby status stream opened")
		s.streamLobby(ctx, conn, code)
	}
}

func (s *Server) streamLobby(ctx context.Context, conn *websocket.Conn, code string) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var last []byte
	for {
		view, err := s.Lobbies.Status(ctx, code)
		if err != nil {
			if errors.Is(err, lobby.ErrNotFound) {
				conn.Close(websocket.StatusNormalClosure, "lobby gone")
				return
			}
			s.Logger.WithError(err).Warn("lobby stream read failed")
			return
		}

		payload, err := json.Marshal(view)
		if err != nil {
			return
		}
		if !bytes.Equal(payload, last) {
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := conn.Write(writeCtx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				return
			}
			last = payload
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
