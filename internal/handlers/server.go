// internal/handlers/server.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/sortonym/backend/internal/game"
	"github.com/sortonym/backend/internal/lobby"
	"github.com/sortonym/backend/internal/middleware"
)

// Server bundles the service dependencies the HTTP layer needs.
type Server struct {
	Lobbies *lobby.Service
	Engine  *game.Engine

	// JoinBaseURL is the public URL prefix encoded into lobby QR codes.
	JoinBaseURL string

	Logger *logrus.Logger
}

// Routes mounts the full HTTP surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.LogMiddleware(s.Logger))

	r.Get("/health", HealthHandler())

	r.Post("/user/create", CreateUserHandler())
	r.Post("/user/login", LoginHandler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/lobby", func(r chi.Router) {
			r.Post("/create", s.CreateLobbyHandler())
			r.Post("/join", s.JoinLobbyHandler())
			r.Get("/status", s.LobbyStatusHandler())
			r.Post("/update", s.UpdateLobbyHandler())
			r.Get("/qr", s.LobbyQRHandler())
			r.Get("/ws", s.LobbyWSHandler())
		})
		r.Route("/game", func(r chi.Router) {
			r.Post("/start", s.StartRoundHandler())
			r.Post("/submit", s.SubmitRoundHandler())
		})
	})

	return r
}
