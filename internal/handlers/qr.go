// internal/handlers/qr.go
package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

// LobbyQRHandler renders a PNG QR code of the lobby join link, for sharing
// a lobby without typing the code.
func (s *Server) LobbyQRHandler() http.HandlerFunc {
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

		link := fmt.Sprintf("%s?code=%s", s.JoinBaseURL, url.QueryEscape(code))
		png, err := qrcode.Encode(link, qrcode.Medium, 256)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to render QR code")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}
}
