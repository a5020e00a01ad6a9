// internal/handlers/utils.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/sortonym/backend/internal/auth"
	"github.com/sortonym/backend/internal/identity"
)

// sessionFromRequest extracts and verifies the bearer token, returning nil
// for anonymous callers (guest paths decide whether that is acceptable).
func sessionFromRequest(r *http.Request) *auth.Session {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return nil
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return nil
	}
	sess, err := auth.AuthenticateJWT(token)
	if err != nil {
		return nil
	}
	return sess
}

// identityFromRequest resolves the caller: session first, then the guest
// display-name path.
func identityFromRequest(r *http.Request, displayName string) (identity.Identity, error) {
	return identity.Resolve(sessionFromRequest(r), displayName)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON tolerates empty bodies the way the lobby clients send them.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
