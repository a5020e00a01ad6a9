// internal/identity/identity.go
package identity

import (
	"errors"
	"strings"

	"github.com/sortonym/backend/internal/auth"
)

// ErrNameRequired is returned when an anonymous caller supplies no display
// name. Anonymous players without a name used to collapse onto one shared
// guest id, which let unrelated players impersonate each other; the join is
// rejected instead.
var ErrNameRequired = errors.New("display name required")

// Identity is the resolved stable player identity used throughout the lobby
// and scoring paths.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Resolve derives an Identity from an authenticated session or, failing
// that, from a guest display name. Pure function of its inputs.
func Resolve(session *auth.Session, displayName string) (Identity, error) {
	if session != nil {
		return Identity{ID: session.Email, Name: session.Name}, nil
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		return Identity{}, ErrNameRequired
	}
	return Identity{ID: "guest_" + normalize(name), Name: name}, nil
}

// normalize lowercases and maps every non-alphanumeric rune to '_', so the
// same name always yields the same guest id.
func normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
