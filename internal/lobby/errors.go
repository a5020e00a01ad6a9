// internal/lobby/errors.go
package lobby

import "errors"

// The state machine surfaces every failure as one of these sentinels;
// handlers map them to status codes with errors.Is. Nothing is retried
// internally.
var (
	// ErrNotFound: no lobby exists under the given code.
	ErrNotFound = errors.New("lobby not found")

	// ErrCodeTaken: a store insert collided with an existing code. The
	// service retries code generation on it; it never escapes Create.
	ErrCodeTaken = errors.New("lobby code already in use")

	// ErrNameConflict: the display name already belongs to a different
	// player in the lobby (case-insensitive).
	ErrNameConflict = errors.New("display name already taken in this lobby")

	// ErrNotMember: the acting player has not joined the lobby. Actions
	// never implicitly add players.
	ErrNotMember = errors.New("player is not a member of this lobby")

	// ErrForbidden: a host-only action attempted by a non-host.
	ErrForbidden = errors.New("only the host may perform this action")

	// ErrInsufficientTeams: Start requires at least 2 distinct teams.
	ErrInsufficientTeams = errors.New("need at least 2 teams with players to start")

	// ErrUnassignedPlayers: Start requires every player to have picked a team.
	ErrUnassignedPlayers = errors.New("all players must join a team before starting")

	// ErrAlreadyStarted: Start on a lobby that has left WAITING. Rejected
	// rather than treated as a no-op: a second start would clear the result
	// log and erase submitted rounds.
	ErrAlreadyStarted = errors.New("game already started")

	// ErrInvalidDifficulty: difficulty not present in the level table.
	ErrInvalidDifficulty = errors.New("unknown difficulty")
)
