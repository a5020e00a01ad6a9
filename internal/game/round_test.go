// internal/game/round_test.go
package game

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortonym/backend/internal/identity"
	"github.com/sortonym/backend/internal/lobby"
	"github.com/sortonym/backend/internal/models"
	"github.com/sortonym/backend/internal/words"
)

// stubSource hands out one fixed word set.
type stubSource struct{ ws words.WordSet }

func (s stubSource) Pick(context.Context, string, map[string]bool, int) (words.WordSet, error) {
	return s.ws, nil
}

// memLobbyStore is an in-memory lobby.Store, mutex-serialized like the row
// lock the postgres store takes.
type memLobbyStore struct {
	mu      sync.Mutex
	lobbies map[string]*models.Lobby
}

func newMemLobbyStore() *memLobbyStore {
	return &memLobbyStore{lobbies: make(map[string]*models.Lobby)}
}

func (s *memLobbyStore) clone(l *models.Lobby) *models.Lobby {
	data, _ := json.Marshal(l)
	var out models.Lobby
	_ = json.Unmarshal(data, &out)
	return &out
}

func (s *memLobbyStore) Get(_ context.Context, code string) (*models.Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lobbies[code]
	if !ok {
		return nil, lobby.ErrNotFound
	}
	return s.clone(l), nil
}

func (s *memLobbyStore) Create(_ context.Context, l *models.Lobby) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lobbies[l.Code]; ok {
		return lobby.ErrCodeTaken
	}
	s.lobbies[l.Code] = s.clone(l)
	return nil
}

func (s *memLobbyStore) Update(_ context.Context, code string, fn func(l *models.Lobby) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lobbies[code]
	if !ok {
		return lobby.ErrNotFound
	}
	working := s.clone(l)
	if err := fn(working); err != nil {
		return err
	}
	s.lobbies[code] = working
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *miniredis.Miniredis, *lobby.Service) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	source := stubSource{ws: words.WordSet{
		Anchor:   "happy",
		Synonyms: []string{"glad", "joyful", "cheerful", "content", "merry"},
		Antonyms: []string{"sad", "gloomy", "miserable", "sorrowful", "dejected"},
	}}

	lobbies := lobby.NewService(newMemLobbyStore(), 5, LevelNames())
	return NewEngine(source, rdb, lobbies), mr, lobbies
}

func player() identity.Identity {
	return identity.Identity{ID: "guest_alex", Name: "Alex"}
}

func TestStartRoundIssuesCandidates(t *testing.T) {
	e, mr, _ := newTestEngine(t)
	ctx := context.Background()

	resp, err := e.StartRound(ctx, "EASY", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RoundID)
	assert.Equal(t, "happy", resp.AnchorWord)
	assert.Equal(t, "EASY", resp.Level)
	assert.Equal(t, 90.0, resp.TimeLimit)
	assert.Len(t, resp.Words, 6) // pairCount*2 for EASY

	syn, ant := 0, 0
	for _, c := range resp.Words {
		kind, word, ok := DecodeWordID(c.ID)
		require.True(t, ok, "candidate id %q", c.ID)
		assert.Equal(t, word, c.Word)
		if kind == KindSynonym {
			syn++
		} else {
			ant++
		}
	}
	assert.Equal(t, 3, syn)
	assert.Equal(t, 3, ant)

	assert.True(t, mr.Exists("round:"+resp.RoundID))
}

func TestSubmitRoundConsumesSession(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	start, err := e.StartRound(ctx, "EASY", nil)
	require.NoError(t, err)

	req := SubmitRequest{
		RoundID: start.RoundID,
		Synonyms: []string{
			EncodeWordID(KindSynonym, "glad"),
			EncodeWordID(KindSynonym, "joyful"),
			EncodeWordID(KindSynonym, "cheerful"),
		},
		TimeTaken: 10,
	}
	resp, err := e.SubmitRound(ctx, player(), req)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.CorrectCount)
	assert.InDelta(t, 7.0, resp.Score, 1e-9)

	// the session is single-use: replaying the same round id must fail
	_, err = e.SubmitRound(ctx, player(), req)
	assert.ErrorIs(t, err, ErrInvalidRound)
}

func TestSubmitRoundExpiredSession(t *testing.T) {
	e, mr, _ := newTestEngine(t)
	ctx := context.Background()

	start, err := e.StartRound(ctx, "MEDIUM", nil)
	require.NoError(t, err)

	mr.FastForward(roundTTL(LevelFor("MEDIUM")) + time.Second)

	_, err = e.SubmitRound(ctx, player(), SubmitRequest{RoundID: start.RoundID})
	assert.ErrorIs(t, err, ErrInvalidRound)
}

func TestSubmitRoundAppendsToLobby(t *testing.T) {
	e, _, lobbies := newTestEngine(t)
	ctx := context.Background()

	host := identity.Identity{ID: "host@example.com", Name: "Hosty"}
	l, err := lobbies.Create(ctx, host, "")
	require.NoError(t, err)
	_, err = lobbies.Join(ctx, l.Code, player())
	require.NoError(t, err)
	require.NoError(t, lobbies.SetTeam(ctx, l.Code, player().ID, "A"))

	start, err := e.StartRound(ctx, "EASY", nil)
	require.NoError(t, err)

	var persisted, published []models.RoundResult
	e.PersistResult = func(_ context.Context, _ string, r models.RoundResult) error {
		persisted = append(persisted, r)
		return nil
	}
	e.PublishResult = func(_ context.Context, _ string, r models.RoundResult) error {
		published = append(published, r)
		return nil
	}

	_, err = e.SubmitRound(ctx, player(), SubmitRequest{
		RoundID:   start.RoundID,
		Synonyms:  []string{EncodeWordID(KindSynonym, "glad")},
		TimeTaken: 20,
		LobbyCode: l.Code,
	})
	require.NoError(t, err)

	view, err := lobbies.Status(ctx, l.Code)
	require.NoError(t, err)
	require.Len(t, view.Results, 1)
	assert.Equal(t, player().ID, view.Results[0].PlayerID)
	assert.Equal(t, "A", view.Results[0].Team)
	require.Len(t, persisted, 1)
	require.Len(t, published, 1)
}

func TestSubmitRoundRestoresSessionOnLobbyFailure(t *testing.T) {
	e, mr, _ := newTestEngine(t)
	ctx := context.Background()

	start, err := e.StartRound(ctx, "EASY", nil)
	require.NoError(t, err)

	req := SubmitRequest{
		RoundID:   start.RoundID,
		Synonyms:  []string{EncodeWordID(KindSynonym, "glad")},
		TimeTaken: 10,
		LobbyCode: "ZZZZZZ",
	}
	_, err = e.SubmitRound(ctx, player(), req)
	assert.ErrorIs(t, err, lobby.ErrNotFound)

	// the lobby append failed before anything was recorded, so the session
	// survives and a corrected submission still works
	assert.True(t, mr.Exists("round:"+start.RoundID))
	req.LobbyCode = ""
	resp, err := e.SubmitRound(ctx, player(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CorrectCount)
}

func TestSubmitRoundRejectsEmptyRoundID(t *testing.T) {
	e := NewEngine(nil, nil, nil)
	_, err := e.SubmitRound(context.Background(), player(), SubmitRequest{})
	assert.ErrorIs(t, err, ErrInvalidRound)
}

func TestPickN(t *testing.T) {
	ws := []string{"a", "b", "c"}
	assert.Equal(t, []string{"a", "b"}, pickN(ws, 2))
	assert.Equal(t, ws, pickN(ws, 3))
	assert.Equal(t, ws, pickN(ws, 10))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 7.0, round2(7.0000001))
	assert.Equal(t, 4.67, round2(4.666666))
	assert.Equal(t, 0.0, round2(0.004))
}
