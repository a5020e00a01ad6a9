// internal/handlers/lobby_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortonym/backend/internal/auth"
	"github.com/sortonym/backend/internal/game"
	"github.com/sortonym/backend/internal/lobby"
	"github.com/sortonym/backend/internal/models"
)

// fakeStore is an in-memory lobby.Store for handler tests.
type fakeStore struct {
	mu      sync.Mutex
	lobbies map[string]*models.Lobby
}

func newFakeStore() *fakeStore {
	return &fakeStore{lobbies: make(map[string]*models.Lobby)}
}

func (s *fakeStore) clone(l *models.Lobby) *models.Lobby {
	data, _ := json.Marshal(l)
	var out models.Lobby
	_ = json.Unmarshal(data, &out)
	return &out
}

func (s *fakeStore) Get(_ context.Context, code string) (*models.Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lobbies[code]
	if !ok {
		return nil, lobby.ErrNotFound
	}
	return s.clone(l), nil
}

func (s *fakeStore) Create(_ context.Context, l *models.Lobby) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lobbies[l.Code]; ok {
		return lobby.ErrCodeTaken
	}
	s.lobbies[l.Code] = s.clone(l)
	return nil
}

func (s *fakeStore) Update(_ context.Context, code string, fn func(l *models.Lobby) error) error {
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

func newTestServer() *httptest.Server {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	srv := &Server{
		Lobbies:     lobby.NewService(newFakeStore(), 5, game.LevelNames()),
		JoinBaseURL: "https://play.example.com/join",
		Logger:      logger,
	}
	return httptest.NewServer(srv.Routes())
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func rawString(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(raw, &s))
	return s
}

func createLobby(t *testing.T, ts *httptest.Server, hostName string) string {
	t.Helper()
	resp, out := postJSON(t, ts, "/api/lobby/create", map[string]string{"displayName": hostName})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	code := rawString(t, out["code"])
	require.Len(t, code, 6)
	return code
}

func TestCreateJoinStatusFlow(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	code := createLobby(t, ts, "Hosty")

	resp, _ := postJSON(t, ts, "/api/lobby/join", map[string]string{
		"code": code, "displayName": "Alex",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// status poll reflects both players
	res, err := http.Get(ts.URL + "/api/lobby/status?code=" + code)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var view models.LobbyView
	require.NoError(t, json.NewDecoder(res.Body).Decode(&view))
	assert.Equal(t, code, view.Code)
	assert.Equal(t, models.StatusWaiting, view.Status)
	assert.Len(t, view.Players, 2)
	assert.False(t, view.AllFinished)
}

func TestCreateLobbyStoresTeamSettings(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, out := postJSON(t, ts, "/api/lobby/create", map[string]string{
		"displayName": "Hosty", "teamName": "Word Warriors", "teamSize": "4",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view models.LobbyView
	require.NoError(t, json.Unmarshal(out["lobby"], &view))
	assert.Equal(t, "Word Warriors", view.TeamName)
	assert.Equal(t, "4", view.TeamSize)
}

func TestJoinLowercaseCodeAccepted(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	code := createLobby(t, ts, "Hosty")
	resp, _ := postJSON(t, ts, "/api/lobby/join", map[string]string{
		"code": "  " + lower(code) + " ", "displayName": "Alex",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func TestJoinErrors(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	code := createLobby(t, ts, "Hosty")

	t.Run("unknown code", func(t *testing.T) {
		resp, out := postJSON(t, ts, "/api/lobby/join", map[string]string{
			"code": "ZZZZZZ", "displayName": "Alex",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.NotEmpty(t, out["error"])
	})

	t.Run("name conflict", func(t *testing.T) {
		require.NoError(t, auth.Init("1h"))
		token, err := auth.CreateJWT("morgan@example.com", "Morgan Reyes")
		require.NoError(t, err)

		body, err := json.Marshal(map[string]string{"code": code})
		require.NoError(t, err)
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/lobby/join", bytes.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)

		// a guest claiming the logged-in player's name is turned away
		resp, _ := postJSON(t, ts, "/api/lobby/join", map[string]string{
			"code": code, "displayName": "morgan reyes",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("nameless guest", func(t *testing.T) {
		resp, _ := postJSON(t, ts, "/api/lobby/join", map[string]string{"code": code})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing code", func(t *testing.T) {
		resp, _ := postJSON(t, ts, "/api/lobby/join", map[string]string{"displayName": "Alex"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateLobbyFlow(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	code := createLobby(t, ts, "Hosty")
	resp, _ := postJSON(t, ts, "/api/lobby/join", map[string]string{
		"code": code, "displayName": "Alex",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	update := func(body map[string]string) (*http.Response, map[string]json.RawMessage) {
		body["code"] = code
		return postJSON(t, ts, "/api/lobby/update", body)
	}

	// start before anyone picked a team fails
	resp, _ = update(map[string]string{"action": "start_game", "displayName": "Hosty"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = update(map[string]string{"action": "join_team", "team": "A", "displayName": "Hosty"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = update(map[string]string{"action": "join_team", "team": "B", "displayName": "Alex"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// non-host may not change difficulty
	resp, _ = update(map[string]string{"action": "set_difficulty", "difficulty": "HARD", "displayName": "Alex"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, out := update(map[string]string{"action": "set_difficulty", "difficulty": "HARD", "displayName": "Hosty"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "HARD", rawString(t, out["difficulty"]))

	resp, out = update(map[string]string{"action": "start_game", "displayName": "Hosty"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(models.StatusStarted), rawString(t, out["status"]))

	// second start conflicts rather than resetting the round
	resp, _ = update(map[string]string{"action": "start_game", "displayName": "Hosty"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = update(map[string]string{"action": "teleport", "displayName": "Hosty"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLobbyQR(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	code := createLobby(t, ts, "Hosty")

	res, err := http.Get(ts.URL + "/api/lobby/qr?code=" + code)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "image/png", res.Header.Get("Content-Type"))

	res, err = http.Get(ts.URL + "/api/lobby/qr?code=ZZZZZZ")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
