// internal/handlers/lobby_ws_test.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortonym/backend/internal/models"
)

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http")
}

func streamGoroutineRunning() bool {
	buf := make([]byte, 1<<20)
	n := runtime.Stack(buf, true)
	return strings.Contains(string(buf[:n]), "streamLobby")
}

func TestLobbyStreamSendsSnapshot(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	code := createLobby(t, ts, "Hosty")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL(ts.URL)+"/api/lobby/ws?code="+code, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	_, payload, err := conn.Read(ctx)
	require.NoError(t, err)

	var view models.LobbyView
	require.NoError(t, json.Unmarshal(payload, &view))
	assert.Equal(t, code, view.Code)
	assert.Equal(t, models.StatusWaiting, view.Status)
}

func TestLobbyStreamStopsWhenClientCloses(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	code := createLobby(t, ts, "Hosty")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL(ts.URL)+"/api/lobby/ws?code="+code, nil)
	require.NoError(t, err)

	_, _, err = conn.Read(ctx)
	require.NoError(t, err)
	require.True(t, streamGoroutineRunning())

	// an idle lobby never changes, so only the close frame can end the loop
	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "done"))

	assert.Eventually(t, func() bool {
		return !streamGoroutineRunning()
	}, 4*time.Second, 50*time.Millisecond, "stream goroutine kept polling after client close")
}

func TestLobbyStreamRejectsUnknownLobby(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	res, err := http.Get(ts.URL + "/api/lobby/ws?code=ZZZZZZ")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
