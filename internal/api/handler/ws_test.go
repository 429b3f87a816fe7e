package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"endgame/backend/internal/config"
	"endgame/backend/internal/gamehub"
	"endgame/backend/internal/logger"
	"endgame/backend/internal/models"
	"endgame/backend/internal/rules"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	hub     *gamehub.ManagerService
	handler *Handler
}

func newTestServer(t *testing.T, auth config.AuthConfig) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := gamehub.NewManagerService(rules.NewTicTacToeOracle(), nil, logger.NewNop())
	go hub.Run(ctx)

	cfg := &config.Config{Auth: auth, Game: config.GameConfig{SendBuffer: 16}}
	h := NewHandler(hub, nil, cfg, logger.NewNop())
	r := gin.New()
	h.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		<-hub.Done()
		srv.Close()
	})
	return &testServer{Server: srv, hub: hub, handler: h}
}

func (s *testServer) wsURL(token string) string {
	u := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws"
	if token != "" {
		u += "?token=" + token
	}
	return u
}

func (s *testServer) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(s.wsURL(token), nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func (s *testServer) waitFor(t *testing.T, cond func(gamehub.Stats) bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		stats, err := s.hub.Stats(context.Background())
		return err == nil && cond(stats)
	}, 2*time.Second, 10*time.Millisecond)
}

func readMessage(t *testing.T, conn *websocket.Conn) models.ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg models.ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func send(t *testing.T, conn *websocket.Conn, raw string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(raw)))
}

func TestWebSocket_FullGameOverTheWire(t *testing.T) {
	srv := newTestServer(t, testAuth())

	tokenA, err := srv.handler.generateJWT("anon-a")
	require.NoError(t, err)
	a := srv.dial(t, tokenA)
	b := srv.dial(t, "")
	srv.waitFor(t, func(s gamehub.Stats) bool { return s.Connections == 2 })

	send(t, a, `{"type":"FindGame"}`)
	srv.waitFor(t, func(s gamehub.Stats) bool { return s.Waiting == 1 })
	// Garbage is dropped without an answer.
	send(t, b, `this is not json`)
	send(t, b, `{"type":"init_game"}`)

	startedA := readMessage(t, a)
	startedB := readMessage(t, b)
	assert.Equal(t, models.TypeGameStarted, startedA.Type)
	assert.Equal(t, "first", startedA.Role)
	assert.Equal(t, "second", startedB.Role)
	assert.Equal(t, startedA.GameID, startedB.GameID)

	send(t, a, `{"type":"Action","action":{"cell":4}}`)
	assert.JSONEq(t, `{"cell":4}`, string(readMessage(t, a).Action))
	assert.JSONEq(t, `{"cell":4}`, string(readMessage(t, b).Action))

	// Out of turn.
	send(t, a, `{"type":"Action","action":{"cell":0}}`)
	rejected := readMessage(t, a)
	assert.Equal(t, models.TypeActionRejected, rejected.Type)

	require.NoError(t, a.Close())
	assert.Equal(t, models.NewGameOver(models.ResultOpponentDisconnected), readMessage(t, b))
	srv.waitFor(t, func(s gamehub.Stats) bool { return s.Connections == 1 && s.ActiveSessions == 0 })
}

func TestWebSocket_Auth(t *testing.T) {
	required := testAuth()
	required.Required = true
	srv := newTestServer(t, required)

	_, resp, err := websocket.DefaultDialer.Dial(srv.wsURL(""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(srv.wsURL("bogus"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := srv.handler.generateJWT("anon-z")
	require.NoError(t, err)
	header := http.Header{"Authorization": []string{"Bearer " + token}}
	conn, resp, err := websocket.DefaultDialer.Dial(srv.wsURL(""), header)
	require.NoError(t, err)
	resp.Body.Close()
	conn.Close()
}

func TestStatsEndpoint(t *testing.T) {
	srv := newTestServer(t, testAuth())
	srv.dial(t, "")
	srv.waitFor(t, func(s gamehub.Stats) bool { return s.Connections == 1 })

	resp, err := http.Get(srv.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
