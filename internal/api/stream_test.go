package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hublishing/fnsretail-sub001/internal/editor"
)

func TestStream_PushesViews(t *testing.T) {
	env := newTestEnv(t)
	ts := httptest.NewServer(env.server.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/editor/ws?access_token=" + env.token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var first editor.View
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "user1", first.UserID)
	assert.Equal(t, 0, first.CurrentIndex)

	rec := env.do(t, http.MethodPost, "/api/v1/editor/actions/color", map[string]any{
		"ids": []string{"P1"}, "color": "blue",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var next editor.View
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, 1, next.CurrentIndex)
	assert.Equal(t, "blue", next.Products[0].Color)
}

func TestStream_RejectsWithoutToken(t *testing.T) {
	env := newTestEnv(t)
	ts := httptest.NewServer(env.server.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/editor/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStream_ClosesWithSession(t *testing.T) {
	env := newTestEnv(t)
	ts := httptest.NewServer(env.server.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/editor/ws?access_token=" + env.token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var first editor.View
	require.NoError(t, conn.ReadJSON(&first))

	env.registry.Remove("user1")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
