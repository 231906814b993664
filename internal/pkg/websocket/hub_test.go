package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func startServer(t *testing.T, snapshot SnapshotFunc) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = hub.Run(ctx) }()

	h := NewHandler(hub, snapshot, nil, zerolog.Nop())
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set("userID", int64(7))
		h.HandleConnection(c)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_SnapshotThenBroadcast(t *testing.T) {
	hub, url := startServer(t, func(context.Context) (interface{}, error) {
		return event{Type: "marquee", Text: "current"}, nil
	})

	conn := dial(t, url)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var got event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "current", got.Text)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Broadcast(context.Background(), event{Type: "marquee", Text: "next"}))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "next", got.Text)
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub, url := startServer(t, nil)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastAfterStop(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- hub.Run(ctx) }()

	cancel()
	require.NoError(t, <-errCh)

	for i := 0; i < 32; i++ {
		assert.NoError(t, hub.Broadcast(context.Background(), event{Type: "marquee"}))
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, check(req))

	req.Header.Del("Origin")
	assert.True(t, check(req))
}
