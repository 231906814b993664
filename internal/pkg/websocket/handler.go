package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// SnapshotFunc returns the message a client receives right after connecting
type SnapshotFunc func(ctx context.Context) (interface{}, error)

// Handler upgrades authenticated requests and attaches them to a Hub
type Handler struct {
	hub      *Hub
	snapshot SnapshotFunc
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler. allowedOrigins restricts the
// Origin header; "*" or an empty list allows any origin.
func NewHandler(hub *Hub, snapshot SnapshotFunc, allowedOrigins []string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		snapshot: snapshot,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(strings.TrimRight(a, "/"), u.Scheme+"://"+u.Host) {
				return true
			}
		}
		return false
	}
}

// HandleConnection upgrades the request. The auth middleware must have put
// the caller's id in the context under "userID".
func (h *Handler) HandleConnection(c *gin.Context) {
	userID := c.GetInt64("userID")

	var initial []byte
	if h.snapshot != nil {
		v, err := h.snapshot(c.Request.Context())
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to build websocket snapshot")
		} else if initial, err = json.Marshal(v); err != nil {
			h.logger.Error().Err(err).Msg("Failed to marshal websocket snapshot")
			initial = nil
		}
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 16),
		userID: userID,
		logger: h.logger,
	}
	if initial != nil {
		client.send <- initial
	}

	if !h.hub.join(client) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
