// README: Live calculator over WebSocket. One calculator session per connection.
package handlers

import (
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"removals/internal/metrics"
	"removals/internal/modules/calculator"
	"removals/internal/modules/route"
)

const (
	liveWriteWait = 10 * time.Second
	liveReadLimit = 64 << 10
)

type LiveHandler struct {
	resolver calculator.Resolver
	debounce time.Duration
	timeout  time.Duration
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewLiveHandler accepts connections from allowedOrigins; "*" allows any.
func NewLiveHandler(resolver calculator.Resolver, debounce, timeout time.Duration, allowedOrigins []string, log *slog.Logger) *LiveHandler {
	if log == nil {
		log = slog.Default()
	}
	h := &LiveHandler{resolver: resolver, debounce: debounce, timeout: timeout, log: log}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
		},
	}
	return h
}

// liveMessage is a client message: {"type":"inputs",...} or {"type":"addresses",...}.
type liveMessage struct {
	Type string `json:"type"`
	calculator.Inputs
	route.Request
}

type liveError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func (h *LiveHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debug("live upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	log := h.log.With("session_id", sessionID)
	metrics.LiveSessions.Inc()
	defer metrics.LiveSessions.Dec()

	var writeMu sync.Mutex
	write := func(v any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
		return conn.WriteJSON(v)
	}

	session := calculator.NewSession(h.resolver, h.debounce, h.timeout, func(u calculator.Update) {
		if err := write(u); err != nil {
			log.Debug("live write failed", "err", err)
		}
	})
	defer session.Close()

	if err := write(session.Snapshot()); err != nil {
		return
	}

	conn.SetReadLimit(liveReadLimit)
	for {
		var msg liveMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Info("live session closed", "err", err)
			}
			return
		}
		switch msg.Type {
		case "inputs":
			if err := session.SetInputs(msg.Inputs); err != nil {
				_ = write(liveError{Type: "error", Error: err.Error()})
			}
		case "addresses":
			session.SetAddresses(msg.Request)
		default:
			_ = write(liveError{Type: "error", Error: "unknown message type"})
		}
	}
}
