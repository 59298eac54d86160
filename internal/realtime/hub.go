// Package realtime pushes table change events and presence updates to
// dashboard clients over websockets.
package realtime

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/msp993/backlog-zenith-project/internal/models"
	"go.uber.org/zap"
)

type Cfg struct {
	NotifyChannel  string        `env:"NOTIFY_CHANNEL"     env-default:"table_changes"`
	PresenceTTL    time.Duration `env:"PRESENCE_TTL"       env-default:"60s"`
	PingPeriod     time.Duration `env:"WS_PING_PERIOD"     env-default:"25s"`
	WriteWait      time.Duration `env:"WS_WRITE_WAIT"      env-default:"10s"`
	SendBuffer     int           `env:"WS_SEND_BUFFER"     env-default:"64"`
	AllowedOrigins []string      `env:"WS_ALLOWED_ORIGINS" env-separator:","`
}

const (
	messageChange   = "change"
	messagePresence = "presence"
	messageTrack    = "track"
	messageUntrack  = "untrack"
)

type changeMessage struct {
	Type string `json:"type"`
	models.ChangeEvent
}

type presenceMessage struct {
	Type  string            `json:"type"`
	Users []models.Presence `json:"users"`
}

type inboundMessage struct {
	Type string `json:"type"`
	Page string `json:"page"`
}

type Hub struct {
	cfg      Cfg
	upgrader websocket.Upgrader
	presence *Tracker

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
	wg      sync.WaitGroup
}

func NewHub(cfg Cfg) *Hub {
	h := &Hub{
		cfg:      cfg,
		presence: NewTracker(cfg.PresenceTTL),
		clients:  make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(h.cfg.AllowedOrigins, r.Header.Get("Origin"))
}

// ServeHTTP upgrades the request and subscribes the connection. Query
// parameters: tables (comma list, empty for all), user_id, user_name,
// avatar_url, page.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	q := r.URL.Query()
	c := &client{
		hub:    h,
		id:     uuid.NewString(),
		conn:   conn,
		userID: q.Get("user_id"),
		tables: parseTables(q.Get("tables")),
		send:   make(chan []byte, h.cfg.SendBuffer),
		done:   make(chan struct{}),
		presence: models.Presence{
			UserID:    q.Get("user_id"),
			UserName:  q.Get("user_name"),
			AvatarURL: q.Get("avatar_url"),
			Page:      q.Get("page"),
		},
	}

	if !h.register(c) {
		conn.Close()
		return
	}

	joined := c.userID != "" && h.presence.Track(c.id, c.presence)

	go c.writePump()
	go c.readPump()

	if joined {
		h.broadcastPresence()
		return
	}
	h.sendPresence(c)
}

func parseTables(raw string) map[string]bool {
	tables := make(map[string]bool)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tables[t] = true
		}
	}
	return tables
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.wg.Add(2)
	zap.L().Info("websocket client connected",
		zap.String("client", c.id),
		zap.String("user_id", c.userID),
		zap.Int("total", len(h.clients)))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	total := len(h.clients)
	h.mu.Unlock()

	c.close()
	if !ok {
		return
	}

	zap.L().Info("websocket client disconnected", zap.String("client", c.id), zap.Int("total", total))
	if h.presence.Untrack(c.id) {
		h.broadcastPresence()
	}
}

func (h *Hub) snapshot() []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		out = append(out, c)
	}
	return out
}

// Publish forwards a change event to every client subscribed to its table.
func (h *Hub) Publish(event models.ChangeEvent) {
	payload, err := json.Marshal(changeMessage{Type: messageChange, ChangeEvent: event})
	if err != nil {
		zap.L().Error("failed to encode change event", zap.Error(err))
		return
	}

	for _, c := range h.snapshot() {
		if c.subscribed(event.Table) {
			c.enqueue(payload)
		}
	}
}

func (h *Hub) broadcastPresence() {
	for _, c := range h.snapshot() {
		h.sendPresence(c)
	}
}

func (h *Hub) sendPresence(c *client) {
	payload, err := json.Marshal(presenceMessage{Type: messagePresence, Users: h.presence.List(c.userID)})
	if err != nil {
		zap.L().Error("failed to encode presence", zap.Error(err))
		return
	}
	c.enqueue(payload)
}

// Presence lists online users other than excludeUserID.
func (h *Hub) Presence(excludeUserID string) []models.Presence {
	return h.presence.List(excludeUserID)
}

func (h *Hub) OnlineCount() int {
	return h.presence.Count()
}

// Sweep drops presences that stopped sending heartbeats and notifies clients.
func (h *Hub) Sweep() {
	removed := h.presence.Sweep()
	if len(removed) == 0 {
		return
	}
	zap.L().Info("presence sweep", zap.Int("removed", len(removed)))
	h.broadcastPresence()
}

// Close disconnects every client and waits for their goroutines to exit.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	h.wg.Wait()
}
