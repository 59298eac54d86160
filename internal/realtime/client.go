package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/msp993/backlog-zenith-project/internal/models"
	"go.uber.org/zap"
)

type client struct {
	hub      *Hub
	id       string
	conn     *websocket.Conn
	userID   string
	presence models.Presence
	tables   map[string]bool

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (c *client) subscribed(table string) bool {
	return len(c.tables) == 0 || c.tables[table]
}

// enqueue never blocks: a client that cannot keep up is disconnected and
// is expected to refetch on reconnect.
func (c *client) enqueue(payload []byte) {
	select {
	case <-c.done:
	case c.send <- payload:
	default:
		zap.L().Warn("websocket client too slow, closing", zap.String("client", c.id))
		c.close()
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.hub.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.hub.wg.Done()
	}()

	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				zap.L().Debug("websocket write failed", zap.String("client", c.id), zap.Error(err))
				c.close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.hub.cfg.WriteWait))
			return
		}
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.hub.wg.Done()
	}()

	pongWait := 2 * c.hub.cfg.PingPeriod
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			zap.L().Debug("ignoring malformed websocket message", zap.String("client", c.id), zap.Error(err))
			continue
		}
		c.handle(msg)
	}
}

func (c *client) handle(msg inboundMessage) {
	if c.userID == "" {
		return
	}

	switch msg.Type {
	case messageTrack:
		if msg.Page != "" {
			c.presence.Page = msg.Page
		}
		if c.hub.presence.Track(c.id, c.presence) {
			c.hub.broadcastPresence()
		}
	case messageUntrack:
		if c.hub.presence.Untrack(c.id) {
			c.hub.broadcastPresence()
		}
	}
}
