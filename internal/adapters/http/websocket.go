package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	natsadapter "github.com/samirrijal/placemap/internal/adapters/nats"
	"github.com/samirrijal/placemap/internal/core/domain"
	"github.com/samirrijal/placemap/internal/pkg/metrics"
)

// wsMessage is sent from client to steer the view it is watching.
type wsMessage struct {
	Action string   `json:"action"` // "center" | "click" | "radius" | "ready"
	Lat    *float64 `json:"lat,omitempty"`
	Lng    *float64 `json:"lng,omitempty"`
	Radius float64  `json:"radius,omitempty"`
}

// ViewSocketUpgrade lets only WebSocket upgrades for existing views through.
func ViewSocketUpgrade(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if _, err := deps.Views.Get(c.Params("id")); err != nil {
			return writeError(c, err)
		}
		return c.Next()
	}
}

// socketWriter serializes writes to one client. Once closed it drops
// writes, so frame callbacks still in flight never touch a released
// connection.
type socketWriter struct {
	mu     sync.Mutex
	closed bool
	write  func(messageType int, data []byte) error
}

var errSocketClosed = errors.New("websocket closed")

func (w *socketWriter) send(messageType int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errSocketClosed
	}
	return w.write(messageType, data)
}

func (w *socketWriter) sendJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.send(websocket.TextMessage, data)
}

// close waits for an in-flight write and rejects later ones.
func (w *socketWriter) close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

// ViewSocketHandler relays a view's frames to the client: the latest frame
// of each kind first, then live frames. The client may send steering
// messages such as {"action":"center","lat":38.42,"lng":27.14}.
func ViewSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		viewID := c.Params("id")
		log := slog.Default().With("view", viewID, "remote", c.RemoteAddr().String())
		log.Info("ws client connected")

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		out := &socketWriter{write: c.WriteMessage}
		defer out.close()

		if deps.Frames != nil {
			sub, err := deps.Frames.FollowView(viewID, func(_ natsadapter.Frame, raw []byte) {
				_ = out.send(websocket.TextMessage, raw)
			})
			if err != nil {
				log.Error("ws follow view", "error", err)
				_ = out.sendJSON(map[string]string{"error": "frame stream unavailable"})
				return
			}
			// Runs before out.close and c.Close.
			defer func() { _ = sub.Unsubscribe() }()
		} else {
			_ = out.sendJSON(map[string]string{"error": "frame stream not configured"})
		}

		done := make(chan struct{})
		defer close(done)

		// Keep-alive ping
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := out.send(websocket.PingMessage, nil); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = out.sendJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			if reply := steer(deps, viewID, m); reply != nil {
				_ = out.sendJSON(reply)
			}
		}

		log.Info("ws client disconnected")
	}
}

// steer applies one client message to the view and returns the reply.
func steer(deps *Dependencies, viewID string, m wsMessage) map[string]interface{} {
	var (
		started bool
		err     error
	)

	switch m.Action {
	case "center", "click":
		if m.Lat == nil || m.Lng == nil {
			return map[string]interface{}{"error": "lat and lng are required"}
		}
		p := domain.GeoPoint{Lat: *m.Lat, Lng: *m.Lng}
		if m.Action == "click" {
			started, err = deps.Views.Click(viewID, p)
		} else {
			started, err = deps.Views.SetCenter(viewID, p)
		}
	case "radius":
		_, err = deps.Views.SetRadius(viewID, m.Radius)
	case "ready":
		_, err = deps.Views.Ready(viewID)
	default:
		return map[string]interface{}{"error": "unknown action: " + m.Action}
	}

	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}
	return map[string]interface{}{"status": "ok", "action": m.Action, "started": started}
}
