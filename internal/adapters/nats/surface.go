// Package natsadapter streams map view frames over NATS. Every view gets
// its own subject tree, mapview.<view>.<kind>, and a JetStream stream keeps
// the latest frame of each kind so late subscribers can catch up.
package natsadapter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/placemap/internal/core/domain"
	"github.com/samirrijal/placemap/internal/core/ports"
	"github.com/samirrijal/placemap/internal/pkg/metrics"
)

// StreamName is the JetStream stream holding view frames.
const StreamName = "MAP_FRAMES"

// Frame kinds.
const (
	FramePan      = "pan"
	FrameZoom     = "zoom"
	FrameOverlays = "overlays"
)

// Frame is one draw instruction for a map view.
type Frame struct {
	View     string           `json:"view"`
	Seq      uint64           `json:"seq"`
	Kind     string           `json:"kind"`
	Center   *domain.GeoPoint `json:"center,omitempty"`
	Zoom     *int             `json:"zoom,omitempty"`
	Overlays []domain.Overlay `json:"overlays,omitempty"`
	At       time.Time        `json:"at"`
}

// Subject returns the subject a view publishes kind frames on.
func Subject(viewID, kind string) string {
	return "mapview." + viewID + "." + kind
}

// ViewSubjects matches every frame of one view.
func ViewSubjects(viewID string) string {
	return "mapview." + viewID + ".*"
}

// Publisher hands out NATS-backed surfaces.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and makes sure the frame stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:              StreamName,
		Subjects:          []string{"mapview.>"},
		Retention:         nats.LimitsPolicy,
		MaxMsgsPerSubject: 1,
		MaxAge:            30 * time.Minute,
		Storage:           nats.MemoryStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist; try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// Conn exposes the underlying connection for relays and health checks.
func (p *Publisher) Conn() *nats.Conn { return p.conn }

// Surface implements ports.SurfaceProvider.
func (p *Publisher) Surface(viewID string) ports.MapSurface {
	return &Surface{conn: p.conn, view: viewID}
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// Surface publishes a view's draw calls as frames. Publishing is
// fire-and-forget; the stream captures frames without a round trip.
type Surface struct {
	conn *nats.Conn
	view string
	seq  atomic.Uint64
}

func (s *Surface) PanTo(center domain.GeoPoint) {
	s.publish(Frame{Kind: FramePan, Center: &center})
}

func (s *Surface) SetZoom(zoom int) {
	s.publish(Frame{Kind: FrameZoom, Zoom: &zoom})
}

// Render publishes the full overlay set. A frame without overlays clears
// the surface.
func (s *Surface) Render(overlays []domain.Overlay) {
	s.publish(Frame{Kind: FrameOverlays, Overlays: overlays})
}

func (s *Surface) publish(f Frame) {
	f.View = s.view
	f.Seq = s.seq.Add(1)
	f.At = time.Now().UTC()

	data, err := json.Marshal(f)
	if err != nil {
		slog.Error("encode frame", "view", s.view, "kind", f.Kind, "error", err)
		return
	}
	if err := s.conn.Publish(Subject(s.view, f.Kind), data); err != nil {
		slog.Warn("publish frame", "view", s.view, "kind", f.Kind, "error", err)
		return
	}
	metrics.FramesPublished.WithLabelValues(f.Kind).Inc()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
