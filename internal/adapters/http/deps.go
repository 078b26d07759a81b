package http

import (
	"context"

	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/placemap/internal/adapters/nats"
	"github.com/samirrijal/placemap/internal/core/usecases"
)

// Pinger is anything the readiness check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers. Optional
// infrastructure is left nil when not configured.
type Dependencies struct {
	Search *usecases.SearchService
	Saved  *usecases.SavedPlaceService
	Auth   *usecases.AuthService
	Views  *usecases.ViewService
	Frames *natsadapter.Subscriber
	NATS   *nats.Conn

	Backend Pinger
	Cache   Pinger
	DB      Pinger
}
