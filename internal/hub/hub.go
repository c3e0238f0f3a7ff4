package hub

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/config"
	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/hub/types"
	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/room"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var (
	tracer = otel.Tracer("hub")
	meter  = otel.Meter("hub")
)

// Hub manages all live sessions.
type Hub struct {
	rooms       map[string]*room.Room
	register    chan *types.RegistrationRequest
	unregister  chan *room.Room
	maxSessions int
	heartbeat   time.Duration
	sessions    atomic.Int64
	active      metric.Int64UpDownCounter
	done        chan struct{}
}

// NewHub creates a new hub.
func NewHub(cfg config.Session) *Hub {
	active, err := meter.Int64UpDownCounter("tictactoe.sessions.active",
		metric.WithDescription("Games currently held by the hub."))
	if err != nil {
		otel.Handle(err)
		active = noop.Int64UpDownCounter{}
	}

	return &Hub{
		rooms:       make(map[string]*room.Room),
		register:    make(chan *types.RegistrationRequest),
		unregister:  make(chan *room.Room),
		maxSessions: cfg.MaxSessions,
		heartbeat:   cfg.HeartbeatInterval,
		active:      active,
		done:        make(chan struct{}),
	}
}

// Run processes registrations until ctx is cancelled, then stops every session.
func (h *Hub) Run(ctx context.Context) {
	slog.InfoContext(ctx, "Hub started", "max_sessions", h.maxSessions)
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return

		case req := <-h.register:
			h.registerSession(ctx, req)

		case r := <-h.unregister:
			h.removeSession(ctx, r)
		}
	}
}

// Register returns the register channel.
func (h *Hub) Register() chan<- *types.RegistrationRequest {
	return h.register
}

// Done is closed once Run has returned and no more registrations are accepted.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Sessions returns the number of live sessions.
func (h *Hub) Sessions() int {
	return int(h.sessions.Load())
}
