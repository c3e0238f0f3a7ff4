package room

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/events"
	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/history"
	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/player"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("room")

// Room is one game session: a single browser page bound to its own
// history controller. Only the run loop touches the controller and writes
// to the connection.
type Room struct {
	ID         string
	Player     *player.Player
	controller *history.Controller
	incoming   chan []byte
	heartbeat  time.Duration
	done       chan struct{}
	stopOnce   sync.Once
}

// NewRoom creates a session for p with a fresh game.
func NewRoom(id string, p *player.Player, heartbeat time.Duration) *Room {
	return &Room{
		ID:         id,
		Player:     p,
		controller: history.NewController(),
		incoming:   make(chan []byte, 10),
		heartbeat:  heartbeat,
		done:       make(chan struct{}),
	}
}

// Start sends the initial board, launches the read pump and runs the event
// loop until the connection drops or Stop is called. A dropped connection
// is reported on unregister.
func (r *Room) Start(ctx context.Context, unregister chan<- *Room) {
	slog.InfoContext(ctx, "Room started", "room.id", r.ID, "player.id", r.Player.ID)

	r.open(ctx)
	go r.ReadPump(ctx)
	r.run(ctx, unregister)
}

// Stop ends the session and closes the connection. It is safe to call more than once.
func (r *Room) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
		if err := r.Player.Conn.Close(); err != nil {
			slog.Warn("Failed to close player connection", "room.id", r.ID, "player.id", r.Player.ID, "error", err)
		}
	})
}

// Done is closed once the session is stopped.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// open wires re-rendering to controller changes and draws the first board.
func (r *Room) open(ctx context.Context) {
	r.controller.Subscribe(func(e events.Event) {
		r.onEvent(ctx, e)
	})
	r.render(ctx)
}

// run is the main loop for the room.
func (r *Room) run(ctx context.Context, unregister chan<- *Room) {
	pingTicker := time.NewTicker(r.heartbeat)
	defer func() {
		pingTicker.Stop()
		r.Stop()
	}()

	for {
		select {
		case <-r.done:
			slog.InfoContext(ctx, "Room run loop stopping.", "room.id", r.ID)
			return

		case msg, ok := <-r.incoming:
			if !ok {
				r.Player.Status = player.StatusDisconnected
				slog.InfoContext(ctx, "Player disconnected, closing room.", "room.id", r.ID, "player.id", r.Player.ID)
				select {
				case unregister <- r:
				case <-r.done:
				}
				return
			}
			r.HandleMessage(ctx, msg)

		case <-pingTicker.C:
			if err := r.Player.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.WarnContext(ctx, "Failed to send ping to player", "room.id", r.ID, "player.id", r.Player.ID, "error", err)
			}
		}
	}
}
