package hub

import (
	"context"
	"encoding/json"
	"log/slog"

	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/hub/types"
	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/room"
	"ctchen222/Time-Travel-Tic-Tac-Toe/pkg/proto"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const reasonServerBusy = "server busy"

// registerSession opens a fresh game for the player, or turns it away when
// the hub is full.
func (h *Hub) registerSession(ctx context.Context, req *types.RegistrationRequest) {
	reqCtx := req.Ctx
	if reqCtx == nil {
		reqCtx = ctx
	}
	_, span := tracer.Start(reqCtx, "hub.registerSession", trace.WithAttributes(
		attribute.String("player.id", req.Player.ID),
		attribute.Int("sessions.count", len(h.rooms)),
	))
	defer span.End()

	if len(h.rooms) >= h.maxSessions {
		slog.WarnContext(ctx, "Rejecting session, hub is full", "player.id", req.Player.ID, "max_sessions", h.maxSessions)
		span.SetStatus(codes.Error, "Hub is full")
		h.reject(ctx, req, reasonServerBusy)
		return
	}

	roomID := uuid.New().String()
	r := room.NewRoom(roomID, req.Player, h.heartbeat)
	h.rooms[roomID] = r
	h.sessions.Add(1)
	h.active.Add(ctx, 1)
	span.SetAttributes(attribute.String("room.id", roomID))

	// Rooms live for the hub's lifetime, not the upgrade request's.
	go r.Start(ctx, h.unregister)

	slog.InfoContext(ctx, "Session opened", "room.id", roomID, "player.id", req.Player.ID)
}

// reject tells the player why and closes the connection.
func (h *Hub) reject(ctx context.Context, req *types.RegistrationRequest, reason string) {
	data, err := json.Marshal(&proto.ErrorMessage{Type: proto.TypeError, Reason: reason})
	if err != nil {
		slog.ErrorContext(ctx, "Error marshalling rejection", "error", err)
	} else if err := req.Player.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.WarnContext(ctx, "Failed to send rejection to player", "player.id", req.Player.ID, "error", err)
	}
	if err := req.Player.Conn.Close(); err != nil {
		slog.WarnContext(ctx, "Failed to close rejected connection", "player.id", req.Player.ID, "error", err)
	}
}

func (h *Hub) removeSession(ctx context.Context, r *room.Room) {
	if _, ok := h.rooms[r.ID]; !ok {
		return
	}
	delete(h.rooms, r.ID)
	h.sessions.Add(-1)
	h.active.Add(ctx, -1)
	slog.InfoContext(ctx, "Session closed", "room.id", r.ID, "player.id", r.Player.ID)
}

func (h *Hub) shutdown(ctx context.Context) {
	slog.InfoContext(ctx, "Hub stopping, closing sessions", "sessions", len(h.rooms))
	for id, r := range h.rooms {
		r.Stop()
		delete(h.rooms, id)
		h.sessions.Add(-1)
		h.active.Add(ctx, -1)
	}
}
