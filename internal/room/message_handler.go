package room

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/board"
	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/history"
	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/validator"
	"ctchen222/Time-Travel-Tic-Tac-Toe/pkg/proto"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HandleMessage handles a message from the player. It acts as a dispatcher.
// Anything it cannot act on is logged and dropped; the player sees no change.
func (r *Room) HandleMessage(ctx context.Context, rawMessage []byte) {
	ctx, span := tracer.Start(ctx, "room.HandleMessage", trace.WithAttributes(
		attribute.String("player.id", r.Player.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		slog.WarnContext(ctx, "error unmarshalling message", "room.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		return
	}

	if err := validator.Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from player", "player.id", r.Player.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		return
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	switch message.Type {
	case proto.TypeClick:
		if message.Square == nil {
			slog.WarnContext(ctx, "click without square", "player.id", r.Player.ID)
			span.SetStatus(codes.Error, "Click without square")
			return
		}
		r.handleClick(ctx, *message.Square)
	case proto.TypeJump:
		if message.Move == nil {
			slog.WarnContext(ctx, "jump without move", "player.id", r.Player.ID)
			span.SetStatus(codes.Error, "Jump without move")
			return
		}
		r.handleJump(ctx, *message.Move)
	}
}

// handleClick runs the board's click guard against the current snapshot.
// An accepted click reaches the controller through the board's onPlay.
func (r *Room) handleClick(ctx context.Context, square int) {
	ctx, span := tracer.Start(ctx, "room.handleClick", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.Int("move.square", square),
		attribute.Int("move.from", r.controller.CurrentMove()),
	))
	defer span.End()

	b := board.New(r.controller.CurrentSquares(), r.controller.XIsNext(), r.controller.Play)
	accepted := b.HandleClick(square)
	span.SetAttributes(attribute.Bool("move.accepted", accepted))
	if !accepted {
		slog.DebugContext(ctx, "Ignoring click on occupied cell or finished board", "room.id", r.ID, "square", square)
	}
}

// handleJump moves the controller to an earlier or later snapshot.
func (r *Room) handleJump(ctx context.Context, move int) {
	ctx, span := tracer.Start(ctx, "room.handleJump", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.Int("move.target", move),
	))
	defer span.End()

	if err := r.controller.JumpTo(move); err != nil {
		if errors.Is(err, history.ErrMoveOutOfRange) {
			slog.WarnContext(ctx, "Ignoring jump outside of history", "room.id", r.ID, "move", move, "history.len", r.controller.Len())
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid jump")
	}
}
