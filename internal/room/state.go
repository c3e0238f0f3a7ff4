package room

import (
	"context"
	"log/slog"

	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/board"
	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/events"
	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/game"
	"ctchen222/Time-Travel-Tic-Tac-Toe/pkg/proto"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

var meter = otel.Meter("room")

var (
	movesPlayed      = counter("tictactoe.moves.played", "Snapshots appended to a game history.")
	movesJumped      = counter("tictactoe.moves.jumped", "Jumps to another history entry.")
	gamesWon         = counter("tictactoe.games.won", "Moves that completed a winning line.")
	historyDiscarded = counter("tictactoe.history.discarded", "Future snapshots dropped by playing from an earlier move.")
)

func counter(name, description string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		otel.Handle(err)
		return noop.Int64Counter{}
	}
	return c
}

// onEvent records the change and re-renders the session.
func (r *Room) onEvent(ctx context.Context, e events.Event) {
	ctx, span := tracer.Start(ctx, "room.onEvent", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.String("event.type", string(e.Type)),
		attribute.Int("event.move", e.Move),
	))
	defer span.End()

	switch e.Type {
	case events.Played:
		movesPlayed.Add(ctx, 1)
		if e.Discarded > 0 {
			historyDiscarded.Add(ctx, int64(e.Discarded))
			slog.DebugContext(ctx, "Playing from an earlier move discarded the recorded future", "room.id", r.ID, "discarded", e.Discarded)
		}

		squares := r.controller.CurrentSquares()
		if winner := game.CalculateWinner(squares); winner != game.None {
			gamesWon.Add(ctx, 1, metric.WithAttributes(attribute.String("winner", string(winner))))
			slog.InfoContext(ctx, "Game won", "room.id", r.ID, "winner", winner, "move", e.Move)
		} else if game.IsBoardFull(squares) {
			// Draws are not reported to the player; the status keeps showing the next player.
			span.SetAttributes(attribute.Bool("game.board_full", true))
			slog.InfoContext(ctx, "Board is full without a winner", "room.id", r.ID, "move", e.Move)
		}

	case events.Jumped:
		movesJumped.Add(ctx, 1)
	}

	r.render(ctx)
}

// render sends the current derived state to the player.
func (r *Room) render(ctx context.Context) {
	if err := r.Send(r.renderMessage()); err != nil {
		span := trace.SpanFromContext(ctx)
		slog.ErrorContext(ctx, "error sending render to player", "room.id", r.ID, "player.id", r.Player.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error sending render")
	}
}

// renderMessage reads every value from the controller; nothing is cached between renders.
func (r *Room) renderMessage() *proto.RenderMessage {
	c := r.controller
	view := board.New(c.CurrentSquares(), c.XIsNext(), c.Play).View()

	moves := board.MoveList(c.Len(), c.CurrentMove())
	entries := make([]proto.MoveEntry, len(moves))
	for i, m := range moves {
		entries[i] = proto.MoveEntry{
			Move:        m.Move,
			Description: m.Description,
			Current:     m.Current,
		}
	}

	return &proto.RenderMessage{
		Type:        proto.TypeRender,
		Squares:     view.Squares,
		Status:      view.Status,
		Winner:      view.Winner,
		Next:        view.Next,
		CurrentMove: c.CurrentMove(),
		Moves:       entries,
	}
}
