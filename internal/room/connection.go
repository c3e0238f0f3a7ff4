package room

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gorilla/websocket"
)

// Send writes message to the player as a JSON text frame.
func (r *Room) Send(message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := r.Player.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

// ReadPump pumps messages from the websocket connection to the room's
// incoming channel and closes the channel when the connection ends.
func (r *Room) ReadPump(ctx context.Context) {
	defer close(r.incoming)

	for {
		_, msg, err := r.Player.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "Player connection error", "player.id", r.Player.ID, "room.id", r.ID, "error", err)
			} else {
				slog.DebugContext(ctx, "Player connection closed", "player.id", r.Player.ID, "room.id", r.ID, "error", err)
			}
			return
		}

		select {
		case r.incoming <- msg:
		case <-r.done:
			return
		}
	}
}
