package player

import "time"

//go:generate mockgen -source=player.go -destination=mocks/mock_connection.go -package=mocks

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Status is the connection state of a player.
type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

// Player is the browser page driving one session.
type Player struct {
	ID          string
	Conn        Connection
	Status      Status
	ConnectedAt time.Time
}

// NewPlayer creates a connected player.
func NewPlayer(id string, conn Connection) *Player {
	return &Player{
		ID:          id,
		Conn:        conn,
		Status:      StatusConnected,
		ConnectedAt: time.Now(),
	}
}
