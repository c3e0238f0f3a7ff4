package proto

import "ctchen222/Time-Travel-Tic-Tac-Toe/internal/game"

// Message types
const (
	TypeClick  = "click"
	TypeJump   = "jump"
	TypeRender = "render"
	TypeError  = "error"
)

// ClientToServerMessage represents a message from the client to the server.
// Square is set for clicks, Move for jumps.
type ClientToServerMessage struct {
	Type   string `json:"type" validate:"required,oneof=click jump"`
	Square *int   `json:"square,omitempty" validate:"omitempty,min=0,max=8"`
	Move   *int   `json:"move,omitempty" validate:"omitempty,min=0"`
}

// MoveEntry is one "go to move" button.
type MoveEntry struct {
	Move        int    `json:"move"`
	Description string `json:"description"`
	Current     bool   `json:"current,omitempty"`
}

// RenderMessage carries the full derived state of a session.
type RenderMessage struct {
	Type        string          `json:"type"`
	Squares     game.Squares    `json:"squares"`
	Status      string          `json:"status"`
	Winner      game.PlayerMark `json:"winner,omitempty"`
	Next        game.PlayerMark `json:"next"`
	CurrentMove int             `json:"currentMove"`
	Moves       []MoveEntry     `json:"moves"`
}

// ErrorMessage tells the client why the server is closing its session.
type ErrorMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}
