// Package history owns the authoritative move history of a single game and
// the pointer selecting which snapshot is currently shown.
package history

import (
	"errors"

	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/events"
	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/game"
)

// ErrMoveOutOfRange is returned by JumpTo when the index does not address a history entry.
var ErrMoveOutOfRange = errors.New("move out of range")

// Observer is notified synchronously after every state change.
type Observer func(events.Event)

// Controller holds the history of board snapshots and the current move pointer.
// Whose turn it is derives from the pointer and is never stored.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	history     []game.Squares
	currentMove int
	observers   []Observer
}

// NewController creates a controller whose history holds only the empty board.
func NewController() *Controller {
	return &Controller{
		history: []game.Squares{{}},
	}
}

// Play discards every snapshot after the current move, appends next and
// moves the pointer onto it.
func (c *Controller) Play(next game.Squares) {
	discarded := len(c.history) - (c.currentMove + 1)
	c.history = append(c.history[:c.currentMove+1], next)
	c.currentMove = len(c.history) - 1

	c.notify(events.Event{Type: events.Played, Move: c.currentMove, Discarded: discarded})
}

// JumpTo moves the pointer to move without touching the history.
func (c *Controller) JumpTo(move int) error {
	if move < 0 || move >= len(c.history) {
		return ErrMoveOutOfRange
	}
	c.currentMove = move

	c.notify(events.Event{Type: events.Jumped, Move: move})
	return nil
}

// CurrentSquares returns the snapshot selected by the current move pointer.
func (c *Controller) CurrentSquares() game.Squares {
	return c.history[c.currentMove]
}

// CurrentMove returns the current move pointer.
func (c *Controller) CurrentMove() int {
	return c.currentMove
}

// XIsNext reports whether X places the next mark.
func (c *Controller) XIsNext() bool {
	return c.currentMove%2 == 0
}

// Len returns the number of snapshots, including the initial empty board.
func (c *Controller) Len() int {
	return len(c.history)
}

// Snapshot returns the snapshot at index i.
func (c *Controller) Snapshot(i int) (game.Squares, bool) {
	if i < 0 || i >= len(c.history) {
		return game.Squares{}, false
	}
	return c.history[i], true
}

// History returns a copy of every snapshot in order.
func (c *Controller) History() []game.Squares {
	out := make([]game.Squares, len(c.history))
	copy(out, c.history)
	return out
}

// Subscribe registers an observer. Observers run in subscription order.
func (c *Controller) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

func (c *Controller) notify(e events.Event) {
	for _, o := range c.observers {
		o(e)
	}
}
