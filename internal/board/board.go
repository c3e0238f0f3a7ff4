// Package board turns a snapshot into what the page shows and decides
// whether a click on a cell becomes a move.
package board

import (
	"fmt"

	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/game"
)

// View is everything the page needs to draw the board.
type View struct {
	Squares game.Squares
	Status  string
	Winner  game.PlayerMark
	Next    game.PlayerMark
}

// Move is one entry of the move list.
type Move struct {
	Move        int
	Description string
	Current     bool
}

// Board renders one snapshot. It keeps no state of its own; clicks are
// handed to onPlay.
type Board struct {
	squares game.Squares
	xIsNext bool
	onPlay  func(game.Squares)
}

// New creates a Board for the given snapshot.
func New(squares game.Squares, xIsNext bool, onPlay func(game.Squares)) *Board {
	return &Board{
		squares: squares,
		xIsNext: xIsNext,
		onPlay:  onPlay,
	}
}

// Next returns the mark of the player to move.
func (b *Board) Next() game.PlayerMark {
	if b.xIsNext {
		return game.PlayerX
	}
	return game.PlayerO
}

// Status returns the status line. A full board without a winner still
// reads "Next player".
func (b *Board) Status() string {
	if winner := game.CalculateWinner(b.squares); winner != game.None {
		return fmt.Sprintf("Winner: %s", winner)
	}
	return fmt.Sprintf("Next player: %s", b.Next())
}

// View renders the board.
func (b *Board) View() View {
	return View{
		Squares: b.squares,
		Status:  b.Status(),
		Winner:  game.CalculateWinner(b.squares),
		Next:    b.Next(),
	}
}

// HandleClick plays cell i for the player to move. Clicks on an occupied
// cell, outside the board, or once a winner exists do nothing and return false.
func (b *Board) HandleClick(i int) bool {
	if !game.InBounds(i) || b.squares[i] != game.None || game.CalculateWinner(b.squares) != game.None {
		return false
	}
	b.onPlay(b.squares.With(i, b.Next()))
	return true
}

// MoveDescription returns the label of the history button for move.
func MoveDescription(move int) string {
	if move > 0 {
		return fmt.Sprintf("Go to move #%d", move)
	}
	return "Go to game start"
}

// MoveList returns one entry per history snapshot.
func MoveList(length, current int) []Move {
	moves := make([]Move, length)
	for i := range moves {
		moves[i] = Move{
			Move:        i,
			Description: MoveDescription(i),
			Current:     i == current,
		}
	}
	return moves
}
