package game

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// BoardSize is the number of cells on the board.
	BoardSize = 9
)

// Squares is a snapshot of the board in row-major order, index 0 is the top-left cell.
// It is an array, so assigning or passing it copies every cell.
type Squares [BoardSize]PlayerMark

// Lines holds the 8 winning triples: rows, columns, then diagonals.
var Lines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// CalculateWinner returns the mark that fills a winning triple, or None.
// A full board without a triple also returns None.
func CalculateWinner(squares Squares) PlayerMark {
	for _, line := range Lines {
		a, b, c := squares[line[0]], squares[line[1]], squares[line[2]]
		if a != None && a == b && b == c {
			return a
		}
	}
	return None
}

// IsBoardFull checks if every cell holds a mark.
func IsBoardFull(squares Squares) bool {
	for _, cell := range squares {
		if cell == None {
			return false
		}
	}
	return true
}

// InBounds reports whether i is a valid cell index.
func InBounds(i int) bool {
	return i >= 0 && i < BoardSize
}

// With returns a copy of the snapshot with cell i set to mark.
// The receiver is left untouched.
func (s Squares) With(i int, mark PlayerMark) Squares {
	next := s
	next[i] = mark
	return next
}

// MarkForMove returns the mark to place at the given history index.
// X moves on even indexes, O on odd ones.
func MarkForMove(move int) PlayerMark {
	if move%2 == 0 {
		return PlayerX
	}
	return PlayerO
}
