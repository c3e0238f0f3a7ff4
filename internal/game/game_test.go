package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func board(cells string) Squares {
	var s Squares
	for i, c := range cells {
		switch c {
		case 'X':
			s[i] = PlayerX
		case 'O':
			s[i] = PlayerO
		}
	}
	return s
}

func TestCalculateWinner(t *testing.T) {
	tests := []struct {
		name    string
		squares Squares
		want    PlayerMark
	}{
		{name: "No winner - empty board", squares: board("........."), want: None},
		{name: "No winner - partial board", squares: board("X...O...."), want: None},
		{name: "X wins - top row", squares: board("XXX.OO..."), want: PlayerX},
		{name: "O wins - middle row", squares: board("X.XOOOX.."), want: PlayerO},
		{name: "X wins - bottom row", squares: board("OO....XXX"), want: PlayerX},
		{name: "O wins - first column", squares: board("OX.OX.O.X"), want: PlayerO},
		{name: "X wins - second column", squares: board("OX..XO.X."), want: PlayerX},
		{name: "O wins - third column", squares: board("X.OX.O..O"), want: PlayerO},
		{name: "X wins - main diagonal", squares: board("X.O.XO..X"), want: PlayerX},
		{name: "O wins - anti-diagonal", squares: board("X.O.O.OX."), want: PlayerO},
		{name: "No winner - full board", squares: board("XOXXOOOXX"), want: None},
		{name: "Mixed triple is not a win", squares: board("XXO......"), want: None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateWinner(tt.squares))
		})
	}
}

func TestCalculateWinner_EveryLine(t *testing.T) {
	for _, mark := range []PlayerMark{PlayerX, PlayerO} {
		for _, line := range Lines {
			var s Squares
			for _, i := range line {
				s[i] = mark
			}
			assert.Equal(t, mark, CalculateWinner(s), "line %v", line)
		}
	}
}

func TestIsBoardFull(t *testing.T) {
	assert.False(t, IsBoardFull(board(".........")))
	assert.False(t, IsBoardFull(board("XOXXOOOX.")))
	assert.True(t, IsBoardFull(board("XOXXOOOXX")))
	assert.True(t, IsBoardFull(board("XXXOOXOXO")))
}

func TestSquaresWith_CopyOnWrite(t *testing.T) {
	before := board("X........")
	after := before.With(4, PlayerO)

	assert.Equal(t, None, before[4], "original snapshot must not change")
	assert.Equal(t, PlayerO, after[4])
	assert.Equal(t, PlayerX, after[0])
}

func TestMarkForMove(t *testing.T) {
	assert.Equal(t, PlayerX, MarkForMove(0))
	assert.Equal(t, PlayerO, MarkForMove(1))
	assert.Equal(t, PlayerX, MarkForMove(2))
	assert.Equal(t, PlayerO, MarkForMove(7))
}

func TestInBounds(t *testing.T) {
	assert.True(t, InBounds(0))
	assert.True(t, InBounds(8))
	assert.False(t, InBounds(-1))
	assert.False(t, InBounds(9))
}
