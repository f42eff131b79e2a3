package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Mark is the symbol a player plays with. The zero value is an empty cell.
type Mark string

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	EmptyCell Mark = ""
)

const BoardSize = 3

var (
	ErrMalformedCell = errors.New("malformed cell")

	// WinLines lists every row, column and diagonal as (row, col) pairs.
	// Lines are scanned in this order and the first complete one wins.
	WinLines = [8][3][2]int{
		{{0, 0}, {0, 1}, {0, 2}},
		{{1, 0}, {1, 1}, {1, 2}},
		{{2, 0}, {2, 1}, {2, 2}},
		{{0, 0}, {1, 0}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}},
		{{0, 2}, {1, 2}, {2, 2}},
		{{0, 0}, {1, 1}, {2, 2}},
		{{0, 2}, {1, 1}, {2, 0}},
	}
)

// Opponent returns the other player's mark.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

type Board [BoardSize][BoardSize]Mark

// Result is the terminal outcome of a round.
type Result struct {
	Winner Mark `json:"winner,omitempty"`
	Draw   bool `json:"draw,omitempty"`
}

func (that Result) String() string {
	if that.Draw {
		return "draw"
	}

	return "player " + string(that.Winner) + " wins"
}

// InBounds reports whether row and col address a cell of the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// DetermineGameResult returns the terminal result of the board, or nil while
// the game can continue.
func (that *Board) DetermineGameResult() *Result {
	for _, line := range WinLines {
		a := that[line[0][0]][line[0][1]]
		b := that[line[1][0]][line[1][1]]
		c := that[line[2][0]][line[2][1]]

		if a != EmptyCell && a == b && b == c {
			return &Result{Winner: a}
		}
	}

	// the game will continue until all the squares are full
	if !that.IsFull() {
		return nil
	}

	return &Result{Draw: true}
}

func (that *Board) IsFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == EmptyCell {
				return false
			}
		}
	}

	return true
}

// Count returns how many cells hold mark.
func (that *Board) Count(mark Mark) int {
	var n int
	for _, row := range that {
		for _, cell := range row {
			if cell == mark {
				n++
			}
		}
	}

	return n
}

// ParseCell parses the "row,col" form value submitted by the board page.
func ParseCell(value string) (int, int, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedCell, value)
	}

	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: row %q", ErrMalformedCell, parts[0])
	}

	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: col %q", ErrMalformedCell, parts[1])
	}

	return row, col, nil
}
