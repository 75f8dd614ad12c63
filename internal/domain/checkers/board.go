package checkers

import (
	"encoding/json"
	"fmt"

	errs "checkers/internal/errors"
)

// Size is the number of rows and columns on the board.
const Size = 8

// Board is a fixed 8x8 row-major grid of pieces.
// It performs no locking; callers serialize access to a shared board.
type Board struct {
	cells [Size][Size]Piece
}

// NewBoard returns a board in the standard starting layout:
// black men on the dark cells of rows 0-2, white men on rows 5-7.
func NewBoard() *Board {
	b := &Board{}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if (r+c)%2 == 0 {
				continue
			}
			switch {
			case r < 3:
				b.cells[r][c] = BlackMan
			case r > 4:
				b.cells[r][c] = WhiteMan
			}
		}
	}
	return b
}

// DecodeBoard restores a board from a grid produced by Labels.
func DecodeBoard(labels [][]string) (*Board, error) {
	if len(labels) != Size {
		return nil, fmt.Errorf("%w: board has %d rows, want %d", errs.ErrParse, len(labels), Size)
	}
	b := &Board{}
	for r, row := range labels {
		if len(row) != Size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", errs.ErrParse, r, len(row), Size)
		}
		for c, label := range row {
			p, err := FromLabel(label)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", r, c, err)
			}
			b.cells[r][c] = p
		}
	}
	return b, nil
}

// Labels serializes the board as a row-major grid of piece labels.
func (b *Board) Labels() [][]string {
	grid := make([][]string, Size)
	for r := range b.cells {
		grid[r] = make([]string, Size)
		for c, p := range b.cells[r] {
			grid[r][c] = p.Label()
		}
	}
	return grid
}

func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Labels())
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var grid [][]string
	if err := json.Unmarshal(data, &grid); err != nil {
		return err
	}
	decoded, err := DecodeBoard(grid)
	if err != nil {
		return err
	}
	*b = *decoded
	return nil
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

func inRange(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

func checkCell(row, col int) error {
	if !inRange(row, col) {
		return fmt.Errorf("%w: (%d,%d)", errs.ErrCellOutOfRange, row, col)
	}
	return nil
}

// Piece returns the occupant of the cell at row, col.
func (b *Board) Piece(row, col int) (Piece, error) {
	if err := checkCell(row, col); err != nil {
		return Empty, err
	}
	return b.cells[row][col], nil
}

// SetPiece overwrites a cell. No game rules are checked here.
func (b *Board) SetPiece(row, col int, p Piece) error {
	if err := checkCell(row, col); err != nil {
		return err
	}
	b.cells[row][col] = p
	return nil
}

// Count returns how many pieces of color c are on the board.
func (b *Board) Count(c Color) int {
	n := 0
	for r := range b.cells {
		for _, p := range b.cells[r] {
			if p.IsOfColor(c) {
				n++
			}
		}
	}
	return n
}
