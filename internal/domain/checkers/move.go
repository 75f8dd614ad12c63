package checkers

import (
	"fmt"

	errs "checkers/internal/errors"
)

// MoveKind classifies a single hop.
type MoveKind int

const (
	Invalid MoveKind = iota
	Step
	Capture
)

func (k MoveKind) String() string {
	switch k {
	case Step:
		return "step"
	case Capture:
		return "capture"
	}
	return "invalid"
}

// Reason explains why a hop is Invalid.
type Reason int

const (
	NoReason Reason = iota
	FromEmpty
	ToOccupied
	InvalidDistance
	InvalidVictim
)

func (r Reason) String() string {
	switch r {
	case FromEmpty:
		return "from_empty"
	case ToOccupied:
		return "to_occupied"
	case InvalidDistance:
		return "invalid_distance"
	case InvalidVictim:
		return "invalid_victim"
	}
	return ""
}

// Square addresses one cell.
type Square struct {
	Row int `json:"row" bson:"row"`
	Col int `json:"col" bson:"col"`
}

// MoveInfo is the outcome of a legality check. Reason is set only for Invalid,
// Victim only for Capture.
type MoveInfo struct {
	Kind   MoveKind
	Reason Reason
	Victim Square
}

func invalid(r Reason) MoveInfo {
	return MoveInfo{Kind: Invalid, Reason: r}
}

func (m MoveInfo) IsValid() bool {
	return m.Kind != Invalid
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// forward is the row direction an uncrowned piece of color c advances in.
func forward(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

// MoveInfo classifies the hop from (fromRow, fromCol) to (toRow, toCol).
// Illegal hops are reported through the result; the error is set only when a
// coordinate lies outside the board.
func (b *Board) MoveInfo(fromRow, fromCol, toRow, toCol int) (MoveInfo, error) {
	piece, err := b.Piece(fromRow, fromCol)
	if err != nil {
		return MoveInfo{}, err
	}
	if piece.IsEmpty() {
		return invalid(FromEmpty), nil
	}

	target, err := b.Piece(toRow, toCol)
	if err != nil {
		return MoveInfo{}, err
	}
	// a piece never occupies its own destination
	if fromRow == toRow && fromCol == toCol {
		return invalid(InvalidDistance), nil
	}
	if !target.IsEmpty() {
		return invalid(ToOccupied), nil
	}

	dr := toRow - fromRow
	dc := toCol - fromCol
	if abs(dr) != abs(dc) {
		return invalid(InvalidDistance), nil
	}

	distance := abs(dr)
	dirR, dirC := sign(dr), sign(dc)

	var victim Square
	hasVictim := false
	for i := 1; i < distance; i++ {
		r, c := fromRow+i*dirR, fromCol+i*dirC
		p := b.cells[r][c]
		if p.IsEmpty() {
			continue
		}
		if !p.IsOfOppositeColor(piece) {
			return invalid(InvalidVictim), nil
		}
		// one victim per hop, even for flying kings
		if hasVictim {
			return invalid(InvalidDistance), nil
		}
		hasVictim = true
		victim = Square{Row: r, Col: c}
	}

	crowned := piece.IsCrowned()
	if !hasVictim {
		if crowned {
			return MoveInfo{Kind: Step}, nil
		}
		color, _ := piece.Color()
		if distance == 1 && dirR == forward(color) {
			return MoveInfo{Kind: Step}, nil
		}
		return invalid(InvalidDistance), nil
	}

	if crowned || distance == 2 {
		return MoveInfo{Kind: Capture, Victim: victim}, nil
	}
	return invalid(InvalidDistance), nil
}

// Apply performs a hop previously classified by MoveInfo: the piece moves to the
// destination and, for a capture, the victim is removed. All coordinates are
// checked before the board is touched.
func (b *Board) Apply(fromRow, fromCol, toRow, toCol int, info MoveInfo) error {
	if !info.IsValid() {
		return fmt.Errorf("%w: %s", errs.ErrInvalidMove, info.Reason)
	}
	if err := checkCell(fromRow, fromCol); err != nil {
		return err
	}
	if err := checkCell(toRow, toCol); err != nil {
		return err
	}
	if info.Kind == Capture {
		if err := checkCell(info.Victim.Row, info.Victim.Col); err != nil {
			return err
		}
	}

	piece := b.cells[fromRow][fromCol]
	b.cells[fromRow][fromCol] = Empty
	b.cells[toRow][toCol] = piece
	if info.Kind == Capture {
		b.cells[info.Victim.Row][info.Victim.Col] = Empty
	}
	return nil
}
