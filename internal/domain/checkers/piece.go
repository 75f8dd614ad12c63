// Package checkers implements the board, pieces and single-hop move rules of checkers.
package checkers

import (
	"fmt"
	"strings"

	errs "checkers/internal/errors"
)

// Color is the side a piece belongs to.
type Color int

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Opposite returns the other side.
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// ParseColor accepts "white" or "black" in any case.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(s) {
	case "white":
		return White, nil
	case "black":
		return Black, nil
	}
	return White, fmt.Errorf("unknown color %q", s)
}

// Piece is the occupant of a single cell. The zero value is Empty.
// Pieces are values: a move replaces a cell's occupant, it never changes a Piece.
type Piece uint8

const (
	Empty Piece = iota
	WhiteMan
	BlackMan
	WhiteCrowned
	BlackCrowned
)

const crownedSuffix = ":CROWNED"

var labels = map[Piece]string{
	Empty:        "EMPTY",
	WhiteMan:     "WHITE",
	BlackMan:     "BLACK",
	WhiteCrowned: "WHITE" + crownedSuffix,
	BlackCrowned: "BLACK" + crownedSuffix,
}

var glyphs = map[Piece]string{
	Empty:        "·",
	WhiteMan:     "⛀",
	WhiteCrowned: "⛁",
	BlackMan:     "⛂",
	BlackCrowned: "⛃",
}

// NewPiece returns an uncrowned piece of the given color.
func NewPiece(c Color) Piece {
	if c == White {
		return WhiteMan
	}
	return BlackMan
}

// FromLabel parses a serialized label such as "WHITE" or "BLACK:CROWNED".
func FromLabel(label string) (Piece, error) {
	for p, l := range labels {
		if l == label {
			return p, nil
		}
	}
	return Empty, fmt.Errorf("%w: %q", errs.ErrParse, label)
}

// Label is the inverse of FromLabel.
func (p Piece) Label() string {
	if l, ok := labels[p]; ok {
		return l
	}
	return labels[Empty]
}

// String returns the display glyph of the piece. It is not a serialization format.
func (p Piece) String() string {
	if g, ok := glyphs[p]; ok {
		return g
	}
	return glyphs[Empty]
}

func (p Piece) IsEmpty() bool {
	return p == Empty
}

// Color reports the piece color; ok is false for an empty cell.
func (p Piece) Color() (c Color, ok bool) {
	switch p {
	case WhiteMan, WhiteCrowned:
		return White, true
	case BlackMan, BlackCrowned:
		return Black, true
	}
	return White, false
}

func (p Piece) IsOfColor(c Color) bool {
	own, ok := p.Color()
	return ok && own == c
}

// IsOwnPiece reports whether the piece belongs to the player moving with color c.
func (p Piece) IsOwnPiece(c Color) bool {
	return p.IsOfColor(c)
}

// IsOfOppositeColor is false when either piece is empty.
func (p Piece) IsOfOppositeColor(other Piece) bool {
	mine, ok := p.Color()
	if !ok {
		return false
	}
	theirs, ok := other.Color()
	return ok && mine != theirs
}

func (p Piece) IsCrowned() bool {
	return p == WhiteCrowned || p == BlackCrowned
}

// Crowned returns the crowned version of p. Empty stays empty.
func (p Piece) Crowned() Piece {
	switch p {
	case WhiteMan:
		return WhiteCrowned
	case BlackMan:
		return BlackCrowned
	}
	return p
}

func (p Piece) MarshalText() ([]byte, error) {
	return []byte(p.Label()), nil
}

func (p *Piece) UnmarshalText(text []byte) error {
	parsed, err := FromLabel(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
