// Package render draws a board for people: a glyph grid for chat and terminals,
// and a printable PDF diagram.
package render

import (
	"strconv"
	"strings"

	"checkers/internal/domain/checkers"
)

// Text lays the board out row by row using piece glyphs, with row and column
// indices on the edges.
func Text(b *checkers.Board) string {
	var sb strings.Builder
	sb.WriteString("  ")
	for c := 0; c < checkers.Size; c++ {
		sb.WriteString(" ")
		sb.WriteString(strconv.Itoa(c))
	}
	sb.WriteString("\n")

	for r := 0; r < checkers.Size; r++ {
		sb.WriteString(strconv.Itoa(r))
		sb.WriteString(" ")
		for c := 0; c < checkers.Size; c++ {
			p, _ := b.Piece(r, c)
			sb.WriteString(" ")
			sb.WriteString(p.String())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
