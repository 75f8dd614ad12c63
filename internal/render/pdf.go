package render

import (
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"checkers/internal/domain/checkers"
)

const (
	cellSize = 20.0 // mm
	marginX  = 25.0
	marginY  = 40.0
)

type rgb struct{ r, g, b int }

var (
	lightCell = rgb{240, 217, 181}
	darkCell  = rgb{181, 136, 99}
	whiteFill = rgb{250, 250, 250}
	blackFill = rgb{30, 30, 30}
	crownInk  = rgb{200, 160, 0}
)

// PDF writes a one-page diagram of the board to w.
func PDF(w io.Writer, b *checkers.Board, title string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(marginX, marginY-15, title)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(90, 90, 90)
	for i := 0; i < checkers.Size; i++ {
		label := strconv.Itoa(i)
		pdf.Text(marginX+float64(i)*cellSize+cellSize/2-1, marginY-3, label)
		pdf.Text(marginX-6, marginY+float64(i)*cellSize+cellSize/2+1, label)
	}

	pdf.SetLineWidth(0.3)
	for r := 0; r < checkers.Size; r++ {
		for c := 0; c < checkers.Size; c++ {
			x := marginX + float64(c)*cellSize
			y := marginY + float64(r)*cellSize

			fill := lightCell
			if (r+c)%2 == 1 {
				fill = darkCell
			}
			pdf.SetFillColor(fill.r, fill.g, fill.b)
			pdf.Rect(x, y, cellSize, cellSize, "F")

			p, _ := b.Piece(r, c)
			drawPiece(pdf, p, x+cellSize/2, y+cellSize/2)
		}
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.Rect(marginX, marginY, cellSize*checkers.Size, cellSize*checkers.Size, "D")

	return pdf.Output(w)
}

func drawPiece(pdf *gofpdf.Fpdf, p checkers.Piece, cx, cy float64) {
	color, ok := p.Color()
	if !ok {
		return
	}

	fill := whiteFill
	if color == checkers.Black {
		fill = blackFill
	}
	pdf.SetFillColor(fill.r, fill.g, fill.b)
	pdf.SetDrawColor(0, 0, 0)
	pdf.Circle(cx, cy, cellSize*0.38, "FD")

	if p.IsCrowned() {
		pdf.SetDrawColor(crownInk.r, crownInk.g, crownInk.b)
		pdf.SetLineWidth(1.2)
		pdf.Circle(cx, cy, cellSize*0.2, "D")
		pdf.SetLineWidth(0.3)
	}
}
