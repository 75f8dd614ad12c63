package checkers

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	errs "checkers/internal/errors"
)

type placement struct {
	row, col int
	piece    Piece
}

// boardWith returns an empty board holding only the given pieces.
func boardWith(t *testing.T, pieces ...placement) *Board {
	t.Helper()
	b := &Board{}
	for _, p := range pieces {
		if err := b.SetPiece(p.row, p.col, p.piece); err != nil {
			t.Fatalf("SetPiece(%d, %d) error: %v", p.row, p.col, err)
		}
	}
	return b
}

func TestMoveInfo(t *testing.T) {
	tests := []struct {
		name                           string
		pieces                         []placement
		fromRow, fromCol, toRow, toCol int
		want                           MoveInfo
	}{
		{
			name:    "from empty",
			pieces:  nil,
			fromRow: 5, fromCol: 4, toRow: 4, toCol: 3,
			want: MoveInfo{Kind: Invalid, Reason: FromEmpty},
		},
		{
			name:    "white forward step",
			pieces:  []placement{{5, 4, WhiteMan}},
			fromRow: 5, fromCol: 4, toRow: 4, toCol: 3,
			want: MoveInfo{Kind: Step},
		},
		{
			name:    "white backward step",
			pieces:  []placement{{5, 4, WhiteMan}},
			fromRow: 5, fromCol: 4, toRow: 6, toCol: 3,
			want: MoveInfo{Kind: Invalid, Reason: InvalidDistance},
		},
		{
			name:    "black forward step",
			pieces:  []placement{{2, 3, BlackMan}},
			fromRow: 2, fromCol: 3, toRow: 3, toCol: 2,
			want: MoveInfo{Kind: Step},
		},
		{
			name:    "black backward step",
			pieces:  []placement{{2, 3, BlackMan}},
			fromRow: 2, fromCol: 3, toRow: 1, toCol: 4,
			want: MoveInfo{Kind: Invalid, Reason: InvalidDistance},
		},
		{
			name:    "man cannot slide two cells",
			pieces:  []placement{{5, 4, WhiteMan}},
			fromRow: 5, fromCol: 4, toRow: 3, toCol: 2,
			want: MoveInfo{Kind: Invalid, Reason: InvalidDistance},
		},
		{
			name:    "zero length",
			pieces:  []placement{{5, 4, WhiteCrowned}},
			fromRow: 5, fromCol: 4, toRow: 5, toCol: 4,
			want: MoveInfo{Kind: Invalid, Reason: InvalidDistance},
		},
		{
			name:    "not diagonal",
			pieces:  []placement{{5, 4, WhiteCrowned}},
			fromRow: 5, fromCol: 4, toRow: 3, toCol: 4,
			want: MoveInfo{Kind: Invalid, Reason: InvalidDistance},
		},
		{
			name:    "knight shape",
			pieces:  []placement{{5, 4, WhiteMan}},
			fromRow: 5, fromCol: 4, toRow: 3, toCol: 3,
			want: MoveInfo{Kind: Invalid, Reason: InvalidDistance},
		},
		{
			name:    "black captures forward",
			pieces:  []placement{{2, 3, BlackMan}, {3, 4, WhiteMan}},
			fromRow: 2, fromCol: 3, toRow: 4, toCol: 5,
			want: MoveInfo{Kind: Capture, Victim: Square{Row: 3, Col: 4}},
		},
		{
			name:    "man captures backward",
			pieces:  []placement{{4, 3, WhiteMan}, {5, 4, BlackMan}},
			fromRow: 4, fromCol: 3, toRow: 6, toCol: 5,
			want: MoveInfo{Kind: Capture, Victim: Square{Row: 5, Col: 4}},
		},
		{
			name:    "man cannot jump own piece",
			pieces:  []placement{{5, 4, WhiteMan}, {4, 3, WhiteMan}},
			fromRow: 5, fromCol: 4, toRow: 3, toCol: 2,
			want: MoveInfo{Kind: Invalid, Reason: InvalidVictim},
		},
		{
			name:    "man cannot long jump",
			pieces:  []placement{{5, 0, WhiteMan}, {3, 2, BlackMan}},
			fromRow: 5, fromCol: 0, toRow: 2, toCol: 3,
			want: MoveInfo{Kind: Invalid, Reason: InvalidDistance},
		},
		{
			name:    "destination occupied by opponent",
			pieces:  []placement{{5, 4, WhiteMan}, {4, 3, BlackMan}},
			fromRow: 5, fromCol: 4, toRow: 4, toCol: 3,
			want: MoveInfo{Kind: Invalid, Reason: ToOccupied},
		},
		{
			name:    "destination occupied before distance check",
			pieces:  []placement{{5, 4, WhiteMan}, {5, 6, WhiteMan}},
			fromRow: 5, fromCol: 4, toRow: 5, toCol: 6,
			want: MoveInfo{Kind: Invalid, Reason: ToOccupied},
		},
		{
			name:    "crowned slides along clear diagonal",
			pieces:  []placement{{7, 0, WhiteCrowned}},
			fromRow: 7, fromCol: 0, toRow: 3, toCol: 4,
			want: MoveInfo{Kind: Step},
		},
		{
			name:    "crowned slides backward",
			pieces:  []placement{{2, 5, WhiteCrowned}},
			fromRow: 2, fromCol: 5, toRow: 6, toCol: 1,
			want: MoveInfo{Kind: Step},
		},
		{
			name:    "crowned blocked by own piece",
			pieces:  []placement{{7, 0, WhiteCrowned}, {5, 2, WhiteMan}},
			fromRow: 7, fromCol: 0, toRow: 3, toCol: 4,
			want: MoveInfo{Kind: Invalid, Reason: InvalidVictim},
		},
		{
			name:    "flying king captures",
			pieces:  []placement{{7, 0, WhiteCrowned}, {5, 2, BlackMan}},
			fromRow: 7, fromCol: 0, toRow: 3, toCol: 4,
			want: MoveInfo{Kind: Capture, Victim: Square{Row: 5, Col: 2}},
		},
		{
			name:    "flying king captures crowned piece next to destination",
			pieces:  []placement{{0, 7, BlackCrowned}, {5, 2, WhiteCrowned}},
			fromRow: 0, fromCol: 7, toRow: 6, toCol: 1,
			want: MoveInfo{Kind: Capture, Victim: Square{Row: 5, Col: 2}},
		},
		{
			name:    "two opponents on path for king",
			pieces:  []placement{{7, 0, WhiteCrowned}, {6, 1, BlackMan}, {4, 3, BlackMan}},
			fromRow: 7, fromCol: 0, toRow: 3, toCol: 4,
			want: MoveInfo{Kind: Invalid, Reason: InvalidDistance},
		},
		{
			name:    "two opponents on path for man",
			pieces:  []placement{{7, 0, WhiteMan}, {6, 1, BlackMan}, {5, 2, BlackMan}},
			fromRow: 7, fromCol: 0, toRow: 4, toCol: 3,
			want: MoveInfo{Kind: Invalid, Reason: InvalidDistance},
		},
		{
			name:    "own piece after opponent",
			pieces:  []placement{{7, 0, WhiteCrowned}, {6, 1, BlackMan}, {5, 2, WhiteMan}},
			fromRow: 7, fromCol: 0, toRow: 3, toCol: 4,
			want: MoveInfo{Kind: Invalid, Reason: InvalidVictim},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardWith(t, tt.pieces...)
			got, err := b.MoveInfo(tt.fromRow, tt.fromCol, tt.toRow, tt.toCol)
			if err != nil {
				t.Fatalf("MoveInfo() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("MoveInfo(%d, %d, %d, %d) mismatch (-want +got):\n%s",
					tt.fromRow, tt.fromCol, tt.toRow, tt.toCol, diff)
			}
		})
	}
}

func TestMoveInfo_ZeroLengthFromEmptyCellIsFromEmpty(t *testing.T) {
	b := &Board{}
	got, err := b.MoveInfo(4, 4, 4, 4)
	if err != nil {
		t.Fatalf("MoveInfo() error: %v", err)
	}
	if got.Reason != FromEmpty {
		t.Errorf("MoveInfo(4, 4, 4, 4).Reason = %s; want from_empty", got.Reason)
	}
}

func TestMoveInfo_NonDiagonalAlwaysInvalidDistance(t *testing.T) {
	b := boardWith(t, placement{3, 3, BlackCrowned})
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if r == 3 && c == 3 {
				continue
			}
			dr, dc := abs(r-3), abs(c-3)
			if dr == dc {
				continue
			}
			got, err := b.MoveInfo(3, 3, r, c)
			if err != nil {
				t.Fatalf("MoveInfo(3, 3, %d, %d) error: %v", r, c, err)
			}
			if got.Kind != Invalid || got.Reason != InvalidDistance {
				t.Errorf("MoveInfo(3, 3, %d, %d) = %v/%s; want invalid/invalid_distance", r, c, got.Kind, got.Reason)
			}
		}
	}
}

func TestMoveInfo_Pure(t *testing.T) {
	b := NewBoard()
	before := *b

	first, err := b.MoveInfo(5, 0, 4, 1)
	if err != nil {
		t.Fatalf("MoveInfo() error: %v", err)
	}
	second, _ := b.MoveInfo(5, 0, 4, 1)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated MoveInfo differs (-first +second):\n%s", diff)
	}
	if *b != before {
		t.Error("MoveInfo modified the board")
	}
}

func TestMoveInfo_OutOfRange(t *testing.T) {
	b := NewBoard()
	coords := [][4]int{
		{-1, 0, 0, 1},
		{5, 0, 4, -1},
		{5, 6, 4, 8},
		{8, 8, 7, 7},
	}
	for _, c := range coords {
		if _, err := b.MoveInfo(c[0], c[1], c[2], c[3]); !errors.Is(err, errs.ErrCellOutOfRange) {
			t.Errorf("MoveInfo(%v) error = %v; want ErrCellOutOfRange", c, err)
		}
	}
}

func TestApply(t *testing.T) {
	t.Run("step", func(t *testing.T) {
		b := boardWith(t, placement{5, 4, WhiteMan})
		info, _ := b.MoveInfo(5, 4, 4, 3)
		if err := b.Apply(5, 4, 4, 3, info); err != nil {
			t.Fatalf("Apply() error: %v", err)
		}
		want := boardWith(t, placement{4, 3, WhiteMan})
		if *b != *want {
			t.Errorf("board after step mismatch (-want +got):\n%s", cmp.Diff(want.Labels(), b.Labels()))
		}
	})

	t.Run("capture", func(t *testing.T) {
		b := boardWith(t, placement{7, 0, WhiteCrowned}, placement{5, 2, BlackMan})
		info, _ := b.MoveInfo(7, 0, 3, 4)
		if err := b.Apply(7, 0, 3, 4, info); err != nil {
			t.Fatalf("Apply() error: %v", err)
		}
		want := boardWith(t, placement{3, 4, WhiteCrowned})
		if *b != *want {
			t.Errorf("board after capture mismatch (-want +got):\n%s", cmp.Diff(want.Labels(), b.Labels()))
		}
	})

	t.Run("invalid", func(t *testing.T) {
		b := boardWith(t, placement{5, 4, WhiteMan})
		before := *b
		info, _ := b.MoveInfo(5, 4, 6, 3)
		if err := b.Apply(5, 4, 6, 3, info); !errors.Is(err, errs.ErrInvalidMove) {
			t.Errorf("Apply() error = %v; want ErrInvalidMove", err)
		}
		if *b != before {
			t.Error("Apply() of an invalid move modified the board")
		}
	})

	t.Run("out of range victim", func(t *testing.T) {
		b := boardWith(t, placement{5, 4, WhiteMan})
		before := *b
		info := MoveInfo{Kind: Capture, Victim: Square{Row: 9, Col: 9}}
		if err := b.Apply(5, 4, 3, 2, info); !errors.Is(err, errs.ErrCellOutOfRange) {
			t.Errorf("Apply() error = %v; want ErrCellOutOfRange", err)
		}
		if *b != before {
			t.Error("Apply() with a bad victim modified the board")
		}
	})
}
