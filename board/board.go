package board

import (
	"github.com/domino14/pcfinder/piece"
)

const (
	NumRows = 23
	NumCols = 10
	// HiddenRows rows at the top sit above the visible playfield. Pieces
	// spawn there.
	HiddenRows = 3
	// LastRow is the bottom row.
	LastRow = NumRows - 1
)

// A Board is the well. It is a plain value: assigning it copies it, and two
// boards are == when every tile matches. Row 0 is the topmost hidden row.
//
// Indexing outside the grid panics; callers check bounds first.
type Board [NumRows][NumCols]piece.Piece

func (b *Board) At(row, col int) piece.Piece {
	return b[row][col]
}

func (b *Board) Occupied(row, col int) bool {
	return b[row][col] != piece.None
}

func (b *Board) Set(row, col int, p piece.Piece) {
	b[row][col] = p
}

// WithPlacement returns a copy of the board with p stamped at the given
// pose. The receiver is not modified. It does not check for overlap.
func (b Board) WithPlacement(p piece.Piece, row, col int, rot piece.Rotation) Board {
	for _, o := range p.Offsets(rot) {
		b[row+int(o.Row)][col+int(o.Col)] = p
	}
	return b
}

func (b *Board) RowFull(row int) bool {
	for _, t := range b[row] {
		if t == piece.None {
			return false
		}
	}
	return true
}

func (b *Board) RowEmpty(row int) bool {
	for _, t := range b[row] {
		if t != piece.None {
			return false
		}
	}
	return true
}

// ClearLines removes every full row, shifting the rows above it down, and
// returns how many were removed.
func (b *Board) ClearLines() int {
	cleared := 0
	dst := LastRow
	for src := LastRow; src >= 0; src-- {
		if b.RowFull(src) {
			cleared++
			continue
		}
		if dst != src {
			b[dst] = b[src]
		}
		dst--
	}
	for ; dst >= 0; dst-- {
		b[dst] = [NumCols]piece.Piece{}
	}
	return cleared
}

// Count returns the number of occupied tiles on the whole board.
func (b *Board) Count() int {
	return b.CountRows(0, NumRows)
}

// CountRows counts occupied tiles in rows [from, to).
func (b *Board) CountRows(from, to int) int {
	n := 0
	for r := from; r < to; r++ {
		for _, t := range b[r] {
			if t != piece.None {
				n++
			}
		}
	}
	return n
}

func (b *Board) IsEmpty() bool {
	return *b == Board{}
}

// Height is the number of rows from the bottom up to and including the
// highest occupied tile.
func (b *Board) Height() int {
	for r := 0; r < NumRows; r++ {
		if !b.RowEmpty(r) {
			return NumRows - r
		}
	}
	return 0
}
