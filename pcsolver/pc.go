package pcsolver

import (
	"strings"

	"github.com/cespare/xxhash"
	"github.com/samber/lo"

	"github.com/domino14/pcfinder/board"
	"github.com/domino14/pcfinder/move"
	"github.com/domino14/pcfinder/movegen"
)

// A Pc is one perfect-clear route: the board it starts from and the actions
// that clear it. Row numbers in each placement refer to the board as it
// stands when that placement is made, after any earlier clears.
type Pc struct {
	Start      board.Board
	Height     int
	Placements []move.Placement
}

// Pieces is the number of pieces placed, holds excluded.
func (p Pc) Pieces() int {
	return lo.CountBy(p.Placements, func(pl move.Placement) bool { return !pl.Hold })
}

// Picture replays the route and draws every placed piece where it sits on
// the starting board, undoing the row shifts of intermediate line clears.
// Routes that place the same pieces in the same cells have the same
// picture no matter the order.
func (p Pc) Picture() board.Board {
	pic := p.Start
	cur := p.Start
	var rowMap [board.NumRows]int
	for r := range rowMap {
		rowMap[r] = r
	}
	for _, pl := range p.Placements {
		if pl.Hold {
			continue
		}
		pose := movegen.FromPlacement(pl)
		for _, c := range pose.Cells() {
			if orig := rowMap[c.Row]; orig >= 0 {
				pic[orig][c.Col] = pl.Piece
			}
		}
		cur = cur.WithPlacement(pl.Piece, int(pl.Row), int(pl.Col), pl.Rot)
		rowMap = shiftRowMap(&cur, rowMap)
		cur.ClearLines()
	}
	return pic
}

// shiftRowMap follows the compaction ClearLines is about to do. Rows that
// enter at the top had no place on the starting board and map to -1.
func shiftRowMap(b *board.Board, rowMap [board.NumRows]int) [board.NumRows]int {
	var out [board.NumRows]int
	dst := board.LastRow
	for src := board.LastRow; src >= 0; src-- {
		if b.RowFull(src) {
			continue
		}
		out[dst] = rowMap[src]
		dst--
	}
	for ; dst >= 0; dst-- {
		out[dst] = -1
	}
	return out
}

// Key hashes the picture. Two routes are the same perfect clear iff their
// keys match.
func (p Pc) Key() uint64 {
	pic := p.Picture()
	buf := make([]byte, 0, board.NumRows*board.NumCols)
	for r := 0; r < board.NumRows; r++ {
		for _, t := range pic[r] {
			buf = append(buf, byte(t))
		}
	}
	return xxhash.Sum64(buf)
}

func (p Pc) String() string {
	return strings.Join(lo.Map(p.Placements, func(pl move.Placement, _ int) string {
		return pl.String()
	}), ", ")
}
