package movegen

import (
	"sort"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/pcfinder/board"
	"github.com/domino14/pcfinder/move"
	"github.com/domino14/pcfinder/piece"
)

func sortedCells(s Pose) []Cell {
	c := s.Cells()
	out := c[:]
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

func mustBoard(t *testing.T, rows ...string) *board.Board {
	t.Helper()
	b, err := board.FromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	return &b
}

func TestIntersectsBounds(t *testing.T) {
	is := is.New(t)
	var b board.Board
	is.True(!Spawn(piece.T).Intersects(&b))
	is.True(Pose{Row: 22, Col: 4, Rot: piece.Flip, Piece: piece.T}.Intersects(&b))
	is.True(Pose{Row: 21, Col: 0, Rot: piece.Spawn, Piece: piece.T}.Intersects(&b))
	is.True(Pose{Row: 0, Col: 4, Rot: piece.Spawn, Piece: piece.T}.Intersects(&b))
	is.True(Pose{Row: 21, Col: 8, Rot: piece.Spawn, Piece: piece.O}.Intersects(&b) == false)
	is.True(Pose{Row: 21, Col: 9, Rot: piece.Spawn, Piece: piece.O}.Intersects(&b))
	is.True(Pose{Row: 22, Col: 8, Rot: piece.Spawn, Piece: piece.O}.Intersects(&b))
}

func TestDropAndShift(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, "XXXX......")
	s := Spawn(piece.I)
	is.Equal(s.DasLeft(b), Pose{Row: 1, Col: 1, Rot: piece.Spawn, Piece: piece.I})
	is.Equal(s.DasRight(b), Pose{Row: 1, Col: 7, Rot: piece.Spawn, Piece: piece.I})
	is.Equal(s.DasLeft(b).Drop(b).Row, int8(21))
	is.Equal(s.DasRight(b).Drop(b).Row, int8(22))
	// Against the wall a single shift is a no-op.
	l := s.DasLeft(b)
	is.Equal(l.Left(b), l)
}

func TestSymmetricalFootprint(t *testing.T) {
	is := is.New(t)
	for _, p := range piece.All {
		for r := piece.Spawn; r <= piece.CCW; r++ {
			s := Pose{Row: 10, Col: 4, Rot: r, Piece: p}
			m := s.Symmetrical()
			is.Equal(sortedCells(s), sortedCells(m))
			is.True(SameFootprint(s, m))
			if p != piece.O {
				is.Equal(m.Symmetrical(), s)
			}
			is.Equal(s.Canonical(), m.Canonical())
		}
	}
	is.Equal(Pose{Row: 3, Col: 3, Rot: piece.CCW, Piece: piece.O}.Symmetrical().Rot, piece.Spawn)
}

func TestRotationKicksOffWall(t *testing.T) {
	is := is.New(t)
	var b board.Board
	// A vertical I flush against the left wall cannot turn in place, so the
	// second kick pushes it right.
	s := Pose{Row: 10, Col: 0, Rot: piece.CW, Piece: piece.I}
	is.True(!s.Intersects(&b))
	n := s.RotateCCW(&b)
	is.True(n.Rot == piece.Spawn)
	is.True(!n.Intersects(&b))
	for _, c := range n.Cells() {
		is.True(c.Col >= 0)
	}
}

func TestRotationFailsInPlace(t *testing.T) {
	is := is.New(t)
	// A vertical I in a one-wide shaft has nowhere to turn.
	b := mustBoard(t,
		"XXXX.XXXXX",
		"XXXX.XXXXX",
		"XXXX.XXXXX",
		"XXXX.XXXXX",
		"XXXX.XXXXX",
		"XXXX.XXXXX",
		"XXXX.XXXXX",
	)
	s := Pose{Row: 20, Col: 4, Rot: piece.CW, Piece: piece.I}
	is.True(!s.Intersects(b))
	is.Equal(s.RotateCW(b), s)
	is.Equal(s.RotateCCW(b), s)
	// The half turn finds the other vertical encoding of the same cells.
	is.True(SameFootprint(s.Rotate180(b), s))
}

func TestTSpinTripleKick(t *testing.T) {
	is := is.New(t)
	// TST slot under an overhang. The T tucks in flat, then the last kick of
	// the 0->L table drops it two rows into the slot.
	b := mustBoard(t,
		"...XX.....",
		"....X.....",
		"XXX.XXXXXX",
		"XX..XXXXXX",
		"XXX.XXXXXX",
	)
	s := Pose{Row: 19, Col: 2, Rot: piece.Spawn, Piece: piece.T}
	is.True(!s.Intersects(b))
	is.Equal(s.Drop(b), s)
	is.Equal(s.RotateCCW(b), Pose{Row: 21, Col: 3, Rot: piece.CCW, Piece: piece.T})
}

func TestApplyMatchesSuccessors(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, "XX....XXXX", "XXX..XXXXX")
	s := Spawn(piece.S)
	for _, e := range s.Successors(b) {
		is.Equal(s.Apply(e.Movement, b), e.Pose)
	}
	is.Equal(s.Apply(move.HardDrop, b), s.Drop(b))
}
