// Package movegen is the move graph: how a live piece travels from spawn
// through shifts, rotations and drops, and which rest placements it can
// reach from there.
package movegen

import (
	"fmt"

	"github.com/domino14/pcfinder/board"
	"github.com/domino14/pcfinder/move"
	"github.com/domino14/pcfinder/piece"
)

const (
	SpawnRow = 1
	SpawnCol = 4
)

// A Pose is a live piece: its kind, orientation and anchor. Poses are
// comparable and are used directly as map keys.
type Pose struct {
	Row   int8
	Col   int8
	Rot   piece.Rotation
	Piece piece.Piece
}

// A Cell is an absolute board coordinate.
type Cell struct {
	Row, Col int
}

// An Edge is one arc of the move graph.
type Edge struct {
	Pose     Pose
	Movement move.Movement
}

func Spawn(p piece.Piece) Pose {
	return Pose{Row: SpawnRow, Col: SpawnCol, Rot: piece.Spawn, Piece: p}
}

// FromPlacement returns the rest pose a placement describes. It must not be
// a hold placement.
func FromPlacement(p move.Placement) Pose {
	return Pose{Row: int8(p.Row), Col: int8(p.Col), Rot: p.Rot, Piece: p.Piece}
}

func (s Pose) Placement() move.Placement {
	return move.NewPlacement(s.Piece, int(s.Row), int(s.Col), s.Rot)
}

func (s Pose) String() string {
	return fmt.Sprintf("%v@(%d,%d,%v)", s.Piece, s.Row, s.Col, s.Rot)
}

func (s Pose) Cells() [4]Cell {
	var cells [4]Cell
	for i, o := range s.Piece.Offsets(s.Rot) {
		cells[i] = Cell{Row: int(s.Row) + int(o.Row), Col: int(s.Col) + int(o.Col)}
	}
	return cells
}

// Intersects is true if any cell of the pose lies outside the well or on an
// occupied tile.
func (s Pose) Intersects(b *board.Board) bool {
	for _, o := range s.Piece.Offsets(s.Rot) {
		r := int(s.Row) + int(o.Row)
		c := int(s.Col) + int(o.Col)
		if r < 0 || r > board.LastRow || c < 0 || c >= board.NumCols {
			return true
		}
		if b.Occupied(r, c) {
			return true
		}
	}
	return false
}

func (s Pose) shift(dr, dc int8) Pose {
	s.Row += dr
	s.Col += dc
	return s
}

// slide moves the pose by (dr, dc) once. A blocked move leaves it in place.
func (s Pose) slide(b *board.Board, dr, dc int8) Pose {
	if n := s.shift(dr, dc); !n.Intersects(b) {
		return n
	}
	return s
}

// slideAll moves the pose by (dr, dc) until it is blocked.
func (s Pose) slideAll(b *board.Board, dr, dc int8) Pose {
	for {
		n := s.shift(dr, dc)
		if n.Intersects(b) {
			return s
		}
		s = n
	}
}

func (s Pose) Left(b *board.Board) Pose     { return s.slide(b, 0, -1) }
func (s Pose) Right(b *board.Board) Pose    { return s.slide(b, 0, 1) }
func (s Pose) DasLeft(b *board.Board) Pose  { return s.slideAll(b, 0, -1) }
func (s Pose) DasRight(b *board.Board) Pose { return s.slideAll(b, 0, 1) }

// Drop is the rest pose: the piece falls until the next row down would
// intersect.
func (s Pose) Drop(b *board.Board) Pose { return s.slideAll(b, 1, 0) }

// rotate turns the piece to the given orientation, trying each kick in
// order relative to the original anchor. If every kick is blocked the pose
// is returned unchanged.
func (s Pose) rotate(b *board.Board, to piece.Rotation) Pose {
	for _, k := range s.Piece.Kicks(s.Rot, to) {
		n := Pose{Row: s.Row + k.Row, Col: s.Col + k.Col, Rot: to, Piece: s.Piece}
		if !n.Intersects(b) {
			return n
		}
	}
	return s
}

func (s Pose) RotateCW(b *board.Board) Pose  { return s.rotate(b, s.Rot.CW()) }
func (s Pose) RotateCCW(b *board.Board) Pose { return s.rotate(b, s.Rot.CCW()) }
func (s Pose) Rotate180(b *board.Board) Pose { return s.rotate(b, s.Rot.Flip180()) }

// Apply performs a single movement. HardDrop returns the rest pose; locking
// the piece is up to the caller.
func (s Pose) Apply(m move.Movement, b *board.Board) Pose {
	switch m {
	case move.Left:
		return s.Left(b)
	case move.DasLeft:
		return s.DasLeft(b)
	case move.Right:
		return s.Right(b)
	case move.DasRight:
		return s.DasRight(b)
	case move.SoftDrop, move.HardDrop:
		return s.Drop(b)
	case move.RotateCW:
		return s.RotateCW(b)
	case move.RotateCCW:
		return s.RotateCCW(b)
	case move.Rotate180:
		return s.Rotate180(b)
	}
	panic(fmt.Sprintf("unhandled movement %v", m))
}

// Successors returns the eight outgoing arcs of the move graph, in a fixed
// order. A blocked movement yields the pose itself.
func (s Pose) Successors(b *board.Board) [8]Edge {
	return [8]Edge{
		{s.Left(b), move.Left},
		{s.DasLeft(b), move.DasLeft},
		{s.Right(b), move.Right},
		{s.DasRight(b), move.DasRight},
		{s.Drop(b), move.SoftDrop},
		{s.RotateCW(b), move.RotateCW},
		{s.RotateCCW(b), move.RotateCCW},
		{s.Rotate180(b), move.Rotate180},
	}
}

// Symmetrical returns the other encoding of the same footprint, if the piece
// has one. S, Z and I pair Spawn with Flip and CW with CCW. Every O
// orientation maps to Spawn. J, L and T are returned unchanged.
func (s Pose) Symmetrical() Pose {
	switch s.Piece {
	case piece.S, piece.Z:
		switch s.Rot {
		case piece.Spawn:
			return Pose{Row: s.Row - 1, Col: s.Col, Rot: piece.Flip, Piece: s.Piece}
		case piece.Flip:
			return Pose{Row: s.Row + 1, Col: s.Col, Rot: piece.Spawn, Piece: s.Piece}
		case piece.CW:
			return Pose{Row: s.Row, Col: s.Col + 1, Rot: piece.CCW, Piece: s.Piece}
		case piece.CCW:
			return Pose{Row: s.Row, Col: s.Col - 1, Rot: piece.CW, Piece: s.Piece}
		}
	case piece.I:
		switch s.Rot {
		case piece.Spawn:
			return Pose{Row: s.Row, Col: s.Col + 1, Rot: piece.Flip, Piece: s.Piece}
		case piece.Flip:
			return Pose{Row: s.Row, Col: s.Col - 1, Rot: piece.Spawn, Piece: s.Piece}
		case piece.CW:
			return Pose{Row: s.Row + 1, Col: s.Col, Rot: piece.CCW, Piece: s.Piece}
		case piece.CCW:
			return Pose{Row: s.Row - 1, Col: s.Col, Rot: piece.CW, Piece: s.Piece}
		}
	case piece.O:
		s.Rot = piece.Spawn
	}
	return s
}

// Canonical picks one encoding per footprint: Spawn over Flip, CW over CCW,
// and Spawn for every O.
func (s Pose) Canonical() Pose {
	switch s.Piece {
	case piece.S, piece.Z, piece.I:
		if s.Rot == piece.Flip || s.Rot == piece.CCW {
			return s.Symmetrical()
		}
	case piece.O:
		return s.Symmetrical()
	}
	return s
}

// SameFootprint is true if the two poses cover the same cells.
func SameFootprint(a, b Pose) bool {
	return a.Piece == b.Piece && a.Canonical() == b.Canonical()
}
