package pcsolver

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/pcfinder/board"
	"github.com/domino14/pcfinder/piece"
)

func stateFrom(t *testing.T, height int, p piece.Piece, rows ...string) State {
	t.Helper()
	b, err := board.FromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	return State{Board: b, Piece: p, Height: uint8(height)}
}

func TestRegionCheck(t *testing.T) {
	is := is.New(t)
	// Empty cells split 3 + 5: the total is a multiple of four but neither
	// region is.
	s := stateFrom(t, 1, piece.T, "...X.....X")
	is.True(s.FailsEarly(5))
	is.Equal(s.failCheck(5), oddRegion)

	s = stateFrom(t, 1, piece.T, "....X....X")
	is.True(!s.FailsEarly(5))

	// Regions are orthogonal: a diagonal touch does not join them.
	s = stateFrom(t, 2, piece.T,
		"XX.XXXXXXX",
		"X.XXXXXX..",
	)
	is.Equal(s.failCheck(5), oddRegion)
}

func TestFailsEarlyOrder(t *testing.T) {
	is := is.New(t)
	s := stateFrom(t, 1, piece.T, "X.........", "XX........")
	is.Equal(s.failCheck(5), aboveBand)

	s = stateFrom(t, 1, piece.T, "X.........")
	is.Equal(s.failCheck(5), parity)

	// 36 empty cells, but only the active piece and two more.
	s = stateFrom(t, 4, piece.T, "XXXX......")
	is.Equal(s.failCheck(2), shortOfPieces)
	s.Hold = piece.I
	is.Equal(s.failCheck(2), shortOfPieces)
	is.Equal(s.failCheck(7), passes)
}

func TestIsSolved(t *testing.T) {
	is := is.New(t)
	var s State
	is.True(s.IsSolved())
	s.Height = 1
	is.True(!s.IsSolved())
	s = stateFrom(t, 0, piece.T, "X.........")
	is.True(!s.IsSolved())
}

func TestNoActivePieceHasNoSuccessors(t *testing.T) {
	is := is.New(t)
	s := State{Height: 2, Hold: piece.I}
	var pruned [numChecks]uint64
	is.Equal(len(s.successors([]piece.Piece{piece.I}, &pruned)), 0)
}

func TestHoldSuccessor(t *testing.T) {
	is := is.New(t)
	var pruned [numChecks]uint64
	window := []piece.Piece{piece.O, piece.I, piece.I, piece.I}

	s := State{Height: 2, Piece: piece.T}
	succs := s.successors(window, &pruned)
	last := succs[len(succs)-1]
	is.True(last.placement.Hold)
	// First use stashes the active piece and pulls the next one.
	is.Equal(last.state.Hold, piece.T)
	is.Equal(last.state.Piece, piece.O)
	is.Equal(last.state.QueueUsed, uint8(1))

	// Later uses swap without touching the queue.
	succs = last.state.successors(window, &pruned)
	last = succs[len(succs)-1]
	is.True(last.placement.Hold)
	is.Equal(last.state.Hold, piece.O)
	is.Equal(last.state.Piece, piece.T)
	is.Equal(last.state.QueueUsed, uint8(1))
}

func TestPlacementAdvancesCursor(t *testing.T) {
	is := is.New(t)
	var pruned [numChecks]uint64
	window := []piece.Piece{piece.I, piece.I}
	s := stateFrom(t, 2, piece.I, "XXXXXX....", "XXXXXX....")

	succs := s.successors(window, &pruned)
	is.True(len(succs) >= 1)
	first := succs[0]
	is.True(!first.placement.Hold)
	is.True(first.cleared)
	is.Equal(first.state.Height, uint8(1))
	is.Equal(first.state.Piece, piece.I)
	is.Equal(first.state.QueueUsed, uint8(1))
	is.Equal(first.state.Board.Rows(), []string{"XXXXXX...."})
}
