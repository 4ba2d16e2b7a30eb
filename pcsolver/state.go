package pcsolver

import (
	"github.com/domino14/pcfinder/board"
	"github.com/domino14/pcfinder/dsu"
	"github.com/domino14/pcfinder/move"
	"github.com/domino14/pcfinder/movegen"
	"github.com/domino14/pcfinder/piece"
)

// State is one node of the perfect-clear search. The remaining queue is not
// stored; QueueUsed indexes into the window the search was started with.
type State struct {
	Board     board.Board
	QueueUsed uint8
	Piece     piece.Piece
	Hold      piece.Piece
	// Height is the number of bottom rows still to be cleared.
	Height uint8
}

// check identifies which pruning rule rejected a state.
type check int

const (
	passes check = iota
	aboveBand
	parity
	shortOfPieces
	oddRegion
	numChecks
)

var checkNames = [numChecks]string{"passes", "above-band", "parity", "short-of-pieces", "odd-region"}

func (c check) String() string {
	return checkNames[c]
}

func (s *State) bandTop() int {
	return board.NumRows - int(s.Height)
}

// IsSolved is true when every cell above the band is empty and every cell in
// it is filled. Since full rows are cleared as soon as they form, that
// means an empty board at height zero.
func (s *State) IsSolved() bool {
	top := s.bandTop()
	return s.Board.CountRows(0, top) == 0 &&
		s.Board.CountRows(top, board.NumRows) == board.NumCols*int(s.Height)
}

// available counts the pieces the state can still place, given how many
// pieces are left in the lookahead window.
func (s *State) available(remaining int) int {
	n := remaining
	if s.Piece != piece.None {
		n++
	}
	if s.Hold != piece.None {
		n++
	}
	return n
}

// FailsEarly reports whether the state provably cannot reach a perfect
// clear. remaining is the number of unused pieces left in the window. It
// never rejects a state that can still be solved with the pieces at hand,
// barring regions that a later line clear would merge.
func (s *State) FailsEarly(remaining int) bool {
	return s.failCheck(remaining) != passes
}

func (s *State) failCheck(remaining int) check {
	top := s.bandTop()
	if s.Board.CountRows(0, top) > 0 {
		return aboveBand
	}
	empty := board.NumCols*int(s.Height) - s.Board.CountRows(top, board.NumRows)
	if empty%4 != 0 {
		return parity
	}
	if 4*s.available(remaining) < empty {
		return shortOfPieces
	}
	if s.oddRegion() {
		return oddRegion
	}
	return passes
}

// oddRegion groups the band's empty cells into orthogonally connected
// regions and reports whether any of them has a size that is not a
// multiple of four.
func (s *State) oddRegion() bool {
	h := int(s.Height)
	if h == 0 {
		return false
	}
	top := s.bandTop()
	d := dsu.New(h * board.NumCols)
	empty := func(r, c int) bool {
		return !s.Board.Occupied(top+r, c)
	}
	for r := 0; r < h; r++ {
		for c := 0; c < board.NumCols; c++ {
			if !empty(r, c) {
				continue
			}
			idx := r*board.NumCols + c
			if c+1 < board.NumCols && empty(r, c+1) {
				d.Union(idx, idx+1)
			}
			if r+1 < h && empty(r+1, c) {
				d.Union(idx, idx+board.NumCols)
			}
		}
	}
	for r := 0; r < h; r++ {
		for c := 0; c < board.NumCols; c++ {
			idx := r*board.NumCols + c
			if empty(r, c) && d.Find(idx) == idx && d.SetSize(idx)%4 != 0 {
				return true
			}
		}
	}
	return false
}

// next returns the window piece at index used, or None past its end.
func next(window []piece.Piece, used int) piece.Piece {
	if used < len(window) {
		return window[used]
	}
	return piece.None
}

func remainingAfter(window []piece.Piece, used int) int {
	return max(0, len(window)-used)
}

// A successor is a child state and the action that produced it. cleared is
// set when the placement completed at least one row.
type successor struct {
	state     State
	placement move.Placement
	cleared   bool
}

// successors lists every child of s: one per rest placement of the active
// piece, then the hold action. Children that fail early are dropped and
// counted in pruned.
func (s *State) successors(window []piece.Piece, pruned *[numChecks]uint64) []successor {
	if s.Piece == piece.None {
		return nil
	}
	locs := movegen.Locations(&s.Board, s.Piece)
	out := make([]successor, 0, len(locs)+1)
	// The next active piece comes off the window at the cursor.
	upNext := next(window, int(s.QueueUsed))
	used := min(int(s.QueueUsed)+1, len(window))

	for _, l := range locs {
		child := State{
			Board:     s.Board.WithPlacement(l.Piece, int(l.Row), int(l.Col), l.Rot),
			QueueUsed: uint8(used),
			Piece:     upNext,
			Hold:      s.Hold,
		}
		cleared := child.Board.ClearLines()
		child.Height = uint8(max(0, int(s.Height)-cleared))
		if c := child.failCheck(remainingAfter(window, used)); c != passes {
			pruned[c]++
			continue
		}
		out = append(out, successor{state: child, placement: l.Placement(), cleared: cleared > 0})
	}

	held := *s
	if s.Hold != piece.None {
		held.Piece, held.Hold = s.Hold, s.Piece
	} else {
		held.Hold = s.Piece
		held.Piece = upNext
		held.QueueUsed = uint8(used)
	}
	if c := held.failCheck(remainingAfter(window, int(held.QueueUsed))); c != passes {
		pruned[c]++
	} else {
		out = append(out, successor{state: held, placement: move.HoldPlacement()})
	}
	return out
}
