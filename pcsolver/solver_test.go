package pcsolver

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/pcfinder/board"
	"github.com/domino14/pcfinder/move"
	"github.com/domino14/pcfinder/piece"
)

func mustQueue(t *testing.T, s string) []piece.Piece {
	t.Helper()
	q, err := piece.ParseQueue(s)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func oiSnapshot(t *testing.T) Snapshot {
	return Snapshot{
		Current: piece.O,
		Queue:   mustQueue(t, "OIIIIIIII"),
		Height:  4,
	}
}

func newTestSolver(lookahead int) *Solver {
	s := NewSolver()
	s.SetLookahead(lookahead)
	s.SetMaxNodes(500000)
	return s
}

func TestSolveTwoRowFinish(t *testing.T) {
	is := is.New(t)
	b, err := board.FromRows([]string{"XXXXXX....", "XXXXXX...."})
	is.NoErr(err)
	s := newTestSolver(DefaultLookahead)
	pcs, err := s.Solve(context.Background(), Snapshot{
		Board:   b,
		Current: piece.I,
		Queue:   mustQueue(t, "I"),
	})
	is.NoErr(err)
	is.Equal(len(pcs), 1)
	is.Equal(pcs[0].Height, 2)
	is.Equal(pcs[0].Pieces(), 2)
	is.Equal(pcs[0].Placements[0], move.NewPlacement(piece.I, 22, 7, piece.Spawn))
	pic := pcs[0].Picture()
	is.Equal(pic.Rows(), []string{"XXXXXXIIII", "XXXXXXIIII"})
	is.Equal(s.Stats().Solutions, 1)
	is.True(!s.Stats().Truncated)
}

func TestSolveFourRowsWithOAndBars(t *testing.T) {
	is := is.New(t)
	s := newTestSolver(9)
	pcs, err := s.Solve(context.Background(), oiSnapshot(t))
	is.NoErr(err)
	fourRow := 0
	for _, pc := range pcs {
		// Every piece lands inside the band and the band ends up full.
		is.Equal(pc.Pieces()*4, board.NumCols*pc.Height)
		pic := pc.Picture()
		is.Equal(pic.Count(), board.NumCols*pc.Height)
		is.Equal(pic.CountRows(board.NumRows-pc.Height, board.NumRows), board.NumCols*pc.Height)
		if pc.Height == 4 {
			fourRow++
		}
	}
	is.True(fourRow > 0)
}

// Replaying every solution through the successor relation must never hit
// a state that fails early.
func TestFailsEarlySoundOnSolutions(t *testing.T) {
	is := is.New(t)
	s := newTestSolver(9)
	snap := oiSnapshot(t)
	pcs, err := s.Solve(context.Background(), snap)
	is.NoErr(err)
	window := snap.Window(9)
	for _, pc := range pcs {
		st := State{Board: snap.Board, Piece: snap.Current, Hold: snap.Hold, Height: uint8(pc.Height)}
		is.True(!st.FailsEarly(len(window)))
		for _, pl := range pc.Placements {
			var pruned [numChecks]uint64
			var nextState *State
			for _, succ := range st.successors(window, &pruned) {
				if succ.placement == pl {
					nextState = &succ.state
					break
				}
			}
			is.True(nextState != nil)
			st = *nextState
			is.True(!st.FailsEarly(remainingAfter(window, int(st.QueueUsed))))
		}
		is.True(st.IsSolved())
	}
}

func TestSolveDeterministic(t *testing.T) {
	keys := func() []uint64 {
		s := newTestSolver(DefaultLookahead)
		b, _ := board.FromRows([]string{"XXX...XXXX", "XXXX.XXXXX"})
		pcs, err := s.Solve(context.Background(), Snapshot{
			Board:   b,
			Current: piece.T,
			Hold:    piece.Z,
			Queue:   mustQueue(t, "SOIJL"),
			Height:  2,
		})
		assert.NoError(t, err)
		out := make([]uint64, len(pcs))
		for i, pc := range pcs {
			out[i] = pc.Key()
		}
		return out
	}
	first := keys()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, keys())
}

func TestSolveCancelledBeforeStart(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newTestSolver(9)
	pcs, err := s.Solve(ctx, oiSnapshot(t))
	is.True(errors.Is(err, context.Canceled))
	is.Equal(len(pcs), 0)
	is.Equal(s.Stats().Nodes, uint64(0))
}

func TestAllRootsFailEarly(t *testing.T) {
	is := is.New(t)
	var b board.Board
	b.Set(5, 5, piece.Garbage)
	s := newTestSolver(DefaultLookahead)
	pcs, err := s.Solve(context.Background(), Snapshot{
		Board:   b,
		Current: piece.T,
		Queue:   mustQueue(t, "IOSZL"),
	})
	is.NoErr(err)
	is.Equal(len(pcs), 0)
	is.Equal(s.Stats().Nodes, uint64(0))
	is.Equal(s.Stats().Pruned["above-band"], uint64(4))
}

func TestNodeBudget(t *testing.T) {
	is := is.New(t)
	s := newTestSolver(9)
	s.SetMaxNodes(1)
	_, err := s.Solve(context.Background(), oiSnapshot(t))
	is.NoErr(err)
	is.True(s.Stats().Truncated)
	is.Equal(s.Stats().Nodes, uint64(1))
}
