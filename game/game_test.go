package game

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/domino14/pcfinder/board"
	"github.com/domino14/pcfinder/move"
	"github.com/domino14/pcfinder/movegen"
	"github.com/domino14/pcfinder/pcsolver"
	"github.com/domino14/pcfinder/piece"
	"github.com/domino14/pcfinder/worker"
)

type fakeSearcher struct {
	snaps   []pcsolver.Snapshot
	pending *worker.Result
}

func (f *fakeSearcher) Restart(s pcsolver.Snapshot) uint64 {
	f.snaps = append(f.snaps, s)
	return uint64(len(f.snaps))
}

func (f *fakeSearcher) Poll() (worker.Result, bool) {
	if f.pending == nil {
		return worker.Result{}, false
	}
	r := *f.pending
	f.pending = nil
	return r, true
}

func sorted(ps []piece.Piece) []piece.Piece {
	out := slices.Clone(ps)
	slices.Sort(out)
	return out
}

func TestSevenBag(t *testing.T) {
	is := is.New(t)
	r := newRandomizer(42)
	for bag := 0; bag < 3; bag++ {
		var got []piece.Piece
		for i := 0; i < 7; i++ {
			got = append(got, r.next())
		}
		is.Equal(sorted(got), piece.All[:])
	}
}

func TestSeedIsReproducible(t *testing.T) {
	is := is.New(t)
	a := NewGame(7, nil)
	b := NewGame(7, nil)
	is.Equal(a.Active(), b.Active())
	is.Equal(a.Queue(), b.Queue())
	is.Equal(a.Seed(), uint64(7))
	is.True(NewGame(0, nil).Seed() != 0)
}

func TestHardDropLocks(t *testing.T) {
	is := is.New(t)
	f := &fakeSearcher{}
	g := NewGame(1, f)
	is.Equal(len(f.snaps), 1)
	p := g.Active().Piece
	next := g.Queue()[0]

	is.NoErr(g.Input(move.HardDrop))
	is.Equal(g.Placed(), 1)
	after := g.Board()
	is.Equal(after.Count(), 4)
	is.Equal(g.Active(), movegen.Spawn(next))
	is.Equal(g.LastFinesse().Faults, 0)
	is.Equal(g.LastPlacement().Piece, p)
	is.Equal(g.Session().Pieces, 1)

	// Lock-in restarted the search on the new position.
	is.Equal(len(f.snaps), 2)
	is.Equal(f.snaps[1].Board, g.Board())
	is.Equal(f.snaps[1].Current, next)
}

func TestFinesseFaults(t *testing.T) {
	is := is.New(t)
	g := NewGame(3, nil)
	is.NoErr(g.Input(move.Left))
	is.NoErr(g.Input(move.Right))
	is.Equal(g.Inputs(), 2)
	is.NoErr(g.Input(move.HardDrop))
	res := g.LastFinesse()
	is.True(res.Found)
	is.Equal(res.Faults, 2)
	is.Equal(res.Optimal, []move.Movement{move.HardDrop})
	is.Equal(g.Session().Faults, 2)
	is.Equal(g.Inputs(), 0)
}

func TestHoldOncePerPiece(t *testing.T) {
	is := is.New(t)
	g := NewGame(5, nil)
	first := g.Active().Piece
	second := g.Queue()[0]
	is.NoErr(g.Hold())
	is.Equal(g.HoldPiece(), first)
	is.Equal(g.Active().Piece, second)
	is.Equal(g.Hold(), ErrAlreadyHeld)

	is.NoErr(g.Input(move.HardDrop))
	is.NoErr(g.Hold())
	is.Equal(g.Active().Piece, first)
}

func TestUndo(t *testing.T) {
	is := is.New(t)
	g := NewGame(9, nil)
	is.Equal(g.Undo(), ErrNothingToUndo)

	active := g.Active()
	queue := g.Queue()
	is.NoErr(g.Input(move.DasLeft))
	is.NoErr(g.Input(move.HardDrop))
	is.Equal(g.UndoDepth(), 1)

	is.NoErr(g.Undo())
	b := g.Board()
	is.True(b.IsEmpty())
	is.Equal(g.Active(), active)
	is.Equal(g.Queue(), queue)
	is.Equal(g.Session().Pieces, 0)
	is.Equal(g.Placed(), 0)
}

func TestPlaceIntoPerfectClear(t *testing.T) {
	is := is.New(t)
	g := NewGame(11, nil)
	b, err := board.FromRows([]string{"XXXXXXXX..", "XXXXXXXX.."})
	is.NoErr(err)
	g.Load(b, piece.O, piece.None, []piece.Piece{piece.T})
	is.Equal(g.Active().Piece, piece.O)

	is.Equal(g.Place(move.NewPlacement(piece.T, 21, 8, piece.Spawn)), ErrWrongPiece)
	is.Equal(g.Place(move.NewPlacement(piece.O, 5, 8, piece.Spawn)), ErrUnreachable)

	is.NoErr(g.Place(move.NewPlacement(piece.O, 21, 8, piece.Spawn)))
	b = g.Board()
	is.True(b.IsEmpty())
	is.Equal(g.Session().PCs, 1)
	is.Equal(g.Session().LinesClears, 2)
	is.Equal(g.LastFinesse().Faults, 0)
	is.Equal(g.Active().Piece, piece.T)
	q := g.SetupQuery()
	is.Equal(q.PCStart, g.Placed())
}

func TestSetupQueryInfersLastOfBag(t *testing.T) {
	is := is.New(t)
	g := NewGame(13, nil)
	q := g.SetupQuery()
	is.Equal(q.Slot(), 1)
	is.True(q.Upcoming != piece.None)
	seen := append([]piece.Piece{q.Current, q.Upcoming}, q.Queue...)
	is.Equal(sorted(seen), piece.All[:])
}

func TestTickReplacesResults(t *testing.T) {
	is := is.New(t)
	f := &fakeSearcher{}
	g := NewGame(17, f)
	is.True(!g.Tick())
	f.pending = &worker.Result{
		Generation: 1,
		Solutions:  []pcsolver.Pc{{Height: 2}, {Height: 4}},
		Stats:      pcsolver.Stats{Solutions: 2},
	}
	is.True(g.Tick())
	is.Equal(len(g.PCs()), 2)
	is.Equal(g.PCStats().Solutions, 2)
	is.True(!g.Tick())
	is.Equal(len(g.PCs()), 2)

	// Locking clears the stale set.
	is.NoErr(g.Input(move.HardDrop))
	is.Equal(len(g.PCs()), 0)
}

func TestSnapshotIsACopy(t *testing.T) {
	is := is.New(t)
	g := NewGame(19, nil)
	s := g.Snapshot()
	orig := g.Queue()[0]
	s.Queue[0] = piece.Garbage
	is.Equal(g.Queue()[0], orig)
}

func TestDisplay(t *testing.T) {
	is := is.New(t)
	g := NewGame(23, nil)
	out := g.ToDisplayText()
	is.True(strings.Contains(out, "Hold: ."))
	is.True(strings.Contains(out, "Next: "))
	is.True(strings.Contains(out, g.Active().Piece.String()))
}

func TestGameWithWorker(t *testing.T) {
	is := is.New(t)
	w := worker.New(pcsolver.NewSolver())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	g := NewGame(29, w)
	b, err := board.FromRows([]string{"XXXXXX....", "XXXXXX...."})
	is.NoErr(err)
	g.Load(b, piece.I, piece.None, []piece.Piece{piece.I})

	deadline := time.Now().Add(10 * time.Second)
	for !g.Tick() {
		if time.Now().After(deadline) {
			t.Fatal("no search result")
		}
		time.Sleep(5 * time.Millisecond)
	}
	is.True(len(g.PCs()) >= 1)
}

func TestAcceptAndSetSearcher(t *testing.T) {
	is := is.New(t)
	g := NewGame(31, nil)
	is.True(!g.Searched())
	g.Accept(worker.Result{Solutions: []pcsolver.Pc{{Height: 2}}})
	is.True(g.Searched())
	is.Equal(len(g.PCs()), 1)

	f := &fakeSearcher{}
	g.SetSearcher(f)
	is.Equal(len(f.snaps), 1)
	is.True(!g.Searched())
	is.Equal(len(g.PCs()), 0)
}

func TestPlaceSymmetricalEncoding(t *testing.T) {
	is := is.New(t)
	g := NewGame(37, nil)
	g.Load(board.Board{}, piece.I, piece.None, []piece.Piece{piece.O})
	// A flat I on the floor, given in its flipped encoding.
	flat := movegen.Pose{Piece: piece.I, Row: 22, Col: 4, Rot: piece.Spawn}
	flipped := flat.Symmetrical()
	is.Equal(flipped.Rot, piece.Flip)
	is.NoErr(g.Place(flipped.Placement()))
	b := g.Board()
	is.Equal(b.Count(), 4)
}
