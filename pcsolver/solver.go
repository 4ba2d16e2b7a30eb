// Package pcsolver searches for perfect clears: ways to place the active
// piece, the held piece and a window of upcoming pieces so that the bottom
// rows of the board clear completely.
package pcsolver

import (
	"cmp"
	"context"
	"slices"
	"sync/atomic"
	"time"

	"github.com/kamstrup/intmap"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/pcfinder/board"
	"github.com/domino14/pcfinder/move"
	"github.com/domino14/pcfinder/piece"
	"github.com/domino14/pcfinder/zobrist"
)

const (
	DefaultLookahead      = 5
	DefaultMaxHeight      = zobrist.MaxHeight
	DefaultMemoryFraction = 0.05

	// nodeBytes is a rough per-node footprint: a visited-set entry plus its
	// share of the stack.
	nodeBytes = 384
	minNodes  = 1 << 16
)

// Snapshot is the position handed to a search. It is a value; the solver
// never holds on to caller state.
type Snapshot struct {
	Board   board.Board
	Current piece.Piece
	Hold    piece.Piece
	Queue   []piece.Piece
	// Height fixes the band. Zero tries every height up to the solver's
	// maximum.
	Height int
}

// Clone copies the snapshot so that it shares nothing with its source.
func (s Snapshot) Clone() Snapshot {
	s.Queue = slices.Clone(s.Queue)
	return s
}

// Window returns the part of the queue the search may look at.
func (s Snapshot) Window(lookahead int) []piece.Piece {
	return s.Queue[:min(len(s.Queue), lookahead)]
}

// Stats describe the last search.
type Stats struct {
	Nodes     uint64
	Solutions int
	Elapsed   time.Duration
	Pruned    map[string]uint64
	// Truncated is set when the node budget ran out before the search did.
	Truncated bool
}

type Solver struct {
	lookahead      int
	maxHeight      int
	maxNodes       int
	memoryFraction float64

	zobrist *zobrist.Zobrist
	nodes   atomic.Uint64
	pruned  [numChecks]uint64
	stats   Stats
}

func NewSolver() *Solver {
	s := &Solver{
		lookahead:      DefaultLookahead,
		maxHeight:      DefaultMaxHeight,
		memoryFraction: DefaultMemoryFraction,
		zobrist:        &zobrist.Zobrist{},
	}
	s.zobrist.Initialize()
	return s
}

func (s *Solver) SetLookahead(n int) {
	s.lookahead = max(0, n)
}

func (s *Solver) SetMaxHeight(h int) {
	s.maxHeight = min(max(1, h), zobrist.MaxHeight)
}

// SetMaxNodes caps the number of nodes a search may expand. Zero sizes the
// cap from the memory fraction instead.
func (s *Solver) SetMaxNodes(n int) {
	s.maxNodes = max(0, n)
}

func (s *Solver) SetMemoryFraction(f float64) {
	s.memoryFraction = f
}

func (s *Solver) Lookahead() int {
	return s.lookahead
}

// Nodes is the number of nodes expanded so far by the current or last
// search. It is safe to call from another goroutine.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

func (s *Solver) Stats() Stats {
	return s.stats
}

func (s *Solver) nodeBudget() int {
	if s.maxNodes > 0 {
		return s.maxNodes
	}
	totalMem := memory.TotalMemory()
	budget := int(s.memoryFraction * float64(totalMem) / nodeBytes)
	if budget < minNodes {
		budget = minNodes
	}
	log.Debug().
		Int("node-budget", budget).
		Uint64("total-system-memory-bytes", totalMem).
		Float64("memory-fraction", s.memoryFraction).
		Msg("pc-node-budget")
	return budget
}

// roots builds the starting state for each candidate height, skipping those
// that already fail early.
func (s *Solver) roots(snap Snapshot, window []piece.Piece) []State {
	heights := []int{snap.Height}
	if snap.Height <= 0 {
		heights = heights[:0]
		for h := 1; h <= s.maxHeight; h++ {
			heights = append(heights, h)
		}
	}
	var roots []State
	for _, h := range heights {
		st := State{
			Board:  snap.Board,
			Piece:  snap.Current,
			Hold:   snap.Hold,
			Height: uint8(min(h, zobrist.MaxHeight)),
		}
		if c := st.failCheck(len(window)); c != passes {
			s.pruned[c]++
			continue
		}
		roots = append(roots, st)
	}
	return roots
}

type stackNode struct {
	state    State
	boardKey uint64
	path     []move.Placement
	height   int // the root's band height
}

// Solve runs a depth-first search from every viable root and returns the
// distinct perfect clears found, fewest pieces first. A cancelled search
// returns ctx.Err() and no solutions. Running out of node budget is not an
// error; the solutions found so far are returned and Stats reports it.
func (s *Solver) Solve(ctx context.Context, snap Snapshot) ([]Pc, error) {
	tstart := time.Now()
	s.nodes.Store(0)
	s.pruned = [numChecks]uint64{}
	s.stats = Stats{}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	window := snap.Window(s.lookahead)
	roots := s.roots(snap, window)
	if len(roots) == 0 {
		log.Debug().Msg("pc-all-roots-fail-early")
		s.finishStats(tstart, 0, false)
		return nil, nil
	}

	budget := s.nodeBudget()
	visited := intmap.New[uint64, struct{}](min(budget, 1<<20))
	stack := make([]stackNode, 0, 256)
	for i := len(roots) - 1; i >= 0; i-- {
		// Pushed in reverse so the smallest height is searched first.
		r := roots[i]
		bk := s.zobrist.HashBoard(&r.Board)
		visited.Put(s.key(bk, &r), struct{}{})
		stack = append(stack, stackNode{state: r, boardKey: bk, height: int(r.Height)})
	}

	found := map[uint64]Pc{}
	truncated := false
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			s.finishStats(tstart, 0, false)
			return nil, err
		}
		if s.nodes.Load() >= uint64(budget) {
			truncated = true
			break
		}
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s.nodes.Add(1)

		for _, succ := range n.state.successors(window, &s.pruned) {
			bk := n.boardKey
			switch {
			case succ.placement.Hold:
			case succ.cleared:
				bk = s.zobrist.HashBoard(&succ.state.Board)
			default:
				pl := succ.placement
				bk = s.zobrist.AddPlacement(bk, pl.Piece, int(pl.Row), int(pl.Col), pl.Rot)
			}
			path := append(n.path[:len(n.path):len(n.path)], succ.placement)
			// Solved states all look alike to the visited set, so they are
			// told apart by picture instead.
			if succ.state.IsSolved() {
				pc := Pc{Start: snap.Board, Height: n.height, Placements: path}
				k := pc.Key()
				if _, ok := found[k]; !ok {
					found[k] = pc
				}
				continue
			}
			key := s.key(bk, &succ.state)
			if _, ok := visited.Get(key); ok {
				continue
			}
			visited.Put(key, struct{}{})
			stack = append(stack, stackNode{state: succ.state, boardKey: bk, path: path, height: n.height})
		}
	}

	pcs := sortSolutions(found)
	s.finishStats(tstart, len(pcs), truncated)
	log.Info().
		Uint64("nodes", s.stats.Nodes).
		Int("solutions", len(pcs)).
		Int("visited", visited.Len()).
		Bool("truncated", truncated).
		Float64("time-elapsed-sec", s.stats.Elapsed.Seconds()).
		Msg("pc-solve-returning")
	return pcs, nil
}

// sortSolutions orders solutions by piece count, then by action count, then
// by picture key, so that equal inputs print identically.
func sortSolutions(found map[uint64]Pc) []Pc {
	keys := lo.Keys(found)
	slices.SortFunc(keys, func(a, b uint64) int {
		pa, pb := found[a], found[b]
		return cmp.Or(
			cmp.Compare(pa.Pieces(), pb.Pieces()),
			cmp.Compare(len(pa.Placements), len(pb.Placements)),
			cmp.Compare(a, b),
		)
	})
	return lo.Map(keys, func(k uint64, _ int) Pc { return found[k] })
}

func (s *Solver) key(boardKey uint64, st *State) uint64 {
	return s.zobrist.StateKey(boardKey, st.Piece, st.Hold, int(st.Height), int(st.QueueUsed))
}

func (s *Solver) finishStats(tstart time.Time, solutions int, truncated bool) {
	pruned := make(map[string]uint64, numChecks)
	for c := aboveBand; c < numChecks; c++ {
		pruned[c.String()] = s.pruned[c]
	}
	s.stats = Stats{
		Nodes:     s.nodes.Load(),
		Solutions: solutions,
		Elapsed:   time.Since(tstart),
		Pruned:    pruned,
		Truncated: truncated,
	}
}
