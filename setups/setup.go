// Package setups matches known perfect-clear skeletons against the current
// board and queue.
package setups

import (
	"strings"

	"github.com/cespare/xxhash"
	"github.com/samber/lo"

	"github.com/domino14/pcfinder/board"
	"github.com/domino14/pcfinder/move"
	"github.com/domino14/pcfinder/movegen"
	"github.com/domino14/pcfinder/piece"
)

// A PcSetup is a skeleton: target placements that may be built in any order
// the queue allows. Save, if set, is a piece that must still be in hand when
// the skeleton is finished.
type PcSetup struct {
	Name       string
	Placements []move.Placement
	Save       piece.Piece
}

// Board returns b with every skeleton placement stamped on it.
func (s PcSetup) Board(b board.Board) board.Board {
	for _, p := range s.Placements {
		b = b.WithPlacement(p.Piece, int(p.Row), int(p.Col), p.Rot)
	}
	return b
}

// Mirror reflects the skeleton left to right.
func (s PcSetup) Mirror() PcSetup {
	m := PcSetup{
		Name:       s.Name + "*",
		Placements: make([]move.Placement, len(s.Placements)),
		Save:       s.Save.Mirror(),
	}
	for i, p := range s.Placements {
		m.Placements[i] = mirrorPlacement(p)
	}
	return m
}

func mirrorPlacement(p move.Placement) move.Placement {
	col := 9 - int(p.Col)
	rot := p.Rot.Mirror()
	switch p.Piece {
	case piece.O:
		// O's anchor is its left column.
		col = 8 - int(p.Col)
		rot = p.Rot
	case piece.I:
		// The I's horizontal encodings are off-centre by one, so the
		// reflection of Spawn lands on Flip. Vertical ones stay put.
		switch p.Rot {
		case piece.Spawn:
			rot = piece.Flip
		case piece.Flip:
			rot = piece.Spawn
		default:
			rot = p.Rot
		}
	}
	return move.NewPlacement(p.Piece.Mirror(), int(p.Row), col, rot)
}

// Key identifies a skeleton by name and placements.
func (s PcSetup) Key() uint64 {
	d := xxhash.New()
	d.Write([]byte(s.Name))
	for _, p := range s.Placements {
		d.Write([]byte{byte(p.Piece), p.Row, p.Col, byte(p.Rot)})
	}
	d.Write([]byte{byte(s.Save)})
	return d.Sum64()
}

func (s PcSetup) String() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	sb.WriteString(": ")
	sb.WriteString(strings.Join(lo.Map(s.Placements, func(p move.Placement, _ int) string {
		return p.String()
	}), ", "))
	if s.Save != piece.None {
		sb.WriteString(" (save ")
		sb.WriteString(s.Save.String())
		sb.WriteString(")")
	}
	return sb.String()
}

// strip drops the placements already fully on the board. It reports false
// when a placement is only partly there or the board holds cells the
// skeleton does not explain.
func (s PcSetup) strip(b *board.Board) ([]move.Placement, bool) {
	var remaining []move.Placement
	filled := 0
	for _, p := range s.Placements {
		n := 0
		for _, c := range movegen.FromPlacement(p).Cells() {
			if b.Occupied(c.Row, c.Col) {
				n++
			}
		}
		switch n {
		case 0:
			remaining = append(remaining, p)
		case 4:
			filled += 4
		default:
			return nil, false
		}
	}
	if b.Count() != filled {
		return nil, false
	}
	return remaining, true
}

// CanBuild reports whether the skeleton can be finished from b using the
// current piece, the hold slot and queue, with every placement reachable
// when it is made. A skeleton already standing on the board is buildable.
func (s PcSetup) CanBuild(b board.Board, queue []piece.Piece, current, hold piece.Piece, policy HoldPolicy) bool {
	return s.canBuild(b, queue, current, hold, false, policy)
}

func (s PcSetup) canBuild(b board.Board, queue []piece.Piece, current, hold piece.Piece, held bool, policy HoldPolicy) bool {
	remaining, ok := s.strip(&b)
	if !ok {
		return false
	}

	need := lo.CountValues(lo.Map(remaining, func(p move.Placement, _ int) piece.Piece {
		return p.Piece
	}))
	if s.Save != piece.None {
		need[s.Save]++
	}
	have := lo.CountValues(queue)
	have[current]++
	have[hold]++
	for p, n := range need {
		if n > have[p] {
			return false
		}
	}

	start := State{
		Board:     b,
		Remaining: remaining,
		Queue:     queue,
		Piece:     current,
		Hold:      hold,
		Held:      held,
	}
	stack := []State{start}
	visited := map[uint64]struct{}{}
	for len(stack) > 0 {
		st := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(st.Remaining) == 0 && st.holds(s.Save) {
			return true
		}
		k := st.key()
		if _, seen := visited[k]; seen {
			continue
		}
		visited[k] = struct{}{}
		for _, next := range st.Successors(policy) {
			if _, seen := visited[next.key()]; !seen {
				stack = append(stack, next)
			}
		}
	}
	return false
}

// complete is true when every placement is already on the board.
func (s PcSetup) complete(b *board.Board) bool {
	remaining, ok := s.strip(b)
	return ok && len(remaining) == 0
}
