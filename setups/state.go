package setups

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash"
	"github.com/samber/lo"

	"github.com/domino14/pcfinder/board"
	"github.com/domino14/pcfinder/move"
	"github.com/domino14/pcfinder/movegen"
	"github.com/domino14/pcfinder/piece"
)

// HoldPolicy says how often the matcher may use hold between placements.
type HoldPolicy uint8

const (
	// HoldOncePerTurn allows a single hold before each placement.
	HoldOncePerTurn HoldPolicy = iota
	// HoldUnlimited allows any number of swaps.
	HoldUnlimited
)

func (h HoldPolicy) String() string {
	if h == HoldUnlimited {
		return "unlimited"
	}
	return "once"
}

func ParseHoldPolicy(s string) (HoldPolicy, error) {
	switch s {
	case "once", "":
		return HoldOncePerTurn, nil
	case "unlimited":
		return HoldUnlimited, nil
	}
	return HoldOncePerTurn, fmt.Errorf("unknown hold policy %q", s)
}

// State is a point in a skeleton build: what is left to place and what is
// left in hand.
type State struct {
	Board     board.Board
	Remaining []move.Placement
	Queue     []piece.Piece
	Piece     piece.Piece
	Hold      piece.Piece
	// Held is set once hold has been used for the current piece.
	Held bool
}

func (s *State) holds(p piece.Piece) bool {
	if p == piece.None {
		return true
	}
	return s.Piece == p || s.Hold == p || slices.Contains(s.Queue, p)
}

func (s *State) advance() {
	if len(s.Queue) == 0 {
		s.Piece = piece.None
		return
	}
	s.Piece = s.Queue[0]
	s.Queue = s.Queue[1:]
}

// Successors lists the states one action away: placing the active piece on
// any remaining skeleton spot it can reach, or holding.
func (s State) Successors(policy HoldPolicy) []State {
	var out []State
	if s.Piece != piece.None && lo.ContainsBy(s.Remaining, func(p move.Placement) bool { return p.Piece == s.Piece }) {
		reach := lo.SliceToMap(movegen.Locations(&s.Board, s.Piece), func(p movegen.Pose) (movegen.Pose, struct{}) {
			return p.Canonical(), struct{}{}
		})
		for i, p := range s.Remaining {
			if p.Piece != s.Piece {
				continue
			}
			if _, ok := reach[movegen.FromPlacement(p).Canonical()]; !ok {
				continue
			}
			next := s
			next.Board = s.Board.WithPlacement(p.Piece, int(p.Row), int(p.Col), p.Rot)
			next.Remaining = slices.Delete(slices.Clone(s.Remaining), i, i+1)
			next.Held = false
			next.advance()
			out = append(out, next)
		}
	}

	if policy == HoldOncePerTurn && s.Held {
		return out
	}
	if s.Piece == piece.None && s.Hold == piece.None {
		return out
	}
	next := s
	if s.Hold != piece.None {
		next.Piece, next.Hold = s.Hold, s.Piece
	} else {
		next.Hold = s.Piece
		next.advance()
	}
	next.Held = policy == HoldOncePerTurn
	return append(out, next)
}

func (s *State) key() uint64 {
	buf := make([]byte, 0, board.NumRows*board.NumCols+4*len(s.Remaining)+len(s.Queue)+3)
	for r := range s.Board {
		for _, t := range s.Board[r] {
			buf = append(buf, byte(t))
		}
	}
	for _, p := range s.Remaining {
		buf = append(buf, byte(p.Piece), p.Row, p.Col, byte(p.Rot))
	}
	buf = append(buf, 0xff)
	for _, p := range s.Queue {
		buf = append(buf, byte(p))
	}
	held := byte(0)
	if s.Held {
		held = 1
	}
	buf = append(buf, byte(s.Piece), byte(s.Hold), held)
	return xxhash.Sum64(buf)
}
