package movegen

import (
	"slices"

	"github.com/domino14/pcfinder/board"
	"github.com/domino14/pcfinder/move"
	"github.com/domino14/pcfinder/piece"
)

// Every non-intersecting anchor lies within two tiles of the grid, so a
// padded grid of (row, col, rot) bits covers the whole pose space.
const (
	pad      = 2
	gridRows = board.NumRows + 2*pad
	gridCols = board.NumCols + 2*pad
	numBits  = gridRows * gridCols * 4
)

type poseSet [(numBits + 63) / 64]uint64

func poseIndex(s Pose) int {
	return ((int(s.Row)+pad)*gridCols+int(s.Col)+pad)*4 + int(s.Rot)
}

func (ps *poseSet) has(s Pose) bool {
	i := poseIndex(s)
	return ps[i>>6]&(1<<(i&63)) != 0
}

func (ps *poseSet) add(s Pose) {
	i := poseIndex(s)
	ps[i>>6] |= 1 << (i & 63)
}

type node struct {
	pose   Pose
	parent int32
	via    move.Movement
}

// A rest is a placement discovered during the search along with the node it
// was hard dropped from.
type rest struct {
	pose Pose
	from int32
}

// search runs the breadth-first traversal from spawn. nodes doubles as the
// BFS queue. Rest placements are reported in discovery order, each
// footprint once.
func search(b *board.Board, p piece.Piece) ([]node, []rest) {
	start := Spawn(p)
	if start.Intersects(b) {
		return nil, nil
	}
	var visited, placed poseSet
	nodes := make([]node, 1, 256)
	nodes[0] = node{pose: start, parent: -1}
	visited.add(start)
	var rests []rest

	for i := 0; i < len(nodes); i++ {
		cur := nodes[i].pose
		r := cur.Drop(b)
		if !placed.has(r) && !placed.has(r.Symmetrical()) {
			placed.add(r)
			rests = append(rests, rest{pose: r, from: int32(i)})
		}
		for _, e := range cur.Successors(b) {
			if visited.has(e.Pose) {
				continue
			}
			visited.add(e.Pose)
			nodes = append(nodes, node{pose: e.Pose, parent: int32(i), via: e.Movement})
		}
	}
	return nodes, rests
}

// Locations returns every rest placement p can reach from spawn, in BFS
// discovery order. Each footprint appears once. A piece whose spawn is
// blocked has no locations.
func Locations(b *board.Board, p piece.Piece) []Pose {
	_, rests := search(b, p)
	out := make([]Pose, len(rests))
	for i, r := range rests {
		out[i] = r.pose
	}
	return out
}

// FinessePaths maps each rest placement to a shortest input sequence that
// reaches it. Each sequence ends in HardDrop. Both encodings of a symmetric
// footprint are keyed.
func FinessePaths(b *board.Board, p piece.Piece) map[Pose][]move.Movement {
	nodes, rests := search(b, p)
	paths := make(map[Pose][]move.Movement, len(rests)*2)
	for _, r := range rests {
		path := []move.Movement{move.HardDrop}
		for i := r.from; nodes[i].parent >= 0; i = nodes[i].parent {
			path = append(path, nodes[i].via)
		}
		slices.Reverse(path)
		paths[r.pose] = path
		paths[r.pose.Symmetrical()] = path
	}
	return paths
}

// Reachable is true if target, or a pose with the same footprint, is a rest
// placement reachable from spawn.
func Reachable(b *board.Board, target Pose) bool {
	want := target.Canonical()
	for _, l := range Locations(b, target.Piece) {
		if l.Canonical() == want {
			return true
		}
	}
	return false
}
