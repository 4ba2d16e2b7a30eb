// Package finesse grades how efficiently a piece was placed.
package finesse

import (
	"fmt"

	"github.com/domino14/pcfinder/board"
	"github.com/domino14/pcfinder/move"
	"github.com/domino14/pcfinder/movegen"
	"github.com/domino14/pcfinder/piece"
)

// Result is the outcome of one evaluation. Optimal is only filled in when
// Faults > 0.
type Result struct {
	Faults  int
	Optimal []move.Movement
	// Found is false when the target was not a reachable rest placement.
	Found bool
}

func (r Result) String() string {
	switch {
	case !r.Found:
		return "finesse: placement not reachable"
	case r.Faults == 0:
		return "finesse: ok"
	}
	return fmt.Sprintf("finesse: %d fault(s), optimal: %s", r.Faults,
		move.MovementsString(r.Optimal))
}

// Evaluate compares the number of inputs the player used against the
// shortest path to target. An unreachable target scores zero faults.
func Evaluate(b *board.Board, p piece.Piece, inputs int, target movegen.Pose) Result {
	paths := movegen.FinessePaths(b, p)
	path, ok := paths[target]
	if !ok {
		path, ok = paths[target.Symmetrical()]
	}
	if !ok {
		return Result{}
	}
	faults := max(0, inputs-len(path))
	res := Result{Faults: faults, Found: true}
	if faults > 0 {
		res.Optimal = path
	}
	return res
}
