package worker

import (
	"context"

	"github.com/domino14/pcfinder/pcsolver"
)

// Job is one search request posted by Restart.
type Job struct {
	// Generation increases with every Restart. Only the newest generation
	// is ever delivered.
	Generation uint64

	// A private copy of the position to search.
	Snapshot pcsolver.Snapshot

	ctx context.Context
}

// Result is a finished search.
type Result struct {
	Generation uint64
	Solutions  []pcsolver.Pc
	Stats      pcsolver.Stats
}
