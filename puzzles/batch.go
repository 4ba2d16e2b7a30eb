package puzzles

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/pcfinder/pcsolver"
)

// Outcome is the result of solving one puzzle.
type Outcome struct {
	Puzzle    Puzzle
	Solutions []pcsolver.Pc
	Stats     pcsolver.Stats
}

// SolveAll solves puzzles in parallel, at most limit at a time, each with
// its own solver from newSolver. Outcomes come back in input order. The
// first error (including cancellation of ctx) stops the batch.
func SolveAll(ctx context.Context, ps []Puzzle, newSolver func() *pcsolver.Solver, limit int) ([]Outcome, error) {
	out := make([]Outcome, len(ps))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	tstart := time.Now()
	for i, p := range ps {
		g.Go(func() error {
			s := newSolver()
			sols, err := s.Solve(ctx, p.Snapshot())
			if err != nil {
				return err
			}
			out[i] = Outcome{Puzzle: p, Solutions: sols, Stats: s.Stats()}
			log.Debug().Str("puzzle", p.Name).Int("solutions", len(sols)).
				Uint64("nodes", out[i].Stats.Nodes).Msg("puzzle-solved")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info().Int("puzzles", len(ps)).Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("batch-finished")
	return out, nil
}
