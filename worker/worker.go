package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/pcfinder/pcsolver"
)

const DefaultProgressInterval = time.Second

// Solver is what the worker drives. *pcsolver.Solver satisfies it.
type Solver interface {
	Solve(ctx context.Context, snap pcsolver.Snapshot) ([]pcsolver.Pc, error)
	Nodes() uint64
	Stats() pcsolver.Stats
}

// SearchWorker runs perfect-clear searches on one long-lived goroutine.
// Callers post positions with Restart and pick up answers with Poll; at
// most one search is live at a time and only the newest one is delivered.
type SearchWorker struct {
	solver           Solver
	progressInterval time.Duration

	// one-slot mailboxes; a newer entry replaces an unread one.
	jobs    chan Job
	results chan Result

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    atomic.Uint64
}

// New creates a worker. Nothing runs until Run is called.
func New(s Solver) *SearchWorker {
	return &SearchWorker{
		solver:           s,
		progressInterval: DefaultProgressInterval,
		jobs:             make(chan Job, 1),
		results:          make(chan Result, 1),
	}
}

func (w *SearchWorker) SetProgressInterval(d time.Duration) {
	w.progressInterval = d
}

// Generation is the generation of the newest Restart.
func (w *SearchWorker) Generation() uint64 {
	return w.gen.Load()
}

// Restart cancels whatever search is in flight and queues a search of snap.
// The snapshot is copied. It returns the new generation. It never blocks
// on the search itself.
func (w *SearchWorker) Restart(snap pcsolver.Snapshot) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	gen := w.gen.Add(1)

	// Drop a job that has not been picked up yet.
	select {
	case old := <-w.jobs:
		log.Debug().Uint64("generation", old.Generation).Msg("search-superseded")
	default:
	}
	w.jobs <- Job{Generation: gen, Snapshot: snap.Clone(), ctx: ctx}
	return gen
}

// Cancel stops the in-flight search without starting another. Nothing is
// delivered for it.
func (w *SearchWorker) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.gen.Add(1)
}

// Run is the worker loop. It returns when ctx is done.
func (w *SearchWorker) Run(ctx context.Context) error {
	log.Info().Dur("progress-interval", w.progressInterval).Msg("starting search worker")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("search worker shutting down")
			return ctx.Err()
		case job := <-w.jobs:
			w.process(ctx, job)
		}
	}
}

func (w *SearchWorker) process(ctx context.Context, job Job) {
	jctx, cancel := context.WithCancel(job.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	progressTicker := time.NewTicker(w.progressInterval)
	defer progressTicker.Stop()
	done := make(chan struct{})
	defer close(done)
	go func() {
		var lastNodes uint64
		for {
			select {
			case <-done:
				return
			case <-jctx.Done():
				return
			case <-progressTicker.C:
				nodes := w.solver.Nodes()
				log.Debug().
					Uint64("generation", job.Generation).
					Uint64("nodes", nodes).
					Uint64("nps", nodes-lastNodes).
					Msg("search-progress")
				lastNodes = nodes
			}
		}
	}()

	pcs, err := w.solver.Solve(jctx, job.Snapshot)
	if err != nil {
		log.Debug().Err(err).Uint64("generation", job.Generation).Msg("search-abandoned")
		return
	}
	// A search that finished just as it was cancelled is still stale.
	if jctx.Err() != nil || job.Generation != w.gen.Load() {
		return
	}
	w.deliver(Result{Generation: job.Generation, Solutions: pcs, Stats: w.solver.Stats()})
}

func (w *SearchWorker) deliver(r Result) {
	select {
	case <-w.results:
	default:
	}
	select {
	case w.results <- r:
	default:
	}
}

// Poll returns the newest finished result, if there is one. It never
// blocks. Each result is returned once.
func (w *SearchWorker) Poll() (Result, bool) {
	for {
		select {
		case r := <-w.results:
			if r.Generation != w.gen.Load() {
				continue
			}
			return r, true
		default:
			return Result{}, false
		}
	}
}

// Wait blocks until a current result arrives or ctx is done.
func (w *SearchWorker) Wait(ctx context.Context) (Result, error) {
	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case r := <-w.results:
			if r.Generation != w.gen.Load() {
				continue
			}
			return r, nil
		}
	}
}
