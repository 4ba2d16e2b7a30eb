package shell

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/domino14/pcfinder/config"
	"github.com/domino14/pcfinder/game"
	"github.com/domino14/pcfinder/stats"
)

const (
	defaultBenchPositions = 20
	histogramBins         = 10
	histogramWidth        = 40
)

type benchSample struct {
	ms        float64
	nodes     float64
	solutions int
	truncated bool
}

// bench solves the opening position of n seeded games and summarizes how
// long the solver took.
func (sc *ShellController) bench(cmd *shellcmd) (*Response, error) {
	n := defaultBenchPositions
	if len(cmd.args) > 0 {
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil || n < 1 {
			return nil, fmt.Errorf("bad position count %q", cmd.args[0])
		}
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigPCSolveConcurrency))
	if err != nil {
		return nil, err
	}
	seed, err := cmd.options.IntDefault("seed", 1)
	if err != nil {
		return nil, err
	}
	height, err := cmd.options.IntDefault("height", 0)
	if err != nil {
		return nil, err
	}
	samples, err := sc.runBench(context.Background(), n, uint64(seed), height, threads)
	if err != nil {
		return nil, err
	}
	return msg(sc.benchReport(samples)), nil
}

func (sc *ShellController) runBench(ctx context.Context, n int, seed uint64, height, threads int) ([]benchSample, error) {
	samples := make([]benchSample, n)
	g, ctx := errgroup.WithContext(ctx)
	if threads > 0 {
		g.SetLimit(threads)
	}
	tstart := time.Now()
	for i := range n {
		g.Go(func() error {
			snap := game.NewGame(seed+uint64(i), nil).Snapshot()
			snap.Height = height
			s := newConfiguredSolver(sc.config)
			t := time.Now()
			sols, err := s.Solve(ctx, snap)
			if err != nil {
				return err
			}
			st := s.Stats()
			samples[i] = benchSample{
				ms:        float64(time.Since(t).Microseconds()) / 1000,
				nodes:     float64(st.Nodes),
				solutions: len(sols),
				truncated: st.Truncated,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info().Int("positions", n).Int("threads", threads).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).Msg("bench-finished")
	return samples, nil
}

func (sc *ShellController) benchReport(samples []benchSample) string {
	var ms, nodes stats.Statistic
	times := make([]float64, len(samples))
	solved, truncated := 0, 0
	for i, s := range samples {
		ms.Push(s.ms)
		nodes.Push(s.nodes)
		times[i] = s.ms
		if s.solutions > 0 {
			solved++
		}
		if s.truncated {
			truncated++
		}
	}
	slices.Sort(times)
	lo, hi := ms.ConfidenceInterval(95)

	var sb strings.Builder
	sb.WriteString(sc.printer.Sprintf("positions: %d  with a pc: %d  budget hit: %d\n",
		len(samples), solved, truncated))
	sb.WriteString(sc.printer.Sprintf("time ms: mean %.2f (95%% ci %.2f to %.2f)  min %.2f  max %.2f\n",
		ms.Mean(), lo, hi, ms.Min(), ms.Max()))
	sb.WriteString(sc.printer.Sprintf("time ms: p50 %.2f  p90 %.2f  p99 %.2f\n",
		stat.Quantile(0.5, stat.Empirical, times, nil),
		stat.Quantile(0.9, stat.Empirical, times, nil),
		stat.Quantile(0.99, stat.Empirical, times, nil)))
	sb.WriteString(sc.printer.Sprintf("nodes: mean %.0f  max %.0f\n", nodes.Mean(), nodes.Max()))

	if ms.Max() > ms.Min() {
		hist := histogram.Hist(histogramBins, times)
		if err := histogram.Fprint(&sb, hist, histogram.Linear(histogramWidth)); err != nil {
			log.Err(err).Msg("histogram")
		}
	}
	return sb.String()
}
