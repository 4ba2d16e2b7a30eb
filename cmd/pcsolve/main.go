// pcsolve solves every puzzle in a puzzle file and prints the perfect
// clears found.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/domino14/pcfinder/config"
	"github.com/domino14/pcfinder/pcsolver"
	"github.com/domino14/pcfinder/puzzles"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if len(cfg.Args()) == 0 {
		fmt.Fprintln(os.Stderr, "usage: pcsolve [flags] <puzzles.yaml> [name...]")
		os.Exit(2)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	lvl := zerolog.InfoLevel
	if cfg.GetBool(config.ConfigDebug) {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(output).Level(lvl).With().Timestamp().Logger()

	ps, err := puzzles.Load(cfg.Args()[0])
	if err != nil {
		log.Fatal().Err(err).Msg("loading puzzles")
	}
	if names := cfg.Args()[1:]; len(names) > 0 {
		var picked []puzzles.Puzzle
		for _, n := range names {
			p, err := puzzles.Find(ps, n)
			if err != nil {
				log.Fatal().Err(err).Msg("")
			}
			picked = append(picked, p)
		}
		ps = picked
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	newSolver := func() *pcsolver.Solver {
		s := pcsolver.NewSolver()
		s.SetLookahead(cfg.GetInt(config.ConfigPCLookahead))
		s.SetMaxHeight(cfg.GetInt(config.ConfigPCMaxHeight))
		s.SetMaxNodes(cfg.GetInt(config.ConfigPCMaxNodes))
		// Searches run side by side, so each gets a share of the budget.
		s.SetMemoryFraction(cfg.GetFloat64(config.ConfigPCMemoryFraction) /
			float64(max(1, cfg.GetInt(config.ConfigPCSolveConcurrency))))
		return s
	}
	outs, err := puzzles.SolveAll(ctx, ps, newSolver, cfg.GetInt(config.ConfigPCSolveConcurrency))
	if err != nil {
		log.Fatal().Err(err).Msg("solving")
	}

	p := message.NewPrinter(language.English)
	for _, o := range outs {
		p.Printf("%s: %d perfect clear(s), %d nodes, %v\n", o.Puzzle.Name,
			len(o.Solutions), o.Stats.Nodes, o.Stats.Elapsed.Round(time.Millisecond))
		for _, pc := range o.Solutions {
			fmt.Printf("  height %d: %v\n", pc.Height, pc)
			pic := pc.Picture()
			fmt.Println("    " + strings.Join(pic.Rows(), "\n    "))
		}
	}
}
