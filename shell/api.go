package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/domino14/pcfinder/config"
	"github.com/domino14/pcfinder/game"
	"github.com/domino14/pcfinder/move"
	"github.com/domino14/pcfinder/movegen"
	"github.com/domino14/pcfinder/puzzles"
)

const defaultPCListing = 5

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func (c CmdOptions) StringArray(key string) []string {
	return c[key]
}

func msg(message string) *Response {
	return &Response{message: message}
}

type handler func(*shellcmd) (*Response, error)

func (sc *ShellController) commands() map[string]handler {
	return map[string]handler{
		"help":    sc.help,
		"new":     sc.newGame,
		"show":    sc.show,
		"in":      sc.input,
		"hold":    sc.hold,
		"place":   sc.place,
		"finesse": sc.finesse,
		"pc":      sc.pc,
		"setups":  sc.setups,
		"load":    sc.load,
		"save":    sc.save,
		"undo":    sc.undo,
		"set":     sc.set,
		"stats":   sc.stats,
		"bench":   sc.bench,
		"exit":    sc.exit,
	}
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	if len(cmd.args) == 0 {
		usage(&sb)
	} else {
		usageTopic(&sb, cmd.args[0])
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	seed := uint64(sc.config.GetInt64(config.ConfigSeed))
	if len(cmd.args) > 0 {
		var err error
		seed, err = strconv.ParseUint(cmd.args[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad seed: %w", err)
		}
	}
	sc.game = game.NewGame(seed, sc.searcher())
	return msg(fmt.Sprintf("seed %d\n%s", sc.game.Seed(), sc.game.ToDisplayText())), nil
}

// searcher is nil-safe; a typed nil would look like a live searcher to the
// game.
func (sc *ShellController) searcher() game.Searcher {
	if sc.worker == nil {
		return nil
	}
	return sc.worker
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) input(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: in <movement> [movement...]")
	}
	ms, err := move.ParseMovements(strings.Join(cmd.args, " "))
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		if err := sc.game.Input(m); err != nil {
			return nil, err
		}
	}
	return sc.afterMove(), nil
}

func (sc *ShellController) hold(cmd *shellcmd) (*Response, error) {
	if err := sc.game.Hold(); err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) place(cmd *shellcmd) (*Response, error) {
	pl, err := move.ParsePlacement(strings.Join(cmd.args, " "))
	if err != nil {
		return nil, err
	}
	if err := sc.game.Place(pl); err != nil {
		return nil, err
	}
	if pl.Hold {
		return msg(sc.game.ToDisplayText()), nil
	}
	return sc.afterMove(), nil
}

func (sc *ShellController) afterMove() *Response {
	out := sc.game.ToDisplayText()
	if sc.game.Placed() > 0 && sc.game.Inputs() == 0 {
		out += "\n" + sc.game.LastFinesse().String()
	}
	return msg(out)
}

// reachablePlacements lists where the active piece can come to rest, one
// entry per distinct footprint.
func (sc *ShellController) reachablePlacements() []move.Placement {
	b := sc.game.Board()
	active := sc.game.Active()
	poses := lo.UniqBy(movegen.Locations(&b, active.Piece), func(p movegen.Pose) movegen.Pose {
		return p.Canonical()
	})
	out := lo.Map(poses, func(p movegen.Pose, _ int) move.Placement {
		return p.Canonical().Placement()
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row > out[j].Row
		}
		if out[i].Col != out[j].Col {
			return out[i].Col < out[j].Col
		}
		return out[i].Rot < out[j].Rot
	})
	return out
}

func (sc *ShellController) finesse(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		if sc.game.Placed() == 0 {
			return msg("nothing placed yet"), nil
		}
		return msg(fmt.Sprintf("%v: %v", sc.game.LastPlacement(), sc.game.LastFinesse())), nil
	}
	pl, err := move.ParsePlacement(strings.Join(cmd.args, " "))
	if err != nil {
		return nil, err
	}
	if pl.Hold {
		return msg("hold"), nil
	}
	b := sc.game.Board()
	paths := movegen.FinessePaths(&b, pl.Piece)
	target := movegen.FromPlacement(pl)
	path, ok := paths[target]
	if !ok {
		path, ok = paths[target.Symmetrical()]
	}
	if !ok {
		return nil, game.ErrUnreachable
	}
	return msg(move.MovementsString(path)), nil
}

func (sc *ShellController) pc(cmd *shellcmd) (*Response, error) {
	n, err := cmd.options.IntDefault("n", defaultPCListing)
	if err != nil {
		return nil, err
	}
	if len(cmd.args) > 0 && cmd.args[0] == "wait" && !sc.game.Searched() {
		if sc.worker == nil {
			return nil, errors.New("no search worker")
		}
		secs, err := cmd.options.IntDefault("timeout", 30)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(secs)*time.Second)
		defer cancel()
		sc.game.Tick()
		if !sc.game.Searched() {
			r, err := sc.worker.Wait(ctx)
			if err != nil {
				return nil, err
			}
			sc.game.Accept(r)
		}
	}
	if !sc.game.Searched() {
		return msg("search in progress; try pc wait"), nil
	}
	return msg(sc.pcListing(n)), nil
}

func (sc *ShellController) pcListing(n int) string {
	pcs := sc.game.PCs()
	st := sc.game.PCStats()
	var sb strings.Builder
	sb.WriteString(sc.printer.Sprintf("%d perfect clear(s), %d nodes in %v",
		len(pcs), st.Nodes, st.Elapsed.Round(time.Millisecond)))
	if st.Truncated {
		sb.WriteString(" (node budget hit)")
	}
	sb.WriteString("\n")
	for i, p := range pcs {
		if i == n {
			fmt.Fprintf(&sb, "... %d more\n", len(pcs)-n)
			break
		}
		fmt.Fprintf(&sb, "%d. height %d: %v\n", i+1, p.Height, p)
		pic := p.Picture()
		for _, row := range pic.Rows() {
			sb.WriteString("     " + row + "\n")
		}
	}
	return sb.String()
}

func (sc *ShellController) setups(cmd *shellcmd) (*Response, error) {
	q := sc.game.SetupQuery()
	found := sc.library.Find(q)
	var sb strings.Builder
	fmt.Fprintf(&sb, "pc slot %d: %d setup(s) buildable\n", q.Slot(), len(found))
	for _, s := range found {
		sb.WriteString("  " + s.String() + "\n")
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: load <file> [name]")
	}
	ps, err := puzzles.Load(cmd.args[0])
	if err != nil {
		return nil, err
	}
	name := cmd.options.String("name")
	if len(cmd.args) > 1 {
		name = cmd.args[1]
	}
	p, err := puzzles.Find(ps, name)
	if err != nil {
		return nil, err
	}
	sc.puzzles = ps
	sc.game.Load(p.Board, p.Current, p.Hold, p.Queue)
	return msg(fmt.Sprintf("loaded %s\n%s", p.Name, sc.game.ToDisplayText())), nil
}

// save writes the current position into a puzzle file. A puzzle with the
// same name is replaced; others in the file are kept.
func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: save <file> [name]")
	}
	path := cmd.args[0]
	name := cmd.options.String("name")
	if len(cmd.args) > 1 {
		name = cmd.args[1]
	}
	if name == "" {
		name = fmt.Sprintf("seed-%d-piece-%d", sc.game.Seed(), sc.game.Placed())
	}
	var existing []puzzles.Puzzle
	if _, err := os.Stat(path); err == nil {
		if existing, err = puzzles.Load(path); err != nil {
			return nil, err
		}
	}
	existing = lo.Reject(existing, func(p puzzles.Puzzle, _ int) bool { return p.Name == name })
	existing = append(existing, puzzles.FromSnapshot(name, sc.game.Snapshot()))
	if err := puzzles.Save(path, existing); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("saved %s to %s", name, path)), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if err := sc.game.Undo(); err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText()), nil
}

var settable = []string{
	config.ConfigPCLookahead, config.ConfigPCMaxHeight, config.ConfigPCMaxNodes,
	config.ConfigPCMemoryFraction, config.ConfigSetupHoldPolicy, config.ConfigSetupsPath,
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		var sb strings.Builder
		sb.WriteString("Settings:\n")
		for _, k := range settable {
			fmt.Fprintf(&sb, "  %s: %v\n", k, sc.config.Get(k))
		}
		return msg(sb.String()), nil
	}
	key := cmd.args[0]
	if !lo.Contains(settable, key) {
		return nil, fmt.Errorf("no such setting: %s", key)
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%v", sc.config.Get(key))), nil
	}
	old := sc.config.Get(key)
	sc.config.Set(key, cmd.args[1])
	if err := sc.config.Validate(); err != nil {
		sc.config.Set(key, old)
		return nil, err
	}
	switch key {
	case config.ConfigSetupHoldPolicy, config.ConfigSetupsPath:
		if err := sc.loadLibrary(); err != nil {
			sc.config.Set(key, old)
			return nil, err
		}
	default:
		if sc.worker != nil {
			sc.restartWorker()
		}
	}
	return msg("set " + key + " to " + cmd.args[1]), nil
}

func (sc *ShellController) stats(cmd *shellcmd) (*Response, error) {
	s := sc.game.Session()
	return msg(s.String()), nil
}

func (sc *ShellController) exit(cmd *shellcmd) (*Response, error) {
	return nil, errExit
}
