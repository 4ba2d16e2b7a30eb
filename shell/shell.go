package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/domino14/pcfinder/config"
	"github.com/domino14/pcfinder/game"
	"github.com/domino14/pcfinder/pcsolver"
	"github.com/domino14/pcfinder/puzzles"
	"github.com/domino14/pcfinder/setups"
	"github.com/domino14/pcfinder/worker"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errExit              = errors.New("exit requested")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type ShellController struct {
	l      *readline.Instance
	config *config.Config

	game    *game.Game
	library *setups.Library
	puzzles []puzzles.Puzzle

	worker       *worker.SearchWorker
	workerCancel context.CancelFunc
	workerDone   chan struct{}

	printer *message.Printer
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// NewShellController builds the setup library, starts the background
// search worker and deals a new game.
func NewShellController(cfg *config.Config) (*ShellController, error) {
	sc := &ShellController{
		config:  cfg,
		printer: message.NewPrinter(language.English),
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[36mpcfinder>\033[0m ",
		HistoryFile:     cfg.GetString(config.ConfigHistoryFile),
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	sc.l = l
	if err := sc.loadLibrary(); err != nil {
		l.Close()
		return nil, err
	}
	sc.startWorker()
	sc.game = game.NewGame(uint64(cfg.GetInt64(config.ConfigSeed)), sc.worker)
	return sc, nil
}

func (sc *ShellController) loadLibrary() error {
	policy, err := setups.ParseHoldPolicy(sc.config.GetString(config.ConfigSetupHoldPolicy))
	if err != nil {
		return err
	}
	lib, err := setups.LoadLibrary(sc.config.SetupsPaths(), policy)
	if err != nil {
		return err
	}
	sc.library = lib
	return nil
}

func newConfiguredSolver(cfg *config.Config) *pcsolver.Solver {
	s := pcsolver.NewSolver()
	s.SetLookahead(cfg.GetInt(config.ConfigPCLookahead))
	s.SetMaxHeight(cfg.GetInt(config.ConfigPCMaxHeight))
	s.SetMaxNodes(cfg.GetInt(config.ConfigPCMaxNodes))
	s.SetMemoryFraction(cfg.GetFloat64(config.ConfigPCMemoryFraction))
	return s
}

func (sc *ShellController) startWorker() {
	w := worker.New(newConfiguredSolver(sc.config))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Err(err).Msg("search-worker-exited")
		}
	}()
	sc.worker = w
	sc.workerCancel = cancel
	sc.workerDone = done
}

// stopWorker returns once the worker goroutine is gone, so its solver may
// be discarded safely.
func (sc *ShellController) stopWorker() {
	if sc.worker == nil {
		return
	}
	sc.worker.Cancel()
	sc.workerCancel()
	<-sc.workerDone
	sc.worker = nil
}

// restartWorker replaces the worker with one whose solver reflects the
// current config.
func (sc *ShellController) restartWorker() {
	sc.stopWorker()
	sc.startWorker()
	sc.game.SetSearcher(sc.worker)
}

func (sc *ShellController) Cleanup() {
	sc.stopWorker()
	if sc.l != nil {
		sc.l.Close()
	}
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		// Negative numbers are arguments, not options.
		if strings.HasPrefix(f, "-") && len(f) > 1 && (f[1] < '0' || f[1] > '9') {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := f[1:]
			options[key] = append(options[key], fields[i+1])
			i++
			continue
		}
		args = append(args, f)
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

// Execute runs a semicolon-separated list of commands without the
// interactive prompt.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	for _, part := range strings.Split(line, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if err := sc.dispatch(part); err != nil {
			if errors.Is(err, errExit) {
				sig <- syscall.SIGINT
				return
			}
			sc.showError(err)
		}
	}
}

func (sc *ShellController) dispatch(line string) error {
	cmd, err := extractFields(line)
	if err != nil {
		if errors.Is(err, errNoData) {
			return nil
		}
		return err
	}
	h, ok := sc.commands()[cmd.cmd]
	if !ok {
		return fmt.Errorf("command %q not found; try help", cmd.cmd)
	}
	resp, err := h(cmd)
	if err != nil {
		return err
	}
	// A finished background search is picked up on every command.
	sc.game.Tick()
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return nil
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	sc.showMessage(sc.game.ToDisplayText())
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		if err := sc.dispatch(line); err != nil {
			if errors.Is(err, errExit) {
				sig <- syscall.SIGINT
				break
			}
			sc.showError(err)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
