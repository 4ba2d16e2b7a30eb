// Package game is a headless single-player model: a board, a falling piece,
// hold, previews and the bookkeeping around each lock.
package game

import (
	"errors"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/domino14/pcfinder/board"
	"github.com/domino14/pcfinder/finesse"
	"github.com/domino14/pcfinder/move"
	"github.com/domino14/pcfinder/movegen"
	"github.com/domino14/pcfinder/pcsolver"
	"github.com/domino14/pcfinder/piece"
	"github.com/domino14/pcfinder/setups"
	"github.com/domino14/pcfinder/stats"
	"github.com/domino14/pcfinder/worker"
)

// Previews is the number of queued pieces shown to the player.
const Previews = 5

var (
	ErrGameOver      = errors.New("game is over")
	ErrAlreadyHeld   = errors.New("hold already used for this piece")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrUnreachable   = errors.New("placement is not reachable")
	ErrWrongPiece    = errors.New("placement is for a different piece")
)

// Searcher runs perfect-clear searches in the background. The search
// worker implements it.
type Searcher interface {
	Restart(pcsolver.Snapshot) uint64
	Poll() (worker.Result, bool)
}

// Game holds the state of one practice session. It is not safe for
// concurrent use; background searches only ever see snapshots.
type Game struct {
	board  board.Board
	active movegen.Pose
	hold   piece.Piece
	held   bool
	queue  []piece.Piece
	rand   *randomizer

	// inputs recorded for the active piece, for finesse.
	inputs  []move.Movement
	session stats.Session
	placed  int
	pcStart int
	over    bool

	lastFinesse finesse.Result
	lastPlaced  move.Placement

	searcher Searcher
	pcs      []pcsolver.Pc
	pcStats  pcsolver.Stats
	// searched is set once a result for the current position arrives.
	searched bool

	stateStack []*stateBackup
}

// NewGame starts a game on an empty board. A zero seed picks a random one.
// searcher may be nil.
func NewGame(seed uint64, searcher Searcher) *Game {
	g := &Game{
		rand:     newRandomizer(seed),
		searcher: searcher,
	}
	g.fillQueue()
	g.spawn(g.popQueue())
	log.Debug().Uint64("seed", g.rand.seed).Msg("new-game")
	g.refresh()
	return g
}

func (g *Game) fillQueue() {
	for len(g.queue) < Previews {
		g.queue = append(g.queue, g.rand.next())
	}
}

func (g *Game) popQueue() piece.Piece {
	p := g.queue[0]
	g.queue = slices.Delete(slices.Clone(g.queue), 0, 1)
	g.fillQueue()
	return p
}

func (g *Game) spawn(p piece.Piece) {
	g.active = movegen.Spawn(p)
	g.inputs = g.inputs[:0]
	if g.active.Intersects(&g.board) {
		g.over = true
		log.Info().Int("pieces", g.placed).Msg("topped-out")
	}
}

// Input applies one movement to the active piece. HardDrop locks it.
func (g *Game) Input(m move.Movement) error {
	if g.over {
		return ErrGameOver
	}
	g.inputs = append(g.inputs, m)
	if m == move.HardDrop {
		g.lock()
		return nil
	}
	g.active = g.active.Apply(m, &g.board)
	return nil
}

// Hold swaps the active piece with the hold slot, or stashes it and takes
// the next piece. It may be used once per piece.
func (g *Game) Hold() error {
	if g.over {
		return ErrGameOver
	}
	if g.held {
		return ErrAlreadyHeld
	}
	cur := g.active.Piece
	if g.hold == piece.None {
		g.spawn(g.popQueue())
	} else {
		g.spawn(g.hold)
	}
	g.hold = cur
	g.held = true
	return nil
}

// Place locks the active piece straight into a placement, as if it had been
// played with the shortest input sequence.
func (g *Game) Place(pl move.Placement) error {
	if pl.Hold {
		return g.Hold()
	}
	if g.over {
		return ErrGameOver
	}
	if pl.Piece != g.active.Piece {
		return ErrWrongPiece
	}
	target := movegen.FromPlacement(pl)
	paths := movegen.FinessePaths(&g.board, pl.Piece)
	path, ok := paths[target]
	if !ok {
		target = target.Symmetrical()
		path, ok = paths[target]
	}
	if !ok {
		return ErrUnreachable
	}
	g.active = target
	g.inputs = slices.Clone(path)
	g.lock()
	return nil
}

func (g *Game) lock() {
	g.backupState()

	p := g.active.Piece
	target := g.active.Drop(&g.board)
	g.lastFinesse = finesse.Evaluate(&g.board, p, len(g.inputs), target)
	g.lastPlaced = target.Placement()

	g.board = g.board.WithPlacement(p, int(target.Row), int(target.Col), target.Rot)
	cleared := g.board.ClearLines()
	pc := g.board.IsEmpty()
	g.session.RecordPlacement(p, g.lastFinesse.Faults, cleared, pc)
	g.placed++
	if pc {
		g.pcStart = g.placed
	}
	log.Debug().Str("placement", g.lastPlaced.String()).Int("faults", g.lastFinesse.Faults).
		Int("cleared", cleared).Bool("pc", pc).Msg("locked")

	g.held = false
	g.spawn(g.popQueue())
	g.refresh()
}

// refresh restarts the background search on the new position. Results for
// the old one are dropped.
func (g *Game) refresh() {
	g.pcs = nil
	g.searched = false
	if g.searcher == nil || g.over {
		return
	}
	g.searcher.Restart(g.Snapshot())
}

// Tick picks up a finished search, if any. It reports whether the solution
// set changed.
func (g *Game) Tick() bool {
	if g.searcher == nil {
		return false
	}
	r, ok := g.searcher.Poll()
	if !ok {
		return false
	}
	g.Accept(r)
	return true
}

// Accept installs a search result obtained outside of Tick, for example
// from a blocking wait on the worker.
func (g *Game) Accept(r worker.Result) {
	g.pcs = r.Solutions
	g.pcStats = r.Stats
	g.searched = true
}

// SetSearcher swaps the background searcher and restarts the search on the
// current position.
func (g *Game) SetSearcher(s Searcher) {
	g.searcher = s
	g.refresh()
}

// Snapshot is the current position as the solver sees it.
func (g *Game) Snapshot() pcsolver.Snapshot {
	return pcsolver.Snapshot{
		Board:   g.board,
		Current: g.active.Piece,
		Hold:    g.hold,
		Queue:   slices.Clone(g.queue),
	}
}

// SetupQuery describes the position for the setup matcher.
func (g *Game) SetupQuery() setups.Query {
	q := setups.Query{
		Board:   g.board,
		Current: g.active.Piece,
		Hold:    g.hold,
		Held:    g.held,
		Queue:   slices.Clone(g.queue),
		Placed:  g.placed,
		PCStart: g.pcStart,
	}
	if g.rand.remaining() > 0 {
		q.Upcoming = g.rand.peek()
	}
	return q
}

// Load replaces the position with a puzzle. The randomizer keeps dealing
// once the given queue runs out.
func (g *Game) Load(b board.Board, current, hold piece.Piece, queue []piece.Piece) {
	g.backupState()
	g.board = b
	g.hold = hold
	g.held = false
	g.queue = slices.Clone(queue)
	g.fillQueue()
	g.over = false
	g.pcStart = g.placed
	if current == piece.None {
		current = g.popQueue()
	}
	g.spawn(current)
	g.refresh()
}

func (g *Game) Board() board.Board { return g.board }
func (g *Game) Active() movegen.Pose { return g.active }
func (g *Game) HoldPiece() piece.Piece { return g.hold }
func (g *Game) Queue() []piece.Piece { return slices.Clone(g.queue) }
func (g *Game) Session() stats.Session { return g.session }
func (g *Game) Seed() uint64 { return g.rand.seed }
func (g *Game) Over() bool { return g.over }
func (g *Game) Placed() int { return g.placed }
func (g *Game) LastFinesse() finesse.Result { return g.lastFinesse }
func (g *Game) LastPlacement() move.Placement { return g.lastPlaced }
func (g *Game) PCs() []pcsolver.Pc { return g.pcs }
func (g *Game) PCStats() pcsolver.Stats { return g.pcStats }

// Searched reports whether PCs is the finished result for the current
// position.
func (g *Game) Searched() bool { return g.searched }

// Inputs is the number of movements recorded for the active piece.
func (g *Game) Inputs() int { return len(g.inputs) }
