package game

import (
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/domino14/pcfinder/board"
	"github.com/domino14/pcfinder/finesse"
	"github.com/domino14/pcfinder/movegen"
	"github.com/domino14/pcfinder/piece"
	"github.com/domino14/pcfinder/stats"
)

// MaxUndo bounds the backup stack. The oldest backups are dropped first.
const MaxUndo = 100

// stateBackup is a subset of Game, meant only for undo.
type stateBackup struct {
	board       board.Board
	current     piece.Piece
	hold        piece.Piece
	held        bool
	queue       []piece.Piece
	bag         []piece.Piece
	session     stats.Session
	placed      int
	pcStart     int
	over        bool
	lastFinesse finesse.Result
}

func (g *Game) backupState() {
	st := &stateBackup{
		board:       g.board,
		current:     g.active.Piece,
		hold:        g.hold,
		held:        g.held,
		queue:       slices.Clone(g.queue),
		bag:         slices.Clone(g.rand.bag),
		session:     g.session,
		placed:      g.placed,
		pcStart:     g.pcStart,
		over:        g.over,
		lastFinesse: g.lastFinesse,
	}
	if len(g.stateStack) == MaxUndo {
		g.stateStack = slices.Delete(g.stateStack, 0, 1)
	}
	g.stateStack = append(g.stateStack, st)
}

// Undo takes back the last lock (or puzzle load). The piece that was
// locked goes back to its spawn position. Pieces dealt after the undo may
// differ from the ones dealt the first time.
func (g *Game) Undo() error {
	if len(g.stateStack) == 0 {
		return ErrNothingToUndo
	}
	b := g.stateStack[len(g.stateStack)-1]
	g.stateStack = g.stateStack[:len(g.stateStack)-1]

	g.board = b.board
	g.hold = b.hold
	g.held = b.held
	g.queue = b.queue
	g.rand.bag = b.bag
	g.session = b.session
	g.placed = b.placed
	g.pcStart = b.pcStart
	g.lastFinesse = b.lastFinesse
	g.over = b.over
	g.active = movegen.Spawn(b.current)
	g.inputs = g.inputs[:0]
	log.Debug().Int("pieces", g.placed).Int("stack", len(g.stateStack)).Msg("undo")
	g.refresh()
	return nil
}

// UndoDepth is how many locks can be taken back.
func (g *Game) UndoDepth() int {
	return len(g.stateStack)
}
