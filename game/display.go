package game

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/pcfinder/piece"
)

func addText(lines []string, row int, hpad int, text string) {
	if row >= len(lines) {
		return
	}
	lines[row] = lines[row] + strings.Repeat(" ", hpad) + text
}

// ToDisplayText draws the well with the active piece in it, plus hold,
// previews and the running tallies alongside.
func (g *Game) ToDisplayText() string {
	b := g.board
	if !g.over {
		for _, c := range g.active.Cells() {
			b.Set(c.Row, c.Col, g.active.Piece)
		}
	}
	bts := strings.Split(b.ToDisplayText(), "\n")
	hpadding := 3

	hold := g.hold.String()
	if g.held {
		hold += " (used)"
	}
	addText(bts, 3, hpadding, "Hold: "+hold)
	addText(bts, 4, hpadding, "Next: "+strings.Join(lo.Map(g.queue, func(p piece.Piece, _ int) string {
		return p.String()
	}), " "))
	addText(bts, 6, hpadding, fmt.Sprintf("Pieces: %d  Faults: %d  PCs: %d",
		g.session.Pieces, g.session.Faults, g.session.PCs))
	if g.session.Pieces > 0 {
		addText(bts, 7, hpadding, fmt.Sprintf("Last: %v  %v", g.lastPlaced, g.lastFinesse))
	}
	addText(bts, 9, hpadding, fmt.Sprintf("Perfect clears found: %d", len(g.pcs)))
	if g.over {
		addText(bts, 11, hpadding, "Game is over.")
	}
	return strings.Join(bts, "\n")
}
