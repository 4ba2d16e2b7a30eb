package stats

import (
	"fmt"
	"strings"

	"github.com/domino14/pcfinder/piece"
)

// Session tallies one practice run. It is a value so that the game's undo
// stack can snapshot it.
type Session struct {
	Pieces      int
	Faults      int
	LinesClears int
	PCs         int
	// Faults per placement, by piece kind.
	PerPiece [piece.NumKinds]Statistic
}

// RecordPlacement notes one locked piece and how many finesse faults it
// cost.
func (s *Session) RecordPlacement(p piece.Piece, faults, linesCleared int, perfectClear bool) {
	s.Pieces++
	s.Faults += faults
	s.LinesClears += linesCleared
	if perfectClear {
		s.PCs++
	}
	s.PerPiece[p].Push(float64(faults))
}

// FaultRate is faults per piece.
func (s *Session) FaultRate() float64 {
	if s.Pieces == 0 {
		return 0
	}
	return float64(s.Faults) / float64(s.Pieces)
}

func (s *Session) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "pieces: %d  faults: %d (%.2f/piece)  lines: %d  pcs: %d\n",
		s.Pieces, s.Faults, s.FaultRate(), s.LinesClears, s.PCs)
	for _, p := range piece.All {
		st := &s.PerPiece[p]
		if st.Iterations() == 0 {
			continue
		}
		fmt.Fprintf(&sb, "  %v: %3d placed, %.2f faults avg, worst %.0f\n",
			p, st.Iterations(), st.Mean(), st.Max())
	}
	return sb.String()
}
