package stats

import (
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/pcfinder/piece"
)

func TestSession(t *testing.T) {
	is := is.New(t)
	var s Session
	is.Equal(s.FaultRate(), 0.0)

	s.RecordPlacement(piece.T, 2, 0, false)
	s.RecordPlacement(piece.T, 0, 1, false)
	s.RecordPlacement(piece.I, 1, 4, true)

	is.Equal(s.Pieces, 3)
	is.Equal(s.Faults, 3)
	is.Equal(s.LinesClears, 5)
	is.Equal(s.PCs, 1)
	is.True(FuzzyEqual(s.FaultRate(), 1))
	is.Equal(s.PerPiece[piece.T].Iterations(), 2)
	is.True(FuzzyEqual(s.PerPiece[piece.T].Mean(), 1))

	out := s.String()
	is.True(strings.Contains(out, "pcs: 1"))
	is.True(strings.Contains(out, "T:   2 placed"))
	is.True(!strings.Contains(out, "O:"))
}
