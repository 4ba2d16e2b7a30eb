package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/pcfinder/piece"
)

var ErrTooManyRows = errors.New("board has too many rows")

// FromRows builds a board from text rows, bottom aligned: the last string is
// the bottom row of the well. Each row holds up to ten tile characters as
// accepted by piece.FromRune; shorter rows are padded with empty tiles.
func FromRows(rows []string) (Board, error) {
	var b Board
	if len(rows) > NumRows {
		return b, ErrTooManyRows
	}
	top := NumRows - len(rows)
	for i, line := range rows {
		runes := []rune(line)
		if len(runes) > NumCols {
			return b, fmt.Errorf("row %d: %q is wider than %d columns", i, line, NumCols)
		}
		for c, ch := range runes {
			p, err := piece.FromRune(ch)
			if err != nil {
				return b, fmt.Errorf("row %d: %w", i, err)
			}
			b[top+i][c] = p
		}
	}
	return b, nil
}

// FromString is FromRows over newline-separated text. Blank lines are
// skipped.
func FromString(s string) (Board, error) {
	var rows []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, strings.TrimSpace(line))
	}
	return FromRows(rows)
}

// Rows returns the board as bottom-aligned text rows, starting at the
// highest non-empty row. An empty board has no rows.
func (b *Board) Rows() []string {
	h := b.Height()
	rows := make([]string, 0, h)
	for r := NumRows - h; r < NumRows; r++ {
		var sb strings.Builder
		for _, t := range b[r] {
			sb.WriteString(t.String())
		}
		rows = append(rows, sb.String())
	}
	return rows
}

func (b Board) String() string {
	return strings.Join(b.Rows(), "\n")
}

// ToDisplayText draws the whole well with row numbers. A rule marks where
// the hidden rows end.
func (b *Board) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("    ")
	for c := 0; c < NumCols; c++ {
		fmt.Fprintf(&sb, "%d ", c)
	}
	sb.WriteString("\n")
	for r := 0; r < NumRows; r++ {
		if r == HiddenRows {
			sb.WriteString("   " + strings.Repeat("-", NumCols*2+1) + "\n")
		}
		fmt.Fprintf(&sb, "%2d| ", r)
		for _, t := range b[r] {
			sb.WriteString(t.String() + " ")
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   " + strings.Repeat("-", NumCols*2+1) + "\n")
	return "\n" + sb.String()
}
