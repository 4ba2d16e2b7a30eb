// Package puzzles reads and writes perfect-clear positions as YAML.
package puzzles

import (
	"errors"
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/domino14/pcfinder/board"
	"github.com/domino14/pcfinder/pcsolver"
	"github.com/domino14/pcfinder/piece"
)

var (
	ErrNoCurrent      = errors.New("puzzle has no current piece")
	ErrPuzzleNotFound = errors.New("puzzle not found")
	ErrBadHeight      = errors.New("height must be between 0 and 4")
)

// Puzzle is one position to solve.
type Puzzle struct {
	Name    string
	Board   board.Board
	Current piece.Piece
	Hold    piece.Piece
	Queue   []piece.Piece
	// Height fixes the band; zero lets the solver pick.
	Height int
}

type puzzleYAML struct {
	Name    string   `yaml:"name"`
	Board   []string `yaml:"board,flow"`
	Current string   `yaml:"current"`
	Hold    string   `yaml:"hold,omitempty"`
	Queue   string   `yaml:"queue"`
	Height  int      `yaml:"height,omitempty"`
}

type fileYAML struct {
	Puzzles []puzzleYAML `yaml:"puzzles"`
}

// Snapshot is the position handed to the solver.
func (p Puzzle) Snapshot() pcsolver.Snapshot {
	return pcsolver.Snapshot{
		Board:   p.Board,
		Current: p.Current,
		Hold:    p.Hold,
		Queue:   append([]piece.Piece(nil), p.Queue...),
		Height:  p.Height,
	}
}

// FromSnapshot names a position so it can be saved.
func FromSnapshot(name string, s pcsolver.Snapshot) Puzzle {
	return Puzzle{
		Name:    name,
		Board:   s.Board,
		Current: s.Current,
		Hold:    s.Hold,
		Queue:   append([]piece.Piece(nil), s.Queue...),
		Height:  s.Height,
	}
}

func (py puzzleYAML) decode() (Puzzle, error) {
	p := Puzzle{Name: py.Name, Height: py.Height}
	var err error
	if p.Board, err = board.FromRows(py.Board); err != nil {
		return p, err
	}
	if py.Current == "" {
		return p, ErrNoCurrent
	}
	if p.Current, err = piece.Parse(py.Current); err != nil {
		return p, err
	}
	if py.Hold != "" {
		if p.Hold, err = piece.Parse(py.Hold); err != nil {
			return p, err
		}
	}
	if p.Queue, err = piece.ParseQueue(py.Queue); err != nil {
		return p, err
	}
	if p.Height < 0 || p.Height > pcsolver.DefaultMaxHeight {
		return p, ErrBadHeight
	}
	return p, nil
}

func (p Puzzle) encode() puzzleYAML {
	py := puzzleYAML{
		Name:    p.Name,
		Board:   p.Board.Rows(),
		Current: p.Current.String(),
		Queue:   piece.QueueString(p.Queue),
		Height:  p.Height,
	}
	if p.Hold != piece.None {
		py.Hold = p.Hold.String()
	}
	return py
}

// Parse decodes a puzzle file.
func Parse(bts []byte) ([]Puzzle, error) {
	var f fileYAML
	if err := yaml.Unmarshal(bts, &f); err != nil {
		return nil, err
	}
	out := make([]Puzzle, 0, len(f.Puzzles))
	for i, py := range f.Puzzles {
		p, err := py.decode()
		if err != nil {
			return nil, fmt.Errorf("puzzle %d (%s): %w", i, py.Name, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Load reads a puzzle file from disk.
func Load(path string) ([]Puzzle, error) {
	bts, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ps, err := Parse(bts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ps, nil
}

// Marshal encodes puzzles in the file format Parse reads.
func Marshal(ps []Puzzle) ([]byte, error) {
	return yaml.Marshal(fileYAML{Puzzles: lo.Map(ps, func(p Puzzle, _ int) puzzleYAML {
		return p.encode()
	})})
}

// Save writes puzzles to path, replacing the file.
func Save(path string, ps []Puzzle) error {
	bts, err := Marshal(ps)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bts, 0o644)
}

// Find returns the puzzle with the given name. An empty name picks the
// first one.
func Find(ps []Puzzle, name string) (Puzzle, error) {
	if name == "" && len(ps) > 0 {
		return ps[0], nil
	}
	p, ok := lo.Find(ps, func(p Puzzle) bool { return p.Name == name })
	if !ok {
		return Puzzle{}, fmt.Errorf("%w: %q", ErrPuzzleNotFound, name)
	}
	return p, nil
}
