package setups

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/domino14/pcfinder/board"
	"github.com/domino14/pcfinder/cache"
	"github.com/domino14/pcfinder/move"
	"github.com/domino14/pcfinder/movegen"
	"github.com/domino14/pcfinder/piece"
)

//go:embed data/*.yaml
var builtin embed.FS

// BagSize is the length of the randomizer cycle. Skeleton tables are keyed
// by where in the cycle a perfect clear starts.
const BagSize = 7

var (
	ErrBadSlot      = errors.New("slot must be between 1 and 7")
	ErrSelfOverlap  = errors.New("skeleton placements overlap or leave the board")
	ErrHoldInTable  = errors.New("skeletons may not contain hold")
	ErrNoPieceLimit = errors.New("piece_limit must be positive")
)

type setupFile struct {
	Slot       int         `yaml:"slot"`
	PieceLimit int         `yaml:"piece_limit"`
	Setups     []setupYAML `yaml:"setups"`
}

type setupYAML struct {
	Name       string   `yaml:"name"`
	Save       string   `yaml:"save,omitempty"`
	Placements []string `yaml:"placements"`
}

// Table is the set of skeletons for one bag slot.
type Table struct {
	Slot       int
	PieceLimit int
	Setups     []PcSetup
}

// Library holds every skeleton, mirrors included. It is not modified after
// NewLibrary returns.
type Library struct {
	tables map[int]*Table
	policy HoldPolicy
}

var libraries = cache.New[*Library]()

// LoadLibrary is NewLibrary behind a process-wide cache keyed by the policy
// and paths. Extra files are read only the first time.
func LoadLibrary(extraPaths []string, policy HoldPolicy) (*Library, error) {
	key := policy.String() + "|" + strings.Join(extraPaths, ",")
	return libraries.Get(key, func(string) (*Library, error) {
		return NewLibrary(extraPaths, policy)
	})
}

// NewLibrary loads the built-in tables plus any extra files, validates every
// skeleton and adds its mirror image.
func NewLibrary(extraPaths []string, policy HoldPolicy) (*Library, error) {
	lib := &Library{tables: map[int]*Table{}, policy: policy}
	names, err := fs.Glob(builtin, "data/*.yaml")
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		bts, err := builtin.ReadFile(name)
		if err != nil {
			return nil, err
		}
		if err := lib.add(name, bts); err != nil {
			return nil, err
		}
	}
	for _, path := range extraPaths {
		bts, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := lib.add(path, bts); err != nil {
			return nil, err
		}
	}
	for _, t := range lib.tables {
		t.Setups = withMirrors(t.Setups)
	}
	log.Debug().Int("skeletons", lib.Size()).Str("hold-policy", policy.String()).
		Msg("setup-library-built")
	return lib, nil
}

func (l *Library) add(source string, bts []byte) error {
	var f setupFile
	if err := yaml.Unmarshal(bts, &f); err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	if f.Slot < 1 || f.Slot > BagSize {
		return fmt.Errorf("%s: %w", source, ErrBadSlot)
	}
	t, ok := l.tables[f.Slot]
	if !ok {
		if f.PieceLimit <= 0 {
			return fmt.Errorf("%s: %w", source, ErrNoPieceLimit)
		}
		t = &Table{Slot: f.Slot, PieceLimit: f.PieceLimit}
		l.tables[f.Slot] = t
	}
	for i, sy := range f.Setups {
		s, err := sy.decode()
		if err != nil {
			return fmt.Errorf("%s: setup %d (%s): %w", source, i, sy.Name, err)
		}
		t.Setups = append(t.Setups, s)
	}
	return nil
}

func (sy setupYAML) decode() (PcSetup, error) {
	s := PcSetup{Name: sy.Name}
	if sy.Save != "" {
		p, err := piece.Parse(sy.Save)
		if err != nil {
			return s, err
		}
		s.Save = p
	}
	var b board.Board
	for _, str := range sy.Placements {
		p, err := move.ParsePlacement(str)
		if err != nil {
			return s, err
		}
		if p.Hold {
			return s, ErrHoldInTable
		}
		pose := movegen.FromPlacement(p)
		if pose.Intersects(&b) {
			return s, fmt.Errorf("%w: %v", ErrSelfOverlap, p)
		}
		b = b.WithPlacement(p.Piece, int(p.Row), int(p.Col), p.Rot)
		s.Placements = append(s.Placements, p)
	}
	return s, nil
}

// withMirrors appends the reflection of every skeleton that is not its own
// mirror image.
func withMirrors(in []PcSetup) []PcSetup {
	out := slices.Clone(in)
	var empty board.Board
	for _, s := range in {
		m := s.Mirror()
		if s.Board(empty) == m.Board(empty) && s.Save == m.Save {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Size is the total number of skeletons, mirrors included.
func (l *Library) Size() int {
	return lo.SumBy(lo.Values(l.tables), func(t *Table) int { return len(t.Setups) })
}

// Table returns the table for a bag slot, or nil.
func (l *Library) Table(slot int) *Table {
	return l.tables[slot]
}

// Query describes the game position a setup lookup is made for.
type Query struct {
	Board   board.Board
	Current piece.Piece
	Hold    piece.Piece
	Held    bool
	Queue   []piece.Piece
	// Placed is the number of pieces locked so far; PCStart is Placed as
	// it stood when the current perfect clear began.
	Placed  int
	PCStart int
	// Upcoming is the piece after Queue, if the caller knows it. It is only
	// used when the rest of its bag is already visible.
	Upcoming piece.Piece
}

// Slot is the position in the bag cycle where the current perfect clear
// began, from 1 to 7.
func (q Query) Slot() int {
	return q.PCStart%BagSize + 1
}

// pieces lines up everything in hand: current, hold, queue, then the
// inferred last piece of the bag.
func (q Query) pieces() []piece.Piece {
	var out []piece.Piece
	if q.Current != piece.None {
		out = append(out, q.Current)
	}
	if q.Hold != piece.None {
		out = append(out, q.Hold)
	}
	out = append(out, q.Queue...)
	if q.Upcoming != piece.None && (q.Placed+len(out))%BagSize == BagSize-1 {
		out = append(out, q.Upcoming)
	}
	return out
}

// Find returns every skeleton for the query's slot that can still be built,
// deduplicated and sorted by name. Skeletons already fully built are left
// out.
func (l *Library) Find(q Query) []PcSetup {
	t := l.tables[q.Slot()]
	if t == nil {
		return nil
	}
	avail := q.pieces()
	limit := t.PieceLimit - (q.Placed - q.PCStart)
	if limit <= 0 || len(avail) == 0 {
		return nil
	}
	if len(avail) > limit {
		avail = avail[:limit]
	}
	// The hold piece, if any, is played as if it were next in the queue.
	current, queue := avail[0], avail[1:]

	found := lo.Filter(t.Setups, func(s PcSetup, _ int) bool {
		if s.complete(&q.Board) {
			return false
		}
		return s.canBuild(q.Board, queue, current, piece.None, q.Held, l.policy)
	})
	found = lo.UniqBy(found, PcSetup.Key)
	sort.SliceStable(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	log.Debug().Int("slot", t.Slot).Int("limit", limit).Int("found", len(found)).Msg("setups-found")
	return found
}
