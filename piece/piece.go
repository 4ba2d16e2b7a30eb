package piece

import (
	"fmt"
	"strings"
)

// A Piece is a tetromino kind. The zero value, None, doubles as "no piece"
// (an empty hold slot, an exhausted queue) and as the contents of an empty
// tile on a board.
type Piece uint8

const (
	None Piece = iota
	I
	J
	L
	O
	S
	T
	Z
	// Garbage only ever appears as board contents. It is never a tetromino.
	Garbage
)

// NumKinds is the number of distinct tile contents, None and Garbage
// included. Hash tables are sized with it.
const NumKinds = 9

// All lists the seven tetrominoes in canonical order.
var All = [7]Piece{I, J, L, O, S, T, Z}

func (p Piece) String() string {
	switch p {
	case None:
		return "."
	case I:
		return "I"
	case J:
		return "J"
	case L:
		return "L"
	case O:
		return "O"
	case S:
		return "S"
	case T:
		return "T"
	case Z:
		return "Z"
	case Garbage:
		return "X"
	}
	return fmt.Sprintf("Piece(%d)", uint8(p))
}

// IsTetromino is true for the seven placeable kinds.
func (p Piece) IsTetromino() bool {
	return p >= I && p <= Z
}

// Mirror returns the chirality partner of p: J and L swap, S and Z swap,
// everything else maps to itself.
func (p Piece) Mirror() Piece {
	switch p {
	case J:
		return L
	case L:
		return J
	case S:
		return Z
	case Z:
		return S
	}
	return p
}

// FromRune parses a single tile character. '.', ' ' and '_' are empty;
// 'X', 'G' and '#' are garbage.
func FromRune(r rune) (Piece, error) {
	switch r {
	case '.', ' ', '_':
		return None, nil
	case 'I', 'i':
		return I, nil
	case 'J', 'j':
		return J, nil
	case 'L', 'l':
		return L, nil
	case 'O', 'o':
		return O, nil
	case 'S', 's':
		return S, nil
	case 'T', 't':
		return T, nil
	case 'Z', 'z':
		return Z, nil
	case 'X', 'x', 'G', 'g', '#':
		return Garbage, nil
	}
	return None, fmt.Errorf("unrecognized tile %q", r)
}

// Parse parses one tetromino name.
func Parse(s string) (Piece, error) {
	s = strings.TrimSpace(s)
	if len([]rune(s)) != 1 {
		return None, fmt.Errorf("expected a single piece, got %q", s)
	}
	p, err := FromRune([]rune(s)[0])
	if err != nil {
		return None, err
	}
	if !p.IsTetromino() {
		return None, fmt.Errorf("%q is not a tetromino", s)
	}
	return p, nil
}

// ParseQueue parses a run of tetromino letters such as "TIOSZ".
func ParseQueue(s string) ([]Piece, error) {
	queue := make([]Piece, 0, len(s))
	for _, r := range s {
		if r == ' ' || r == ',' {
			continue
		}
		p, err := FromRune(r)
		if err != nil {
			return nil, err
		}
		if !p.IsTetromino() {
			return nil, fmt.Errorf("%q is not a tetromino", r)
		}
		queue = append(queue, p)
	}
	return queue, nil
}

// QueueString is the inverse of ParseQueue.
func QueueString(queue []Piece) string {
	var sb strings.Builder
	for _, p := range queue {
		sb.WriteString(p.String())
	}
	return sb.String()
}
