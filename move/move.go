package move

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/domino14/pcfinder/piece"
)

// Movement is one primitive input.
type Movement uint8

const (
	Left Movement = iota
	DasLeft
	Right
	DasRight
	// SoftDrop moves the piece down to its rest row. The piece stays live.
	SoftDrop
	HardDrop
	RotateCW
	RotateCCW
	Rotate180
)

var movementNames = [...]string{
	Left:      "left",
	DasLeft:   "dasleft",
	Right:     "right",
	DasRight:  "dasright",
	SoftDrop:  "softdrop",
	HardDrop:  "harddrop",
	RotateCW:  "cw",
	RotateCCW: "ccw",
	Rotate180: "180",
}

func (m Movement) String() string {
	if int(m) < len(movementNames) {
		return movementNames[m]
	}
	return fmt.Sprintf("Movement(%d)", uint8(m))
}

// ParseMovement accepts the names printed by String plus a few short
// aliases.
func ParseMovement(s string) (Movement, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range movementNames {
		if s == name {
			return Movement(m), nil
		}
	}
	switch s {
	case "l", "<":
		return Left, nil
	case "ll", "<<", "das-left":
		return DasLeft, nil
	case "r", ">":
		return Right, nil
	case "rr", ">>", "das-right":
		return DasRight, nil
	case "sd", "soft", "down":
		return SoftDrop, nil
	case "hd", "hard", "drop":
		return HardDrop, nil
	case "x", "rotate-cw":
		return RotateCW, nil
	case "z", "rotate-ccw":
		return RotateCCW, nil
	case "a", "rotate-180", "flip":
		return Rotate180, nil
	}
	return Left, fmt.Errorf("unrecognized movement %q", s)
}

// ParseMovements parses a whitespace-separated input sequence.
func ParseMovements(s string) ([]Movement, error) {
	var ms []Movement
	for _, f := range strings.Fields(s) {
		m, err := ParseMovement(f)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, nil
}

func MovementsString(ms []Movement) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// A Placement is one committed action: either swap with hold, or put a piece
// to rest at (Row, Col, Rot).
type Placement struct {
	Hold  bool
	Piece piece.Piece
	Row   uint8
	Col   uint8
	Rot   piece.Rotation
}

func NewPlacement(p piece.Piece, row, col int, rot piece.Rotation) Placement {
	return Placement{Piece: p, Row: uint8(row), Col: uint8(col), Rot: rot}
}

func HoldPlacement() Placement {
	return Placement{Hold: true}
}

// String renders "T 21 9 L", or "hold".
func (p Placement) String() string {
	if p.Hold {
		return "hold"
	}
	return fmt.Sprintf("%v %d %d %v", p.Piece, p.Row, p.Col, p.Rot)
}

// ParsePlacement is the inverse of Placement.String.
func ParsePlacement(s string) (Placement, error) {
	fields := strings.Fields(s)
	if len(fields) == 1 && strings.EqualFold(fields[0], "hold") {
		return HoldPlacement(), nil
	}
	if len(fields) != 4 {
		return Placement{}, fmt.Errorf("placement %q: want \"<piece> <row> <col> <rot>\"", s)
	}
	p, err := piece.Parse(fields[0])
	if err != nil {
		return Placement{}, fmt.Errorf("placement %q: %w", s, err)
	}
	row, err := strconv.ParseUint(fields[1], 10, 8)
	if err != nil {
		return Placement{}, fmt.Errorf("placement %q: bad row: %w", s, err)
	}
	col, err := strconv.ParseUint(fields[2], 10, 8)
	if err != nil {
		return Placement{}, fmt.Errorf("placement %q: bad col: %w", s, err)
	}
	rot, err := piece.ParseRotation(fields[3])
	if err != nil {
		return Placement{}, fmt.Errorf("placement %q: %w", s, err)
	}
	return Placement{Piece: p, Row: uint8(row), Col: uint8(col), Rot: rot}, nil
}
