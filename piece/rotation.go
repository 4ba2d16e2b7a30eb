package piece

import (
	"fmt"
	"strings"
)

// Rotation is an orientation in the 4-cycle. The numeric order is clockwise
// so that turning is modular arithmetic.
type Rotation uint8

const (
	Spawn Rotation = iota
	CW
	Flip
	CCW
)

func (r Rotation) CW() Rotation      { return (r + 1) % 4 }
func (r Rotation) CCW() Rotation     { return (r + 3) % 4 }
func (r Rotation) Flip180() Rotation { return (r + 2) % 4 }

// Mirror is the orientation of the horizontally reflected piece.
// Spawn and Flip are their own reflections; CW and CCW swap.
func (r Rotation) Mirror() Rotation {
	switch r {
	case CW:
		return CCW
	case CCW:
		return CW
	}
	return r
}

// String uses the usual SRS state names.
func (r Rotation) String() string {
	switch r {
	case Spawn:
		return "0"
	case CW:
		return "R"
	case Flip:
		return "2"
	case CCW:
		return "L"
	}
	return fmt.Sprintf("Rotation(%d)", uint8(r))
}

func ParseRotation(s string) (Rotation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "n", "spawn", "normal":
		return Spawn, nil
	case "r", "cw":
		return CW, nil
	case "2", "flip", "180":
		return Flip, nil
	case "l", "ccw":
		return CCW, nil
	}
	return Spawn, fmt.Errorf("unrecognized rotation %q", s)
}
