// Package palette describes the six-face texture assignment of a full cube
// and the quarter-turn rotations applied to it by blockstate variants.
package palette

import (
	"errors"
	"fmt"
	"strconv"
)

// Palette errors.
var (
	ErrInvalidRotation = errors.New("invalid rotation")
	ErrUnknownFaceTag  = errors.New("unknown face texture tag")
	ErrUnknownAxis     = errors.New("unknown rotation axis")
)

// Rotation is a counter-clockwise quarter-turn angle in degrees.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// RotationFromDegrees returns the rotation for deg, which must be 0, 90, 180 or 270.
func RotationFromDegrees(deg int) (Rotation, error) {
	r := Rotation(deg)
	if !r.Valid() {
		return Rotate0, fmt.Errorf("%w: %d degrees", ErrInvalidRotation, deg)
	}
	return r, nil
}

// ParseRotation parses a decimal degree value.
func ParseRotation(s string) (Rotation, error) {
	deg, err := strconv.Atoi(s)
	if err != nil {
		return Rotate0, fmt.Errorf("%w: %q", ErrInvalidRotation, s)
	}
	return RotationFromDegrees(deg)
}

// Valid reports whether r is one of the four quarter turns.
func (r Rotation) Valid() bool {
	switch r {
	case Rotate0, Rotate90, Rotate180, Rotate270:
		return true
	}
	return false
}

// Degrees returns the angle in degrees.
func (r Rotation) Degrees() int {
	return int(r)
}

// QuarterTurns returns the number of 90 degree steps in r.
func (r Rotation) QuarterTurns() int {
	return int(r) / 90
}

// Add composes two rotations modulo a full turn.
func (r Rotation) Add(o Rotation) Rotation {
	return Rotation((int(r) + int(o)) % 360)
}

// String returns the angle as a decimal string.
func (r Rotation) String() string {
	return strconv.Itoa(int(r))
}

// Axis is one of the three spatial rotation axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the lowercase axis name.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// ParseAxis parses "x", "y" or "z".
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return AxisX, fmt.Errorf("%w: %q", ErrUnknownAxis, s)
}
