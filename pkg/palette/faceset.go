package palette

import "fmt"

// FaceSet holds the texture of each cube face, keyed by outward axis.
//
//	X  = +x = east    NX = -x = west
//	Y  = +y = up      NY = -y = down
//	Z  = +z = south   NZ = -z = north
type FaceSet struct {
	X  FaceTexture `json:"x"`
	NX FaceTexture `json:"nx"`
	Y  FaceTexture `json:"y"`
	NY FaceTexture `json:"ny"`
	Z  FaceTexture `json:"z"`
	NZ FaceTexture `json:"nz"`
}

// Direction names in model element face order.
var Directions = [6]string{"down", "up", "north", "south", "west", "east"}

// Face returns the texture on the named direction (up, down, north, south, east, west).
func (s FaceSet) Face(direction string) (FaceTexture, bool) {
	switch direction {
	case "east":
		return s.X, true
	case "west":
		return s.NX, true
	case "up":
		return s.Y, true
	case "down":
		return s.NY, true
	case "south":
		return s.Z, true
	case "north":
		return s.NZ, true
	}
	return FaceTexture{}, false
}

// SlotNames labels the slots in the order returned by Slots.
var SlotNames = [6]string{"x", "nx", "y", "ny", "z", "nz"}

// Slots returns the six faces in x, nx, y, ny, z, nz order.
func (s FaceSet) Slots() [6]FaceTexture {
	return [6]FaceTexture{s.X, s.NX, s.Y, s.NY, s.Z, s.NZ}
}

// Paths returns the six texture paths in x, nx, y, ny, z, nz order.
func (s FaceSet) Paths() [6]string {
	var out [6]string
	for i, f := range s.Slots() {
		out[i] = f.Path
	}
	return out
}

// Rotate turns the cube about axis by r, one quarter turn at a time.
func (s FaceSet) Rotate(axis Axis, r Rotation) (FaceSet, error) {
	if !r.Valid() {
		return s, fmt.Errorf("%w: %d degrees", ErrInvalidRotation, int(r))
	}

	var step func(FaceSet) FaceSet
	switch axis {
	case AxisX:
		step = quarterX
	case AxisY:
		step = quarterY
	case AxisZ:
		step = quarterZ
	default:
		return s, fmt.Errorf("%w: %d", ErrUnknownAxis, int(axis))
	}

	for i := 0; i < r.QuarterTurns(); i++ {
		s = step(s)
	}
	return s, nil
}

// RotateXYZ applies the x, y and z turns in that order.
func (s FaceSet) RotateXYZ(x, y, z Rotation) (FaceSet, error) {
	var err error
	if s, err = s.Rotate(AxisX, x); err != nil {
		return s, err
	}
	if s, err = s.Rotate(AxisY, y); err != nil {
		return s, err
	}
	return s.Rotate(AxisZ, z)
}

// quarterX cycles up -> north -> down -> south -> up.
func quarterX(t FaceSet) FaceSet {
	return FaceSet{
		NZ: t.Y,
		NY: t.NZ,
		Z:  t.NY,
		Y:  t.Z,
		X:  t.X.AddRotation(Rotate90),
		NX: t.NX.AddRotation(Rotate270),
	}
}

// quarterY cycles east -> north -> west -> south -> east.
func quarterY(t FaceSet) FaceSet {
	return FaceSet{
		NZ: t.X,
		NX: t.NZ,
		Z:  t.NX,
		X:  t.Z,
		Y:  t.Y.AddRotation(Rotate90),
		NY: t.NY.AddRotation(Rotate270),
	}
}

// quarterZ cycles up -> east -> down -> west -> up.
func quarterZ(t FaceSet) FaceSet {
	return FaceSet{
		X:  t.Y,
		NY: t.X,
		NX: t.NY,
		Y:  t.NX,
		NZ: t.NZ.AddRotation(Rotate90),
		Z:  t.Z.AddRotation(Rotate270),
	}
}
