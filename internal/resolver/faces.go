package resolver

import (
	"fmt"

	"github.com/Faultbox/mcpalette/pkg/formats"
	"github.com/Faultbox/mcpalette/pkg/palette"
)

// AssignBaseFaces resolves the six faces of a full cube element and places
// them on their axis slots, unrotated.
func AssignBaseFaces(elem *formats.Element, textures TextureMap) (palette.FaceSet, error) {
	var resolved [6]string
	for i, dir := range palette.Directions {
		face, ok := elem.Faces[dir]
		if !ok || face.Texture == "" {
			return palette.FaceSet{}, fmt.Errorf("%w: %s", ErrMissingFaceTexture, dir)
		}
		tex, err := textures.Resolve(face.Texture)
		if err != nil {
			return palette.FaceSet{}, fmt.Errorf("face %s: %w", dir, err)
		}
		resolved[i] = tex
	}

	down, up, north, south, west, east := resolved[0], resolved[1], resolved[2], resolved[3], resolved[4], resolved[5]
	return palette.FaceSet{
		X:  palette.NewFaceTexture(east),
		NX: palette.NewFaceTexture(west),
		Y:  palette.NewFaceTexture(up),
		NY: palette.NewFaceTexture(down),
		Z:  palette.NewFaceTexture(south),
		NZ: palette.NewFaceTexture(north),
	}, nil
}

// BaseFaces returns the unrotated face set of a full cube model.
func (r *Resolver) BaseFaces(model string) (palette.FaceSet, error) {
	elem, _, err := r.FullCubeElement(model)
	if err != nil {
		return palette.FaceSet{}, err
	}
	textures, err := r.TextureMap(model)
	if err != nil {
		return palette.FaceSet{}, err
	}
	faces, err := AssignBaseFaces(elem, textures)
	if err != nil {
		return palette.FaceSet{}, fmt.Errorf("model %s: %w", model, err)
	}
	return faces, nil
}

// VariantFaces resolves a model reference to its final face set, applying the
// declared x, y and z rotations in that order.
func (r *Resolver) VariantFaces(ref formats.ModelRef) (palette.FaceSet, error) {
	var turns [3]palette.Rotation
	for i, deg := range [3]int{ref.X, ref.Y, ref.Z} {
		rot, err := palette.RotationFromDegrees(deg)
		if err != nil {
			return palette.FaceSet{}, fmt.Errorf("model %s %s rotation: %w", ref.Model, palette.Axis(i), err)
		}
		turns[i] = rot
	}

	faces, err := r.BaseFaces(ref.Model)
	if err != nil {
		return palette.FaceSet{}, err
	}
	return faces.RotateXYZ(turns[0], turns[1], turns[2])
}
