package resolver

import (
	"fmt"

	"github.com/Faultbox/mcpalette/pkg/formats"
)

// Shape classifies the effective geometry of a model or block.
type Shape int

const (
	ShapeOther Shape = iota
	ShapeFullCube
	ShapeEmpty
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeFullCube:
		return "full_cube"
	case ShapeEmpty:
		return "empty"
	default:
		return "other"
	}
}

// Classify reports whether the model is a full cube, empty, or neither.
// A model is a full cube when any model in its chain has a (0,0,0)-(16,16,16)
// element, and empty when it has no parent, textures or elements.
func (r *Resolver) Classify(name string) (Shape, error) {
	if r.cache != nil {
		return r.cache.shape(name, func() (Shape, error) {
			return r.classify(name)
		})
	}
	return r.classify(name)
}

func (r *Resolver) classify(name string) (Shape, error) {
	chain, err := r.Chain(name)
	if err != nil {
		return ShapeOther, err
	}

	if len(chain) == 1 && chain[0].Model.IsVacuous() {
		return ShapeEmpty, nil
	}
	if _, _, ok := findFullCube(chain); ok {
		return ShapeFullCube, nil
	}
	return ShapeOther, nil
}

// FullCubeElement returns the nearest full cube element in name's chain and
// the model that declares it.
func (r *Resolver) FullCubeElement(name string) (*formats.Element, string, error) {
	chain, err := r.Chain(name)
	if err != nil {
		return nil, "", err
	}
	elem, owner, ok := findFullCube(chain)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrNoFullCubeElement, name)
	}
	return elem, owner, nil
}

func findFullCube(chain []Level) (*formats.Element, string, bool) {
	for _, level := range chain {
		for i := range level.Model.Elements {
			if level.Model.Elements[i].IsFullCube() {
				return &level.Model.Elements[i], level.Name, true
			}
		}
	}
	return nil, "", false
}

// ClassifyBlock aggregates the shapes of every model a blockstate references.
// Multipart blocks are never full cubes or empty.
func (r *Resolver) ClassifyBlock(bs *formats.BlockState) (Shape, error) {
	if bs.IsMultipart() || !bs.IsVariants() {
		return ShapeOther, nil
	}

	allFull, allEmpty := true, true
	count := 0
	for _, key := range bs.VariantKeys() {
		for _, ref := range bs.Variants[key].Models() {
			shape, err := r.Classify(ref.Model)
			if err != nil {
				return ShapeOther, fmt.Errorf("variant %q: %w", key, err)
			}
			count++
			allFull = allFull && shape == ShapeFullCube
			allEmpty = allEmpty && shape == ShapeEmpty
		}
	}

	switch {
	case count == 0:
		return ShapeOther, nil
	case allFull:
		return ShapeFullCube, nil
	case allEmpty:
		return ShapeEmpty, nil
	}
	return ShapeOther, nil
}
