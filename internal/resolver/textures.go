package resolver

import (
	"fmt"
	"strings"
)

// variableMarker prefixes a texture variable reference.
const variableMarker = "#"

// TextureMap is the flattened set of texture bindings visible from a model.
// Values may still be variable references; Resolve follows them.
// Maps returned by a Resolver are shared and must not be modified.
type TextureMap map[string]string

// IsVariable reports whether ref is a texture variable reference.
func IsVariable(ref string) bool {
	return strings.HasPrefix(ref, variableMarker)
}

// Resolve dereferences ref until a literal texture identifier is reached.
// A ref without the variable marker is already a literal.
func (t TextureMap) Resolve(ref string) (string, error) {
	if !IsVariable(ref) {
		return ref, nil
	}

	name := strings.TrimPrefix(ref, variableMarker)
	seen := make(map[string]bool, len(t)+1)
	for {
		if seen[name] {
			return "", fmt.Errorf("%w: texture variable #%s", ErrResolutionCycle, name)
		}
		seen[name] = true

		value, ok := t[name]
		if !ok {
			return "", fmt.Errorf("%w: #%s", ErrUnresolvedVariable, name)
		}
		if !IsVariable(value) {
			return value, nil
		}
		name = strings.TrimPrefix(value, variableMarker)
	}
}

// TextureMap merges the texture bindings of name's chain, nearest model winning.
func (r *Resolver) TextureMap(name string) (TextureMap, error) {
	if r.cache != nil {
		return r.cache.textureMap(name, func() (TextureMap, error) {
			return r.buildTextureMap(name)
		})
	}
	return r.buildTextureMap(name)
}

func (r *Resolver) buildTextureMap(name string) (TextureMap, error) {
	chain, err := r.Chain(name)
	if err != nil {
		return nil, err
	}

	merged := make(TextureMap)
	for _, level := range chain {
		for k, v := range level.Model.Textures {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
	}
	return merged, nil
}

// ResolveTexture resolves a texture variable (with or without the leading
// "#") relative to the named model.
func (r *Resolver) ResolveTexture(model, variable string) (string, error) {
	textures, err := r.TextureMap(model)
	if err != nil {
		return "", err
	}
	if !IsVariable(variable) {
		variable = variableMarker + variable
	}
	resolved, err := textures.Resolve(variable)
	if err != nil {
		return "", fmt.Errorf("model %s: %w", model, err)
	}
	return resolved, nil
}
