// Package resolver walks block model inheritance chains to resolve texture
// variables, locate the full cube element and classify model geometry.
package resolver

import (
	"errors"
	"fmt"

	"github.com/Faultbox/mcpalette/pkg/formats"
)

// Resolution errors.
var (
	ErrMissingModel       = errors.New("model not found")
	ErrResolutionCycle    = errors.New("resolution cycle")
	ErrChainTooDeep       = errors.New("parent chain too deep")
	ErrUnresolvedVariable = errors.New("unresolved texture variable")
	ErrNoFullCubeElement  = errors.New("no full cube element")
	ErrMissingFaceTexture = errors.New("missing face texture")
)

// DefaultMaxDepth bounds the number of models in a parent chain.
const DefaultMaxDepth = 32

// Level is one model in an inheritance chain.
type Level struct {
	Name  string
	Model *formats.Model
}

// Resolver answers inheritance queries over an immutable set of models.
// It is safe for concurrent use.
type Resolver struct {
	models   map[string]*formats.Model
	cache    *Cache
	maxDepth int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache memoizes per-model results in c. Without it every query recomputes.
func WithCache(c *Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxDepth = n
		}
	}
}

// New creates a resolver over models keyed by normalized model name.
// The map must not be modified afterwards.
func New(models map[string]*formats.Model, opts ...Option) *Resolver {
	r := &Resolver{
		models:   models,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Model looks up a model by name.
func (r *Resolver) Model(name string) (*formats.Model, error) {
	m, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingModel, name)
	}
	return m, nil
}

// Chain returns the model followed by its ancestors, nearest first.
// Builtin parents end the chain.
func (r *Resolver) Chain(name string) ([]Level, error) {
	var chain []Level
	visited := make(map[string]bool)

	for cur := name; cur != "" && !formats.IsBuiltin(cur); {
		if visited[cur] {
			return nil, fmt.Errorf("%w: %s revisits %s", ErrResolutionCycle, name, cur)
		}
		if len(chain) >= r.maxDepth {
			return nil, fmt.Errorf("%w: %s exceeds %d models", ErrChainTooDeep, name, r.maxDepth)
		}
		visited[cur] = true

		m, err := r.Model(cur)
		if err != nil {
			if cur != name {
				return nil, fmt.Errorf("parent of %s: %w", chain[len(chain)-1].Name, err)
			}
			return nil, err
		}
		chain = append(chain, Level{Name: cur, Model: m})
		cur = m.Parent
	}

	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingModel, name)
	}
	return chain, nil
}
