// Package extract runs the block palette pipeline: classify every block,
// enumerate its variants and resolve the six faces of each full cube variant.
package extract

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/mcpalette/internal/resolver"
	"github.com/Faultbox/mcpalette/internal/variants"
	"github.com/Faultbox/mcpalette/pkg/formats"
	"github.com/Faultbox/mcpalette/pkg/palette"
)

// Pipeline errors.
var (
	ErrUnknownBlock = errors.New("unknown block")
	ErrNoModel      = errors.New("variant declares no model")
)

// Alternative is an additional weighted model of a variant.
type Alternative struct {
	Model  string
	Weight int
	Faces  palette.FaceSet
}

// Material is the resolved appearance of one full cube variant.
type Material struct {
	Block        string
	Key          variants.Key
	Model        string
	Weight       int
	Faces        palette.FaceSet
	Alternatives []Alternative
}

// ID returns the block name, suffixed with "#key" for keyed variants.
func (m Material) ID() string {
	return variants.BlockVariant{Name: m.Block, Key: m.Key}.ID()
}

// BlockError reports why a block was left out of the palette.
type BlockError struct {
	Block string
	Key   string
	Err   error
}

func (e *BlockError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("block %s[%s]: %v", e.Block, e.Key, e.Err)
	}
	return fmt.Sprintf("block %s: %v", e.Block, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

// BlockResult is the outcome for a single block.
type BlockResult struct {
	Name      string
	Keys      []variants.Key
	Shape     resolver.Shape
	Materials []Material
}

// Result is the outcome of a full run, sorted by block name.
type Result struct {
	Variants  []variants.BlockVariant
	FullCube  []string
	Empty     []string
	Materials []Material
	Failures  []*BlockError
}

// Err combines every block failure, or returns nil.
func (r *Result) Err() error {
	var err error
	for _, f := range r.Failures {
		err = multierr.Append(err, f)
	}
	return err
}

// Options configures an Extractor.
type Options struct {
	// Workers bounds concurrent blocks. Zero means runtime.NumCPU().
	Workers int
	Logger  *zap.Logger
}

// Extractor resolves blocks against a fixed record universe.
type Extractor struct {
	blockstates map[string]*formats.BlockState
	resolver    *resolver.Resolver
	workers     int
	log         *zap.Logger
}

// New creates an extractor. The blockstate map must not be modified afterwards.
func New(blockstates map[string]*formats.BlockState, r *resolver.Resolver, opts Options) *Extractor {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Extractor{
		blockstates: blockstates,
		resolver:    r,
		workers:     opts.Workers,
		log:         opts.Logger,
	}
}

// Blocks returns the block names, sorted.
func (e *Extractor) Blocks() []string {
	names := make([]string, 0, len(e.blockstates))
	for name := range e.blockstates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Block processes one block. Any failure drops all of the block's materials,
// but the returned result still lists its keys unless the block is unknown.
func (e *Extractor) Block(name string) (*BlockResult, error) {
	bs, ok := e.blockstates[name]
	if !ok {
		return nil, &BlockError{Block: name, Err: ErrUnknownBlock}
	}

	res := &BlockResult{Name: name, Keys: variants.Enumerate(bs), Shape: resolver.ShapeOther}
	shape, err := e.resolver.ClassifyBlock(bs)
	if err != nil {
		return res, &BlockError{Block: name, Err: err}
	}
	if shape != resolver.ShapeFullCube {
		res.Shape = shape
		return res, nil
	}

	var materials []Material
	for _, key := range res.Keys {
		m, err := e.material(name, key, bs.Variants[key.String()])
		if err != nil {
			return res, &BlockError{Block: name, Key: key.String(), Err: err}
		}
		materials = append(materials, m)
	}
	res.Shape = shape
	res.Materials = materials
	return res, nil
}

func (e *Extractor) material(block string, key variants.Key, v formats.Variant) (Material, error) {
	refs := v.Models()
	if len(refs) == 0 {
		return Material{}, ErrNoModel
	}

	faces, err := e.resolver.VariantFaces(refs[0])
	if err != nil {
		return Material{}, err
	}
	m := Material{
		Block:  block,
		Key:    key,
		Model:  refs[0].Model,
		Weight: refs[0].Weight,
		Faces:  faces,
	}
	for _, ref := range refs[1:] {
		faces, err := e.resolver.VariantFaces(ref)
		if err != nil {
			return Material{}, err
		}
		m.Alternatives = append(m.Alternatives, Alternative{Model: ref.Model, Weight: ref.Weight, Faces: faces})
	}
	return m, nil
}

// Run processes every block on a bounded worker pool.
func (e *Extractor) Run(ctx context.Context) (*Result, error) {
	names := e.Blocks()
	results := make([]*BlockResult, len(names))
	var (
		mu       sync.Mutex
		failures []*BlockError
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			br, err := e.Block(name)
			results[i] = br
			if err != nil {
				var be *BlockError
				if !errors.As(err, &be) {
					be = &BlockError{Block: name, Err: err}
				}
				e.log.Warn("skipping block", zap.String("block", name), zap.String("key", be.Key), zap.Error(be.Err))
				mu.Lock()
				failures = append(failures, be)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Failures: failures}
	for _, br := range results {
		if br == nil {
			continue
		}
		for _, k := range br.Keys {
			res.Variants = append(res.Variants, variants.BlockVariant{Name: br.Name, Key: k})
		}
		switch br.Shape {
		case resolver.ShapeFullCube:
			res.FullCube = append(res.FullCube, br.Name)
			res.Materials = append(res.Materials, br.Materials...)
		case resolver.ShapeEmpty:
			res.Empty = append(res.Empty, br.Name)
		}
	}
	sort.Slice(res.Failures, func(i, j int) bool {
		return res.Failures[i].Block < res.Failures[j].Block
	})

	e.log.Info("extraction finished",
		zap.Int("blocks", len(names)),
		zap.Int("variants", len(res.Variants)),
		zap.Int("full_cube", len(res.FullCube)),
		zap.Int("materials", len(res.Materials)),
		zap.Int("empty", len(res.Empty)),
		zap.Int("failed", len(res.Failures)))
	return res, nil
}
