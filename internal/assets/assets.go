// Package assets loads blockstates, models and textures from layered asset
// sources.
package assets

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/mcpalette/pkg/formats"
)

// DefaultNamespace is the vanilla asset namespace.
const DefaultNamespace = "minecraft"

// ErrNotFound is returned when no source holds the requested file.
var ErrNotFound = errors.New("asset not found")

// Options configures a Manager.
type Options struct {
	// Namespace selects assets/<namespace>/. Defaults to DefaultNamespace.
	Namespace string
	// Strict fails Load on the first unparsable record instead of skipping it.
	Strict bool
	Logger *zap.Logger
}

// Manager reads asset files from a stack of sources.
// Sources are searched in reverse order (last added = highest priority).
type Manager struct {
	sources   []Source
	cache     *Cache
	namespace string
	strict    bool
	log       *zap.Logger
	mu        sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager(opts Options) *Manager {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Manager{
		cache:     NewCache(),
		namespace: opts.Namespace,
		strict:    opts.Strict,
		log:       opts.Logger,
	}
}

// AddPath opens a directory or archive and adds it as the highest priority source.
func (m *Manager) AddPath(p string) error {
	src, err := OpenSource(p)
	if err != nil {
		return err
	}
	m.AddSource(src)
	m.log.Debug("added asset source", zap.String("path", p))
	return nil
}

// AddSource adds src as the highest priority source.
func (m *Manager) AddSource(src Source) {
	m.mu.Lock()
	m.sources = append(m.sources, src)
	m.mu.Unlock()
}

// Namespace returns the asset namespace in use.
func (m *Manager) Namespace() string {
	return m.namespace
}

// Read reads a file from the highest priority source that holds it.
func (m *Manager) Read(p string) ([]byte, error) {
	if data, ok := m.cache.Get(p); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.sources) - 1; i >= 0; i-- {
		if !m.sources[i].Contains(p) {
			continue
		}
		data, err := m.sources[i].Read(p)
		if err != nil {
			return nil, err
		}
		m.cache.Set(p, data)
		return data, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
}

// Contains reports whether any source holds p.
func (m *Manager) Contains(p string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, src := range m.sources {
		if src.Contains(p) {
			return true
		}
	}
	return false
}

// List returns the distinct paths under prefix across all sources, sorted.
func (m *Manager) List(prefix string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, src := range m.sources {
		for _, p := range src.List() {
			if strings.HasPrefix(p, prefix) && !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Close closes all sources.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	for _, src := range m.sources {
		err = multierr.Append(err, src.Close())
	}
	m.sources = nil
	m.cache.Clear()
	return err
}

// BlockstateDir returns the directory holding blockstate records.
func (m *Manager) BlockstateDir() string {
	return path.Join("assets", m.namespace, "blockstates") + "/"
}

// ModelDir returns the directory holding block model records.
func (m *Manager) ModelDir() string {
	return path.Join("assets", m.namespace, "models", "block") + "/"
}

// TexturePath returns the location of a block texture.
func (m *Manager) TexturePath(texture string) string {
	return path.Join("assets", m.namespace, "textures", "block", texture+".png")
}

// ReadTexture reads the PNG of a block texture.
func (m *Manager) ReadTexture(texture string) ([]byte, error) {
	return m.Read(m.TexturePath(texture))
}

// Set is the parsed record universe.
type Set struct {
	Blockstates map[string]*formats.BlockState
	Models      map[string]*formats.Model
	// Skipped lists records that failed to parse in non-strict mode.
	Skipped []string
}

// Load parses every blockstate and block model.
func (m *Manager) Load(ctx context.Context) (*Set, error) {
	set := &Set{
		Blockstates: make(map[string]*formats.BlockState),
		Models:      make(map[string]*formats.Model),
	}

	err := m.loadDir(ctx, m.BlockstateDir(), set, func(name string, data []byte) error {
		bs, err := formats.ParseBlockState(data)
		if err != nil {
			return err
		}
		set.Blockstates[name] = bs
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = m.loadDir(ctx, m.ModelDir(), set, func(name string, data []byte) error {
		model, err := formats.ParseModel(data)
		if err != nil {
			return err
		}
		set.Models[name] = model
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.log.Info("loaded assets",
		zap.Int("blockstates", len(set.Blockstates)),
		zap.Int("models", len(set.Models)),
		zap.Int("skipped", len(set.Skipped)))
	return set, nil
}

func (m *Manager) loadDir(ctx context.Context, dir string, set *Set, parse func(name string, data []byte) error) error {
	for _, p := range m.List(dir) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !strings.HasSuffix(p, ".json") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, dir), ".json")

		data, err := m.Read(p)
		if err == nil {
			err = parse(name, data)
		}
		if err != nil {
			if m.strict {
				return fmt.Errorf("loading %s: %w", p, err)
			}
			m.log.Warn("skipping asset", zap.String("path", p), zap.Error(err))
			set.Skipped = append(set.Skipped, p)
		}
	}
	return nil
}

// Stats returns read cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}
