// Package output writes extraction results to disk.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/mcpalette/internal/extract"
	"github.com/Faultbox/mcpalette/pkg/palette"
)

// Artifact file names.
const (
	BlocksFile      = "blocks.json"
	FullBlocksFile  = "full_blocks.json"
	EmptyBlocksFile = "empty_blocks.json"
	FailuresFile    = "failures.json"
	TexturesDir     = "textures"
)

// BlockEntry is one line of blocks.json.
type BlockEntry struct {
	Name       string `json:"name"`
	Blockstate string `json:"blockstate,omitempty"`
}

// MaterialEntry is one element of full_blocks.json.
type MaterialEntry struct {
	BlockID      string             `json:"block_id"`
	Display      palette.FaceSet    `json:"display"`
	Weight       int                `json:"weight,omitempty"`
	Alternatives []AlternativeEntry `json:"alternatives,omitempty"`
}

// AlternativeEntry is a weighted alternative of a material.
type AlternativeEntry struct {
	Model   string          `json:"model"`
	Weight  int             `json:"weight"`
	Display palette.FaceSet `json:"display"`
}

// FailureEntry is one element of failures.json.
type FailureEntry struct {
	Block string `json:"block"`
	Key   string `json:"key,omitempty"`
	Error string `json:"error"`
}

// NewMaterialEntry converts a material. The weight is only written when it
// is not the default or when alternatives compete with it.
func NewMaterialEntry(m extract.Material) MaterialEntry {
	e := MaterialEntry{BlockID: m.ID(), Display: m.Faces}
	if m.Weight != 1 || len(m.Alternatives) > 0 {
		e.Weight = m.Weight
	}
	for _, alt := range m.Alternatives {
		e.Alternatives = append(e.Alternatives, AlternativeEntry{
			Model:   alt.Model,
			Weight:  alt.Weight,
			Display: alt.Faces,
		})
	}
	return e
}

// Writer writes artifacts into a single output directory.
type Writer struct {
	dir string
	log *zap.Logger
}

// NewWriter creates a writer for dir. The directory is created on first write.
func NewWriter(dir string, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{dir: dir, log: log}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteResult writes blocks.json, full_blocks.json, empty_blocks.json and,
// when blocks failed, failures.json.
func (w *Writer) WriteResult(res *extract.Result) error {
	blocks := make([]BlockEntry, 0, len(res.Variants))
	for _, v := range res.Variants {
		blocks = append(blocks, BlockEntry{Name: v.Name, Blockstate: v.Key.String()})
	}
	if err := w.writeJSON(BlocksFile, blocks); err != nil {
		return err
	}

	materials := make([]MaterialEntry, 0, len(res.Materials))
	for _, m := range res.Materials {
		materials = append(materials, NewMaterialEntry(m))
	}
	if err := w.writeJSON(FullBlocksFile, materials); err != nil {
		return err
	}

	empty := append([]string{}, res.Empty...)
	sort.Strings(empty)
	if err := w.writeJSON(EmptyBlocksFile, empty); err != nil {
		return err
	}

	if len(res.Failures) == 0 {
		return nil
	}
	failures := make([]FailureEntry, 0, len(res.Failures))
	for _, f := range res.Failures {
		failures = append(failures, FailureEntry{Block: f.Block, Key: f.Key, Error: f.Err.Error()})
	}
	return w.writeJSON(FailuresFile, failures)
}

func (w *Writer) writeJSON(name string, v any) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	p := filepath.Join(w.dir, name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	w.log.Info("wrote artifact", zap.String("path", p))
	return nil
}

// TextureReader reads block texture images by texture identifier.
type TextureReader interface {
	ReadTexture(texture string) ([]byte, error)
}

// CopyStats summarizes a texture copy.
type CopyStats struct {
	Copied  int
	Missing int
}

// CopyTextures copies every distinct face texture of materials to
// <dir>/textures/<texture>.png. Missing textures are counted, not fatal.
func (w *Writer) CopyTextures(src TextureReader, materials []extract.Material) (CopyStats, error) {
	var stats CopyStats
	for _, tex := range Textures(materials) {
		if !filepath.IsLocal(filepath.FromSlash(tex)) {
			w.log.Warn("skipping texture outside output dir", zap.String("texture", tex))
			stats.Missing++
			continue
		}

		data, err := src.ReadTexture(tex)
		if err != nil {
			w.log.Warn("missing texture", zap.String("texture", tex), zap.Error(err))
			stats.Missing++
			continue
		}

		p := filepath.Join(w.dir, TexturesDir, filepath.FromSlash(tex)+".png")
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return stats, fmt.Errorf("creating texture dir: %w", err)
		}
		if err := os.WriteFile(p, data, 0644); err != nil {
			return stats, fmt.Errorf("writing texture %s: %w", tex, err)
		}
		stats.Copied++
	}

	w.log.Info("copied textures", zap.Int("copied", stats.Copied), zap.Int("missing", stats.Missing))
	return stats, nil
}

// Textures returns the distinct texture paths used by materials, sorted.
func Textures(materials []extract.Material) []string {
	set := make(textureSet)
	for _, m := range materials {
		set.add(m.Faces)
		for _, alt := range m.Alternatives {
			set.add(alt.Faces)
		}
	}
	return set.sorted()
}

type textureSet map[string]bool

func (t textureSet) add(fs palette.FaceSet) {
	for _, p := range fs.Paths() {
		t[p] = true
	}
}

func (t textureSet) sorted() []string {
	out := make([]string, 0, len(t))
	for p := range t {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ReadMaterials loads a full_blocks.json written by WriteResult.
func ReadMaterials(path string) ([]MaterialEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []MaterialEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return entries, nil
}
