package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrStreamMismatch is returned when the compressed stream disagrees with
// full_blocks.json.
var ErrStreamMismatch = errors.New("stream does not match full_blocks.json")

// Report describes a palette directory read back from disk.
type Report struct {
	Materials int
	Textures  int
	// HasTextures is false when the textures directory was never written.
	HasTextures     bool
	MissingTextures []string
	// StreamEntries is -1 when no stream was written.
	StreamEntries int
}

// Verify reads the artifacts in dir back and checks that every face texture
// was copied and that the optional stream holds the same materials.
// Missing textures are reported, not returned as an error.
func Verify(dir string) (*Report, error) {
	materials, err := ReadMaterials(filepath.Join(dir, FullBlocksFile))
	if err != nil {
		return nil, err
	}

	set := make(textureSet)
	for _, m := range materials {
		set.add(m.Display)
		for _, alt := range m.Alternatives {
			set.add(alt.Display)
		}
	}
	textures := set.sorted()
	rep := &Report{Materials: len(materials), Textures: len(textures), StreamEntries: -1}

	texDir := filepath.Join(dir, TexturesDir)
	if info, err := os.Stat(texDir); err == nil && info.IsDir() {
		rep.HasTextures = true
		for _, tex := range textures {
			if _, err := os.Stat(filepath.Join(texDir, filepath.FromSlash(tex)+".png")); err != nil {
				rep.MissingTextures = append(rep.MissingTextures, tex)
			}
		}
	}

	streamPath := filepath.Join(dir, StreamFile)
	if _, err := os.Stat(streamPath); err != nil {
		return rep, nil
	}
	entries, err := ReadStream(streamPath)
	if err != nil {
		return nil, err
	}
	rep.StreamEntries = len(entries)
	if len(entries) != len(materials) {
		return rep, fmt.Errorf("%w: %d entries, want %d", ErrStreamMismatch, len(entries), len(materials))
	}
	for i := range entries {
		if entries[i].BlockID != materials[i].BlockID || entries[i].Display != materials[i].Display {
			return rep, fmt.Errorf("%w: entry %d is %s, want %s", ErrStreamMismatch, i, entries[i].BlockID, materials[i].BlockID)
		}
	}
	return rep, nil
}
