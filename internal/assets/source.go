package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/Faultbox/mcpalette/pkg/jar"
)

// Source is a read-only tree of asset files addressed by slash paths
// relative to its root ("assets/minecraft/...").
type Source interface {
	List() []string
	Contains(path string) bool
	Read(path string) ([]byte, error)
	Close() error
}

// OpenSource opens path as a directory source or, for a regular file, as a
// jar or zip archive.
func OpenSource(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening source %s: %w", path, err)
	}
	if info.IsDir() {
		return &dirSource{root: path}, nil
	}
	archive, err := jar.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening source %s: %w", path, err)
	}
	return archive, nil
}

// dirSource serves an extracted asset tree from disk.
type dirSource struct {
	root string
}

func (d *dirSource) List() []string {
	var files []string
	_ = filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(files)
	return files
}

func (d *dirSource) Contains(path string) bool {
	info, err := os.Stat(d.abs(path))
	return err == nil && !info.IsDir()
}

func (d *dirSource) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(d.abs(path))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func (d *dirSource) Close() error {
	return nil
}

func (d *dirSource) abs(path string) string {
	return filepath.Join(d.root, filepath.FromSlash(path))
}
