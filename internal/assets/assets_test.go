package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/Faultbox/mcpalette/pkg/formats"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return root
}

func writeJar(t *testing.T, files map[string]string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "client.jar")
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("failed to create jar: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close jar: %v", err)
	}
	return p
}

var vanilla = map[string]string{
	"assets/minecraft/blockstates/stone.json":     `{"variants": {"": {"model": "minecraft:block/stone"}}}`,
	"assets/minecraft/blockstates/dirt.json":      `{"variants": {"": {"model": "minecraft:block/dirt"}}}`,
	"assets/minecraft/models/block/cube_all.json": `{"textures": {"particle": "#all"}}`,
	"assets/minecraft/models/block/stone.json":    `{"parent": "block/cube_all", "textures": {"all": "block/stone"}}`,
	"assets/minecraft/models/block/dirt.json":     `{"parent": "block/cube_all", "textures": {"all": "block/dirt"}}`,
	"assets/minecraft/textures/block/stone.png":   "vanilla-stone",
	"assets/minecraft/textures/block/dirt.png":    "vanilla-dirt",
	"assets/minecraft/models/item/stick.json":     `{"parent": "item/generated"}`,
	"assets/othermod/blockstates/widget.json":     `{"variants": {"": {"model": "othermod:block/widget"}}}`,
	"assets/minecraft/blockstates/readme.txt":     "not a record",
}

func TestLoadFromJar(t *testing.T) {
	m := NewManager(Options{})
	defer m.Close()

	if err := m.AddPath(writeJar(t, vanilla)); err != nil {
		t.Fatalf("AddPath: %v", err)
	}

	set, err := m.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(set.Blockstates) != 2 {
		t.Errorf("blockstates = %d, want 2", len(set.Blockstates))
	}
	if len(set.Models) != 3 {
		t.Errorf("models = %d, want 3", len(set.Models))
	}
	if got := set.Models["stone"].Parent; got != "cube_all" {
		t.Errorf("stone parent = %q, want cube_all", got)
	}
	if got := set.Blockstates["dirt"].Variants[""].Models()[0].Model; got != "dirt" {
		t.Errorf("dirt model = %q, want dirt", got)
	}
	if len(set.Skipped) != 0 {
		t.Errorf("skipped = %v", set.Skipped)
	}
}

func TestLastSourceWins(t *testing.T) {
	m := NewManager(Options{})
	defer m.Close()

	if err := m.AddPath(writeJar(t, vanilla)); err != nil {
		t.Fatalf("AddPath jar: %v", err)
	}
	pack := writeTree(t, map[string]string{
		"assets/minecraft/models/block/stone.json":  `{"parent": "block/cube_all", "textures": {"all": "block/smooth_stone"}}`,
		"assets/minecraft/models/block/marble.json": `{"parent": "block/cube_all", "textures": {"all": "block/marble"}}`,
		"assets/minecraft/textures/block/stone.png": "pack-stone",
	})
	if err := m.AddPath(pack); err != nil {
		t.Fatalf("AddPath dir: %v", err)
	}

	set, err := m.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := set.Models["stone"].Textures["all"]; got != "smooth_stone" {
		t.Errorf("stone all = %q, want smooth_stone", got)
	}
	if _, ok := set.Models["marble"]; !ok {
		t.Error("expected marble from the pack")
	}
	if len(set.Models) != 4 {
		t.Errorf("models = %d, want 4", len(set.Models))
	}

	data, err := m.ReadTexture("stone")
	if err != nil {
		t.Fatalf("ReadTexture: %v", err)
	}
	if string(data) != "pack-stone" {
		t.Errorf("stone texture = %q, want pack-stone", data)
	}
	data, err = m.ReadTexture("dirt")
	if err != nil {
		t.Fatalf("ReadTexture: %v", err)
	}
	if string(data) != "vanilla-dirt" {
		t.Errorf("dirt texture = %q, want vanilla-dirt", data)
	}

	if _, err := m.ReadTexture("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadInvalidRecords(t *testing.T) {
	files := map[string]string{
		"assets/minecraft/blockstates/stone.json":  `{"variants": {"": {"model": "block/stone"}}}`,
		"assets/minecraft/blockstates/broken.json": `{"variants": {"": {"y": 90}}}`,
		"assets/minecraft/models/block/stone.json": `{"textures": {"all": "block/stone"}}`,
		"assets/minecraft/models/block/bad.json":   `{"elements": [{"from": [0, 0]}]}`,
	}

	t.Run("lenient", func(t *testing.T) {
		m := NewManager(Options{})
		defer m.Close()
		if err := m.AddPath(writeTree(t, files)); err != nil {
			t.Fatalf("AddPath: %v", err)
		}

		set, err := m.Load(context.Background())
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(set.Skipped) != 2 {
			t.Errorf("skipped = %v, want 2 entries", set.Skipped)
		}
		if _, ok := set.Blockstates["broken"]; ok {
			t.Error("broken blockstate should be skipped")
		}
		if _, ok := set.Models["stone"]; !ok {
			t.Error("stone model should load")
		}
	})

	t.Run("strict", func(t *testing.T) {
		m := NewManager(Options{Strict: true})
		defer m.Close()
		if err := m.AddPath(writeTree(t, files)); err != nil {
			t.Fatalf("AddPath: %v", err)
		}

		if _, err := m.Load(context.Background()); !errors.Is(err, formats.ErrSchemaViolation) {
			t.Errorf("err = %v, want ErrSchemaViolation", err)
		}
	})
}

func TestLoadNamespace(t *testing.T) {
	m := NewManager(Options{Namespace: "othermod"})
	defer m.Close()
	if err := m.AddPath(writeTree(t, vanilla)); err != nil {
		t.Fatalf("AddPath: %v", err)
	}

	set, err := m.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(set.Blockstates) != 1 || set.Blockstates["widget"] == nil {
		t.Errorf("blockstates = %v, want widget only", set.Blockstates)
	}
	if got := m.TexturePath("widget"); got != "assets/othermod/textures/block/widget.png" {
		t.Errorf("TexturePath = %q", got)
	}
}

func TestLoadCanceled(t *testing.T) {
	m := NewManager(Options{})
	defer m.Close()
	if err := m.AddPath(writeTree(t, vanilla)); err != nil {
		t.Fatalf("AddPath: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestAddPathMissing(t *testing.T) {
	m := NewManager(Options{})
	if err := m.AddPath(filepath.Join(t.TempDir(), "nope.jar")); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestCache(t *testing.T) {
	c := NewCache()

	if _, ok := c.Get("a"); ok {
		t.Error("expected miss")
	}
	c.Set("a", []byte("x"))
	if data, ok := c.Get("a"); !ok || string(data) != "x" {
		t.Errorf("Get(a) = %q, %v", data, ok)
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("stats = %d/%d, want 1/1", hits, misses)
	}

	c.Clear()
	if hits, misses := c.Stats(); hits != 0 || misses != 0 {
		t.Errorf("stats after clear = %d/%d, want 0/0", hits, misses)
	}
}
