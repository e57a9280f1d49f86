package config

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test asset defaults
	if !reflect.DeepEqual(cfg.Assets.Paths, []string{"mc_data/mc_assets"}) {
		t.Errorf("expected paths [mc_data/mc_assets], got %v", cfg.Assets.Paths)
	}
	if cfg.Assets.Namespace != "minecraft" {
		t.Errorf("expected namespace minecraft, got %s", cfg.Assets.Namespace)
	}
	if cfg.Assets.Strict {
		t.Error("expected strict to be false by default")
	}

	// Test extract defaults
	if cfg.Extract.Workers != 0 {
		t.Errorf("expected workers 0, got %d", cfg.Extract.Workers)
	}
	if cfg.Extract.MaxParentDepth != 32 {
		t.Errorf("expected max parent depth 32, got %d", cfg.Extract.MaxParentDepth)
	}

	// Test output defaults
	if cfg.Output.Dir != "minecraft_palette" {
		t.Errorf("expected output dir minecraft_palette, got %s", cfg.Output.Dir)
	}
	if !cfg.Output.CopyTextures {
		t.Error("expected copy_textures to be true by default")
	}
	if cfg.Output.SQLite != "" || cfg.Output.Compressed {
		t.Error("expected optional outputs to be disabled by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestWorkers(t *testing.T) {
	cfg := Default()
	if got := cfg.Workers(); got != runtime.NumCPU() {
		t.Errorf("expected %d workers, got %d", runtime.NumCPU(), got)
	}
	cfg.Extract.Workers = 3
	if got := cfg.Workers(); got != 3 {
		t.Errorf("expected 3 workers, got %d", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no asset paths", func(c *Config) { c.Assets.Paths = nil }},
		{"no namespace", func(c *Config) { c.Assets.Namespace = "" }},
		{"negative workers", func(c *Config) { c.Extract.Workers = -1 }},
		{"zero depth", func(c *Config) { c.Extract.MaxParentDepth = 0 }},
		{"no output dir", func(c *Config) { c.Output.Dir = "" }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
assets:
  paths:
    - client-1.20.jar
    - packs/faithful
  namespace: minecraft
  strict: true

extract:
  workers: 8
  max_parent_depth: 16

output:
  dir: out/palette
  copy_textures: false
  sqlite: out/palette.db
  compressed: true

logging:
  level: "debug"
  log_file: "mcpalette.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if !reflect.DeepEqual(cfg.Assets.Paths, []string{"client-1.20.jar", "packs/faithful"}) {
		t.Errorf("unexpected paths %v", cfg.Assets.Paths)
	}
	if !cfg.Assets.Strict {
		t.Error("expected strict to be true")
	}
	if cfg.Extract.Workers != 8 {
		t.Errorf("expected workers 8, got %d", cfg.Extract.Workers)
	}
	if cfg.Extract.MaxParentDepth != 16 {
		t.Errorf("expected max parent depth 16, got %d", cfg.Extract.MaxParentDepth)
	}
	if cfg.Output.Dir != "out/palette" {
		t.Errorf("expected output dir out/palette, got %s", cfg.Output.Dir)
	}
	if cfg.Output.CopyTextures {
		t.Error("expected copy_textures to be false")
	}
	if cfg.Output.SQLite != "out/palette.db" {
		t.Errorf("expected sqlite out/palette.db, got %s", cfg.Output.SQLite)
	}
	if !cfg.Output.Compressed {
		t.Error("expected compressed to be true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "mcpalette.log" {
		t.Errorf("expected log file 'mcpalette.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("output:\n  dir: elsewhere\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Unset keys keep their defaults
	if cfg.Output.Dir != "elsewhere" {
		t.Errorf("expected output dir elsewhere, got %s", cfg.Output.Dir)
	}
	if !cfg.Output.CopyTextures {
		t.Error("expected copy_textures default to survive")
	}
	if cfg.Assets.Namespace != "minecraft" {
		t.Errorf("expected namespace default to survive, got %s", cfg.Assets.Namespace)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
extract:
  workers: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/mcpalette.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create mcpalette.yaml in current directory
	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("output:\n  dir: x\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find mcpalette.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "assets flag",
			setup: func() {
				*flagAssets = "client.jar, packs/a ,,packs/b"
			},
			verify: func(cfg *Config) {
				want := []string{"client.jar", "packs/a", "packs/b"}
				if !reflect.DeepEqual(cfg.Assets.Paths, want) {
					t.Errorf("expected paths %v, got %v", want, cfg.Assets.Paths)
				}
			},
			teardown: func() {
				*flagAssets = ""
			},
		},
		{
			name: "out and workers flags",
			setup: func() {
				*flagOut = "build/palette"
				*flagWorkers = 6
			},
			verify: func(cfg *Config) {
				if cfg.Output.Dir != "build/palette" {
					t.Errorf("expected output dir build/palette, got %s", cfg.Output.Dir)
				}
				if cfg.Extract.Workers != 6 {
					t.Errorf("expected workers 6, got %d", cfg.Extract.Workers)
				}
			},
			teardown: func() {
				*flagOut = ""
				*flagWorkers = 0
			},
		},
		{
			name: "strict flag",
			setup: func() {
				*flagStrict = true
			},
			verify: func(cfg *Config) {
				if !cfg.Assets.Strict {
					t.Error("expected strict to be enabled")
				}
			},
			teardown: func() {
				*flagStrict = false
			},
		},
		{
			name: "sqlite and compress flags",
			setup: func() {
				*flagSQLite = "palette.db"
				*flagCompress = true
			},
			verify: func(cfg *Config) {
				if cfg.Output.SQLite != "palette.db" {
					t.Errorf("expected sqlite palette.db, got %s", cfg.Output.SQLite)
				}
				if !cfg.Output.Compressed {
					t.Error("expected compressed to be enabled")
				}
			},
			teardown: func() {
				*flagSQLite = ""
				*flagCompress = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
extract:
  workers: 2
  max_parent_depth: 8
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWorkers = 12
	defer func() {
		*flagConfig = ""
		*flagWorkers = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Workers should be from flag (12), not file (2)
	if cfg.Extract.Workers != 12 {
		t.Errorf("expected workers 12 from flag, got %d", cfg.Extract.Workers)
	}

	// Depth should be from file (8) since no flag override
	if cfg.Extract.MaxParentDepth != 8 {
		t.Errorf("expected max parent depth 8 from file, got %d", cfg.Extract.MaxParentDepth)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("extract:\n  max_parent_depth: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected invalid config error, got nil")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Output.Dir = "saved"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("reloaded config = %+v, want %+v", loaded, cfg)
	}
}

func TestSaveToWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := Default().SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# mcpalette configuration\n") {
		t.Errorf("saved config lacks header:\n%s", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the config file, found %d entries", len(entries))
	}
}

func TestSaveToRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	// An existing file must survive a rejected save.
	if err := os.WriteFile(path, []byte("output:\n  dir: kept\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	cfg.Extract.MaxParentDepth = 0
	if err := cfg.SaveTo(path); err == nil {
		t.Fatal("expected SaveTo to reject invalid config")
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Output.Dir != "kept" {
		t.Errorf("existing config was overwritten, output dir = %s", loaded.Output.Dir)
	}
}

func TestSave(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	t.Setenv("APPDATA", home)

	if err := Default().Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(DefaultPath()); err != nil {
		t.Errorf("config not written to %s: %v", DefaultPath(), err)
	}
}
