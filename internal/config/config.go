// Package config handles tool configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/multierr"

	"github.com/Faultbox/mcpalette/internal/logger"
)

// Config holds all extraction settings.
type Config struct {
	Assets  AssetsConfig  `yaml:"assets"`
	Extract ExtractConfig `yaml:"extract"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// AssetsConfig selects where blockstates, models and textures are read from.
type AssetsConfig struct {
	Paths     []string `yaml:"paths"`     // Directories or jars, later paths win
	Namespace string   `yaml:"namespace"` // assets/<namespace>/
	Strict    bool     `yaml:"strict"`    // Fail on unparsable records
}

// ExtractConfig holds pipeline settings.
type ExtractConfig struct {
	Workers        int `yaml:"workers"` // 0 = one per CPU
	MaxParentDepth int `yaml:"max_parent_depth"`
}

// OutputConfig holds artifact settings.
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	CopyTextures bool   `yaml:"copy_textures"`
	SQLite       string `yaml:"sqlite"`     // Index database path, empty to skip
	Compressed   bool   `yaml:"compressed"` // Also write full_blocks.jsonl.zst
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Assets: AssetsConfig{
			Paths:     []string{"mc_data/mc_assets"},
			Namespace: "minecraft",
			Strict:    false,
		},
		Extract: ExtractConfig{
			Workers:        0,
			MaxParentDepth: 32,
		},
		Output: OutputConfig{
			Dir:          "minecraft_palette",
			CopyTextures: true,
			SQLite:       "",
			Compressed:   false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Workers returns the effective worker count.
func (c *Config) Workers() int {
	if c.Extract.Workers > 0 {
		return c.Extract.Workers
	}
	return runtime.NumCPU()
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var err error
	if len(c.Assets.Paths) == 0 {
		err = multierr.Append(err, errors.New("assets.paths is empty"))
	}
	if c.Assets.Namespace == "" {
		err = multierr.Append(err, errors.New("assets.namespace is empty"))
	}
	if c.Extract.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("extract.workers must not be negative, got %d", c.Extract.Workers))
	}
	if c.Extract.MaxParentDepth <= 0 {
		err = multierr.Append(err, fmt.Errorf("extract.max_parent_depth must be positive, got %d", c.Extract.MaxParentDepth))
	}
	if c.Output.Dir == "" {
		err = multierr.Append(err, errors.New("output.dir is empty"))
	}
	if _, lerr := logger.ParseLevel(c.Logging.Level); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("logging.level: %w", lerr))
	}
	return err
}
