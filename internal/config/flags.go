package config

import (
	"flag"
	"strings"
)

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagAssets   = flag.String("assets", "", "Comma separated asset directories or jars (replaces assets.paths)")
	flagOut      = flag.String("out", "", "Output directory")
	flagWorkers  = flag.Int("workers", 0, "Concurrent blocks (0 = config value)")
	flagStrict   = flag.Bool("strict", false, "Fail on unparsable asset records")
	flagSQLite   = flag.String("sqlite", "", "Also write a SQLite index to this path")
	flagCompress = flag.Bool("compress", false, "Also write full_blocks.jsonl.zst")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if paths := splitList(*flagAssets); len(paths) > 0 {
		cfg.Assets.Paths = paths
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagWorkers > 0 {
		cfg.Extract.Workers = *flagWorkers
	}
	if *flagStrict {
		cfg.Assets.Strict = true
	}
	if *flagSQLite != "" {
		cfg.Output.SQLite = *flagSQLite
	}
	if *flagCompress {
		cfg.Output.Compressed = true
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
