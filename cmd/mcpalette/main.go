// mcpalette extracts the full-cube block palette from Minecraft assets.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/mcpalette/internal/config"
	"github.com/Faultbox/mcpalette/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command, args := args[0], args[1:]

	switch command {
	case "extract", "x":
		err = cmdExtract(ctx, cfg)
	case "variants":
		err = cmdVariants(ctx, cfg, args)
	case "classify":
		err = cmdClassify(ctx, cfg, args)
	case "faces":
		err = cmdFaces(ctx, cfg, args)
	case "texture":
		err = cmdTexture(ctx, cfg, args)
	case "face":
		err = cmdFace(args)
	case "check":
		err = cmdCheck(cfg, args)
	case "config":
		err = cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`mcpalette - Minecraft full-cube block palette extractor

Usage:
  mcpalette [flags] <command> [args]

Commands:
  extract                       Run the full pipeline and write the palette
  check [dir]                   Read a written palette back and report missing textures
  variants <block> [-models]    List the variant keys of a block
  classify <model>              Show a model's parent chain and cube shape
  faces <block> [key]           Show the six faces of a block variant
  texture <model> <variable>    Resolve one texture variable of a model
  face <tagged>                 Decode a face texture string
  config [path]                 Write the effective config as YAML

Flags:
  -config <file>     Config file (default ./mcpalette.yaml)
  -assets <a,b,...>  Asset directories or jars, later ones win
  -out <dir>         Output directory
  -workers <n>       Concurrent blocks
  -strict            Fail on unparsable asset records
  -sqlite <file>     Also write a SQLite index
  -compress          Also write full_blocks.jsonl.zst
  -debug             Enable debug logging

Examples:
  mcpalette -assets client-1.20.4.jar extract
  mcpalette -assets client.jar,packs/faithful -out palette -sqlite palette.db extract
  mcpalette variants oak_log
  mcpalette faces oak_log axis=x
  mcpalette face "oak_log#r=90#fx"`)
}
