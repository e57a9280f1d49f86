package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/mcpalette/internal/assets"
	"github.com/Faultbox/mcpalette/internal/config"
	"github.com/Faultbox/mcpalette/internal/extract"
	"github.com/Faultbox/mcpalette/internal/logger"
	"github.com/Faultbox/mcpalette/internal/output"
	"github.com/Faultbox/mcpalette/internal/resolver"
	"github.com/Faultbox/mcpalette/internal/variants"
	"github.com/Faultbox/mcpalette/pkg/formats"
	"github.com/Faultbox/mcpalette/pkg/palette"
)

// workspace is the loaded asset universe shared by all commands.
type workspace struct {
	assets   *assets.Manager
	set      *assets.Set
	resolver *resolver.Resolver
	cache    *resolver.Cache
}

func openWorkspace(ctx context.Context, cfg *config.Config) (*workspace, error) {
	mgr := assets.NewManager(assets.Options{
		Namespace: cfg.Assets.Namespace,
		Strict:    cfg.Assets.Strict,
		Logger:    logger.Named("assets"),
	})
	for _, p := range cfg.Assets.Paths {
		if err := mgr.AddPath(p); err != nil {
			return nil, multierr.Append(err, mgr.Close())
		}
	}

	set, err := mgr.Load(ctx)
	if err != nil {
		return nil, multierr.Append(err, mgr.Close())
	}

	cache := resolver.NewCache()
	r := resolver.New(set.Models,
		resolver.WithCache(cache),
		resolver.WithMaxDepth(cfg.Extract.MaxParentDepth))

	return &workspace{assets: mgr, set: set, resolver: r, cache: cache}, nil
}

func (w *workspace) Close() error {
	return w.assets.Close()
}

func (w *workspace) blockstate(name string) (*formats.BlockState, error) {
	bs, ok := w.set.Blockstates[formats.NormalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", extract.ErrUnknownBlock, name)
	}
	return bs, nil
}

func cmdExtract(ctx context.Context, cfg *config.Config) (err error) {
	start := time.Now()

	ws, err := openWorkspace(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, ws.Close()) }()

	ex := extract.New(ws.set.Blockstates, ws.resolver, extract.Options{
		Workers: cfg.Workers(),
		Logger:  logger.Named("extract"),
	})
	res, err := ex.Run(ctx)
	if err != nil {
		return err
	}

	w := output.NewWriter(cfg.Output.Dir, logger.Named("output"))
	if err := w.WriteResult(res); err != nil {
		return err
	}

	var copied output.CopyStats
	if cfg.Output.CopyTextures {
		if copied, err = w.CopyTextures(ws.assets, res.Materials); err != nil {
			return err
		}
	}
	if cfg.Output.SQLite != "" {
		if err := output.WriteIndex(ctx, cfg.Output.SQLite, res); err != nil {
			return fmt.Errorf("writing index: %w", err)
		}
	}
	if cfg.Output.Compressed {
		if err := w.WriteStream(res.Materials); err != nil {
			return err
		}
	}

	stats := ws.cache.Stats()
	logger.Debug("resolver cache", zap.Int64("hits", stats.Hits), zap.Int64("misses", stats.Misses))

	fmt.Printf("Blocks:     %d (%d variants)\n", len(ex.Blocks()), len(res.Variants))
	fmt.Printf("Full cube:  %d blocks, %d materials\n", len(res.FullCube), len(res.Materials))
	fmt.Printf("Empty:      %d\n", len(res.Empty))
	fmt.Printf("Failed:     %d\n", len(res.Failures))
	fmt.Printf("Skipped:    %d asset files\n", len(ws.set.Skipped))
	if cfg.Output.CopyTextures {
		fmt.Printf("Textures:   %d copied, %d missing\n", copied.Copied, copied.Missing)
	}
	fmt.Printf("Output:     %s (%s)\n", w.Dir(), time.Since(start).Round(time.Millisecond))
	return nil
}

var errVariantsUsage = errors.New("usage: mcpalette variants <block> [-models]")

// parseVariantsArgs accepts -models before or after the block name.
func parseVariantsArgs(args []string) (block string, showModels bool, err error) {
	fs := flag.NewFlagSet("variants", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	models := fs.Bool("models", false, "Show the models applied to each key")

	var rest []string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		block, rest = args[0], args[1:]
	} else {
		rest = args
	}
	if err := fs.Parse(rest); err != nil {
		return "", false, fmt.Errorf("%w: %v", errVariantsUsage, err)
	}

	if block == "" {
		if fs.NArg() == 0 {
			return "", false, errVariantsUsage
		}
		block, rest = fs.Arg(0), fs.Args()[1:]
	} else {
		rest = fs.Args()
	}
	if len(rest) > 0 {
		return "", false, fmt.Errorf("%w: unexpected %q", errVariantsUsage, rest[0])
	}
	return block, *models, nil
}

func cmdVariants(ctx context.Context, cfg *config.Config, args []string) (err error) {
	block, showModels, err := parseVariantsArgs(args)
	if err != nil {
		return err
	}

	ws, err := openWorkspace(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, ws.Close()) }()

	bs, err := ws.blockstate(block)
	if err != nil {
		return err
	}

	for _, key := range variants.Enumerate(bs) {
		label := key.String()
		if key.IsEmpty() {
			label = "(default)"
		}
		if !showModels {
			fmt.Println(label)
			continue
		}

		var refs []formats.ModelRef
		if bs.IsMultipart() {
			refs = bs.ApplicableModels(key.Map())
		} else if v, ok := bs.Variants[key.String()]; ok {
			refs = v.Models()
		}
		names := make([]string, 0, len(refs))
		for _, ref := range refs {
			names = append(names, ref.Model)
		}
		fmt.Printf("%s\t%s\n", label, strings.Join(names, " "))
	}
	return nil
}

func cmdClassify(ctx context.Context, cfg *config.Config, args []string) (err error) {
	if len(args) < 1 {
		return errors.New("usage: mcpalette classify <model>")
	}
	name := formats.NormalizeName(args[0])

	ws, err := openWorkspace(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, ws.Close()) }()

	chain, err := ws.resolver.Chain(name)
	if err != nil {
		return err
	}
	shape, err := ws.resolver.Classify(name)
	if err != nil {
		return err
	}

	fmt.Printf("Model: %s\n", name)
	fmt.Printf("Shape: %s\n", shape)
	fmt.Println("Chain:")
	for i, level := range chain {
		fmt.Printf("  %d %s (%d elements)\n", i, level.Name, len(level.Model.Elements))
	}
	if shape == resolver.ShapeFullCube {
		_, owner, err := ws.resolver.FullCubeElement(name)
		if err != nil {
			return err
		}
		fmt.Printf("Cube:  from %s\n", owner)
	}
	return nil
}

func cmdFaces(ctx context.Context, cfg *config.Config, args []string) (err error) {
	if len(args) < 1 {
		return errors.New("usage: mcpalette faces <block> [key]")
	}

	ws, err := openWorkspace(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, ws.Close()) }()

	bs, err := ws.blockstate(args[0])
	if err != nil {
		return err
	}
	if bs.IsMultipart() || !bs.IsVariants() {
		return fmt.Errorf("%s has no declared variants", args[0])
	}

	var key string
	switch {
	case len(args) > 1:
		key = args[1]
	case len(bs.Variants) == 1:
		key = bs.VariantKeys()[0]
	default:
		return fmt.Errorf("%s needs a key, one of: %s", args[0], strings.Join(bs.VariantKeys(), " "))
	}
	v, ok := bs.Variants[key]
	if !ok {
		return fmt.Errorf("%s has no variant %q", args[0], key)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, ref := range v.Models() {
		faces, err := ws.resolver.VariantFaces(ref)
		if err != nil {
			return fmt.Errorf("model %s: %w", ref.Model, err)
		}
		fmt.Fprintf(tw, "%s\tx=%d y=%d z=%d weight=%d\n", ref.Model, ref.X, ref.Y, ref.Z, ref.Weight)
		for i, f := range faces.Slots() {
			fmt.Fprintf(tw, "  %s\t%s\n", palette.SlotNames[i], f)
		}
	}
	return tw.Flush()
}

func cmdTexture(ctx context.Context, cfg *config.Config, args []string) (err error) {
	if len(args) < 2 {
		return errors.New("usage: mcpalette texture <model> <variable>")
	}
	name := formats.NormalizeName(args[0])

	ws, err := openWorkspace(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, ws.Close()) }()

	tex, err := ws.resolver.ResolveTexture(name, args[1])
	if err != nil {
		return err
	}
	fmt.Println(tex)

	if !ws.assets.Contains(ws.assets.TexturePath(tex)) {
		logger.Warn("texture file not found", zap.String("texture", tex))
	}
	return nil
}

func cmdFace(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: mcpalette face <tagged>")
	}

	f, err := palette.ParseFaceTexture(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Path:     %s\n", f.Path)
	fmt.Printf("Rotation: %d\n", f.Rotation.Degrees())
	fmt.Printf("Flip X:   %t\n", f.FlipX)
	fmt.Printf("Flip Y:   %t\n", f.FlipY)
	fmt.Printf("Encoded:  %s\n", f)
	return nil
}

func cmdCheck(cfg *config.Config, args []string) error {
	dir := cfg.Output.Dir
	if len(args) > 0 {
		dir = args[0]
	}

	rep, err := output.Verify(dir)
	if err != nil {
		return err
	}

	fmt.Printf("Palette:    %s\n", dir)
	fmt.Printf("Materials:  %d\n", rep.Materials)
	fmt.Printf("Textures:   %d referenced\n", rep.Textures)
	switch {
	case !rep.HasTextures:
		logger.Warn("textures directory not found", zap.String("dir", dir))
	case len(rep.MissingTextures) > 0:
		logger.Warn("missing textures", zap.Strings("textures", rep.MissingTextures))
		fmt.Printf("Missing:    %d\n", len(rep.MissingTextures))
	}
	if rep.StreamEntries >= 0 {
		fmt.Printf("Stream:     %d entries\n", rep.StreamEntries)
	}
	return nil
}

func cmdConfig(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			return err
		}
		fmt.Println(args[0])
		return nil
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Println(config.DefaultPath())
	return nil
}

