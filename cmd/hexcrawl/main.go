// Command hexcrawl is the hex map editor backend.
//
//	hexcrawl serve                 serve the editor API (default)
//	hexcrawl generate [flags]      generate one map and write it out
//	hexcrawl convert IN OUT        convert a map between file formats
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexcrawl/internal/api"
	"github.com/talgya/hexcrawl/internal/config"
	"github.com/talgya/hexcrawl/internal/editor"
	"github.com/talgya/hexcrawl/internal/entropy"
	"github.com/talgya/hexcrawl/internal/mapio"
	"github.com/talgya/hexcrawl/internal/preview"
	"github.com/talgya/hexcrawl/internal/render"
)

func main() {
	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = serve(args)
	case "generate":
		err = generate(args)
	case "convert":
		err = convert(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want serve, generate or convert)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		slog.Error(cmd+" failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

func loadConfig() (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	verbose := fs.Bool("v", false, "debug logging")
	load := fs.String("load", "", "import this map file at startup")
	fs.Parse(args)
	setupLogging(*verbose)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rng, seed := entropy.NewRand(cfg.Seed)

	hub := api.NewHub()
	opts := cfg.SessionOptions()
	opts.Renderer = hub
	opts.Rand = rng
	session := editor.New(opts)

	if *load != "" {
		doc, stats, err := mapio.ReadFile(*load)
		if err != nil {
			return err
		}
		if _, err := session.Import(doc); err != nil {
			return err
		}
		slog.Info("map loaded", "path", *load, "cells", stats.Cells, "paths", stats.Paths, "skipped", stats.Skipped)
	} else if _, err := session.Generate(cfg.Specs()); err != nil {
		return err
	}

	srv := api.New(session, hub, cfg.Server)
	httpServer := srv.Start()
	slog.Info("hexcrawl ready", "seed", seed, "hex_size", session.HexSize(), "cells", session.Grid().SlotCount())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

func generate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	verbose := fs.Bool("v", false, "debug logging")
	out := fs.String("o", "", "write the map here (.csv, .json, .json.zst or .hexdb)")
	pngOut := fs.String("png", "", "write a PNG render here")
	show := fs.Bool("preview", false, "print the map to the terminal")
	seedFlag := fs.Int64("seed", 0, "random seed (0 uses the configured or a random seed)")
	hexSize := fs.String("hex-size", "", "hex size in inches")
	clustering := fs.Float64("clustering", -1, "clustering factor 0..1")
	fs.Parse(args)
	setupLogging(*verbose)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if *seedFlag != 0 {
		cfg.Seed = *seedFlag
	}
	if *hexSize != "" {
		v, err := strconv.ParseFloat(*hexSize, 64)
		if err != nil {
			return fmt.Errorf("hex size: %w", err)
		}
		cfg.HexSize = v
	}
	if *clustering >= 0 {
		cfg.Clustering = *clustering
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rng, seed := entropy.NewRand(cfg.Seed)
	opts := cfg.SessionOptions()
	opts.Rand = rng
	session := editor.New(opts)
	res, err := session.Generate(cfg.Specs())
	if err != nil {
		return err
	}
	slog.Info("generated", "seed", seed, "cells", res.Grid.SlotCount(), "unfilled", res.Stats.Unfilled)

	if *out != "" {
		n, err := mapio.WriteFile(*out, session.Export())
		if err != nil {
			return err
		}
		slog.Info("map written", "path", *out, "size", humanize.Bytes(uint64(n)))
	}
	if *pngOut != "" {
		if err := writePNG(*pngOut, session); err != nil {
			return err
		}
	}
	if *show {
		fmt.Print(preview.Render(session.Grid(), session.Palette()))
		fmt.Println(preview.Legend(session.Grid()))
	}
	return nil
}

func writePNG(path string, session *editor.Session) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	sc := render.Scene{
		Page:    session.GenConfig().Page,
		Grid:    session.Grid(),
		Paths:   session.Paths(),
		Palette: session.Palette(),
	}
	err = render.EncodePNG(f, sc, render.DefaultOptions())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if fi, err := os.Stat(path); err == nil {
		slog.Info("png written", "path", path, "size", humanize.Bytes(uint64(fi.Size())))
	}
	return nil
}

func convert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)
	setupLogging(*verbose)

	if fs.NArg() != 2 {
		return fmt.Errorf("usage: hexcrawl convert IN OUT")
	}
	in, out := fs.Arg(0), fs.Arg(1)

	doc, stats, err := mapio.ReadFile(in)
	if err != nil {
		return err
	}
	if stats.Skipped > 0 {
		slog.Warn("skipped malformed lines", "path", in, "count", stats.Skipped)
	}
	n, err := mapio.WriteFile(out, doc)
	if err != nil {
		return err
	}
	slog.Info("map converted", "from", in, "to", out, "cells", stats.Cells, "paths", stats.Paths, "size", humanize.Bytes(uint64(n)))
	return nil
}
