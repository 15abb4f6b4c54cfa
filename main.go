package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/petalsim/petalfall/config"
	"github.com/petalsim/petalfall/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "config.yaml", "Path to config.yaml")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for stats CSV and config snapshot")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// A missing config file is first-run, not an error: write the
	// commented defaults for the user to edit and exit cleanly.
	if _, err := os.Stat(*configPath); errors.Is(err, os.ErrNotExist) {
		if err := config.WriteDefault(*configPath); err != nil {
			slog.Error("failed to write default config", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default configuration to %s. Edit it and run again.\n", *configPath)
		return
	}

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Petalfall")

	if cfg.Screen.EnableFrameRateLimit {
		rl.SetTargetFPS(int32(cfg.Screen.FrameRateLimit))
	}

	g, err := game.New(game.Options{
		Seed:      rngSeed,
		OutputDir: *outputDir,
	})
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		rl.CloseWindow()
		os.Exit(1)
	}

	slog.Info("starting", "seed", rngSeed, "max_ticks", *maxTicks)

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && g.Tick() >= *maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			break
		}
	}

	// The export's final status decides the exit code: a failed encode
	// means the output file is not trustworthy.
	unloadErr := g.Unload()
	rl.CloseWindow()
	if unloadErr != nil {
		os.Exit(1)
	}
}
