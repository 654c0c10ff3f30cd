package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mire/config"
	"github.com/pthm-cable/mire/engine"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	snapshot := flag.String("snapshot", "", "Restore agent state from a snapshot file")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config copy")
	seed := flag.Int64("seed", 0, "RNG seed for reseed rolls (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := engine.Options{
		Seed:           *seed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		SnapshotDir:    *snapshotDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if *headless {
		e, err := engine.New(cfg, opts)
		if err != nil {
			slog.Error("failed to start engine", "error", err)
			os.Exit(1)
		}
		defer e.Unload()

		if *snapshot != "" {
			if err := e.RestoreSnapshot(*snapshot); err != nil {
				slog.Error("failed to restore snapshot", "error", err)
				os.Exit(1)
			}
		}

		slog.Info("starting headless simulation",
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
		)

		for {
			e.UpdateHeadless()

			if *maxTicks > 0 && e.Frame() >= *maxTicks {
				slog.Info("max ticks reached", "frame", e.Frame())
				return
			}
		}
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Mire")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	e, err := engine.New(cfg, opts)
	if err != nil {
		slog.Error("failed to start engine", "error", err)
		os.Exit(1)
	}
	defer e.Unload()

	if *snapshot != "" {
		if err := e.RestoreSnapshot(*snapshot); err != nil {
			slog.Error("failed to restore snapshot", "error", err)
			os.Exit(1)
		}
	}

	for !rl.WindowShouldClose() {
		e.Update()
		e.Draw()

		if *maxTicks > 0 && e.Frame() >= *maxTicks {
			break
		}
	}
}
