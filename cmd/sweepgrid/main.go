// Command sweepgrid runs a headless grid sweep over trail persistence
// and diffusion and writes one CSV row per cell, for mapping out where
// the interesting pattern regimes live.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/mire/config"
	"github.com/pthm-cable/mire/sim"
	"github.com/pthm-cable/mire/telemetry"
)

// SweepResult is one grid cell's outcome.
type SweepResult struct {
	Persistence float64 `csv:"persistence"`
	Diffusion   float64 `csv:"diffusion"`
	Ticks       int     `csv:"ticks"`
	FieldTotal  float64 `csv:"field_total"`
	FieldMax    float64 `csv:"field_max"`
	Coverage    float64 `csv:"coverage"`
	SpeedMean   float64 `csv:"speed_mean"`
	SpeedP90    float64 `csv:"speed_p90"`
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	ticks := flag.Int("ticks", 1000, "Ticks per grid cell")
	steps := flag.Int("steps", 8, "Grid resolution per axis")
	persistenceMin := flag.Float64("persistence-min", 0.85, "Persistence axis lower bound")
	persistenceMax := flag.Float64("persistence-max", 0.995, "Persistence axis upper bound")
	diffusionMin := flag.Float64("diffusion-min", 0.0, "Diffusion axis lower bound")
	diffusionMax := flag.Float64("diffusion-max", 1.0, "Diffusion axis upper bound")
	output := flag.String("output", "sweepgrid.csv", "Output CSV path")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	baseCfg := config.Cfg()

	results := make([]SweepResult, 0, (*steps)*(*steps))
	for pi := 0; pi < *steps; pi++ {
		for di := 0; di < *steps; di++ {
			p := lerp(*persistenceMin, *persistenceMax, axisT(pi, *steps))
			d := lerp(*diffusionMin, *diffusionMax, axisT(di, *steps))

			res, err := runCell(baseCfg, p, d, *ticks)
			if err != nil {
				slog.Error("grid cell failed", "persistence", p, "diffusion", d, "error", err)
				os.Exit(1)
			}
			results = append(results, res)
			slog.Info("grid cell done",
				"persistence", p,
				"diffusion", d,
				"field_total", res.FieldTotal,
				"coverage", res.Coverage,
			)
		}
	}

	if dir := filepath.Dir(*output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			slog.Error("failed to create output directory", "error", err)
			os.Exit(1)
		}
	}
	f, err := os.Create(*output)
	if err != nil {
		slog.Error("failed to create output file", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := gocsv.Marshal(results, f); err != nil {
		slog.Error("failed to write results", "error", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d rows to %s\n", len(results), *output)
}

// runCell simulates one persistence/diffusion pair and summarizes it.
func runCell(baseCfg *config.Config, persistence, diffusion float64, ticks int) (SweepResult, error) {
	cfg := *baseCfg
	cfg.Physics.TrailPersistence.Value = float32(persistence)
	cfg.Physics.TrailDiffusion.Value = float32(diffusion)

	settings, err := cfg.Settings()
	if err != nil {
		return SweepResult{}, err
	}
	s, err := sim.New(settings, cfg.World.Size)
	if err != nil {
		return SweepResult{}, err
	}
	defer s.Close()

	for t := 0; t < ticks; t++ {
		s.Advance()
	}

	canvas := s.Canvas()
	cells := canvas.Cells()
	covered := 0
	for _, c := range cells {
		if math.Abs(float64(c.W)) > 1e-4 {
			covered++
		}
	}

	agents := s.Snapshot(nil)
	speeds := make([]float64, len(agents))
	for i, a := range agents {
		speeds[i] = float64(a.Vel.Len())
	}
	mean, _, _, _, p90 := telemetry.ComputeSpeedStats(speeds)

	return SweepResult{
		Persistence: persistence,
		Diffusion:   diffusion,
		Ticks:       ticks,
		FieldTotal:  canvas.TotalDeposit(),
		FieldMax:    float64(canvas.MaxMagnitude()),
		Coverage:    float64(covered) / float64(len(cells)),
		SpeedMean:   mean,
		SpeedP90:    p90,
	}, nil
}

// axisT maps a grid index to [0,1], handling single-step axes.
func axisT(i, steps int) float64 {
	if steps <= 1 {
		return 0
	}
	return float64(i) / float64(steps-1)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
