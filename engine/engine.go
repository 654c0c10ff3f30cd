// Package engine ties the simulation, rendering, UI and telemetry
// together into the interactive application loop.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/pthm-cable/mire/camera"
	"github.com/pthm-cable/mire/config"
	"github.com/pthm-cable/mire/renderer"
	"github.com/pthm-cable/mire/sim"
	"github.com/pthm-cable/mire/telemetry"
	"github.com/pthm-cable/mire/ui"
)

// Options configures an Engine at startup.
type Options struct {
	Seed           int64  // RNG seed for reseed button rolls
	LogStats       bool   // Log window stats via slog
	OutputDir      string // CSV output directory (empty = no CSV output)
	SnapshotDir    string // Directory for agent snapshots (empty = working dir)
	Headless       bool   // Skip all rendering and UI
	StepsPerUpdate int    // Simulation ticks per update call
}

// Engine owns the simulation and everything around it.
type Engine struct {
	cfg *config.Config
	sim *sim.Sim
	rng *rand.Rand

	// Rendering
	cam       *camera.Camera
	canvasRdr *renderer.CanvasRenderer
	agentRdr  *renderer.AgentRenderer

	// UI
	uiRenderer *ui.Renderer
	controls   *ui.ControlsPanel
	hud        *ui.HUD

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)

	// Agent readback buffer, reused across flushes and draws.
	agentBuf []sim.Agent

	// State
	paused         bool
	singleStep     bool
	stepsPerUpdate int
	headless       bool
	logStats       bool
	snapshotDir    string

	// Stroke painting
	painting  bool
	lastWorld [2]float32

	// Tick rate measurement
	tpsTicks    int
	tpsStart    time.Time
	ticksPerSec float64

	screenW, screenH float32
}

// New creates an engine from the loaded configuration.
func New(cfg *config.Config, opts Options) (*Engine, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	var s *sim.Sim
	if cfg.World.Population > 0 {
		s, err = sim.NewWithPopulation(settings, cfg.World.Population, cfg.World.Size)
	} else {
		s, err = sim.New(settings, cfg.World.Size)
	}
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	windowFrames := int(cfg.Telemetry.StatsWindow * float64(cfg.Screen.TargetFPS))
	if windowFrames < 1 {
		windowFrames = 1
	}

	e := &Engine{
		cfg:            cfg,
		sim:            s,
		rng:            rand.New(rand.NewSource(seed)),
		collector:      telemetry.NewCollector(windowFrames),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		stepsPerUpdate: steps,
		headless:       opts.Headless,
		logStats:       opts.LogStats,
		snapshotDir:    opts.SnapshotDir,
		tpsStart:       time.Now(),
		screenW:        cfg.Derived.ScreenW32,
		screenH:        cfg.Derived.ScreenH32,
	}

	e.sim.SetPhaseHook(e.perfCollector.StartPhase)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		e.outputManager = om
		if err := cfg.Save(filepath.Join(om.Dir(), "config.yaml")); err != nil {
			slog.Warn("failed to write config copy", "error", err)
		}
	}

	if !opts.Headless {
		e.cam = camera.New(e.screenW, e.screenH)
		e.cam.Wrap = cfg.World.Boundary == "wrap"
		e.canvasRdr = renderer.NewCanvasRenderer()
		e.canvasRdr.Init(cfg.Derived.CanvasDim)
		e.agentRdr = renderer.NewAgentRenderer(float32(cfg.Render.PointSize))
		e.uiRenderer = ui.NewRenderer()
		e.controls = ui.NewControlsPanel(e.uiRenderer)
		e.hud = ui.NewHUD(e.uiRenderer)
	}

	slog.Info("engine initialized",
		"population", e.sim.Count(),
		"world_size", e.sim.WorldSize(),
		"canvas_dim", cfg.Derived.CanvasDim,
		"headless", opts.Headless,
	)

	return e, nil
}

// SetStatsCallback registers a callback invoked on every stats flush.
func (e *Engine) SetStatsCallback(cb func(telemetry.WindowStats)) {
	e.statsCallback = cb
}

// Frame returns the simulation frame counter.
func (e *Engine) Frame() int {
	return e.sim.Frame()
}

// Sim exposes the underlying simulation, used by batch tooling.
func (e *Engine) Sim() *sim.Sim {
	return e.sim
}

// Unload releases simulation workers, GPU resources and open files.
func (e *Engine) Unload() {
	e.sim.Close()
	if e.canvasRdr != nil {
		e.canvasRdr.Unload()
	}
	if e.outputManager != nil {
		if err := e.outputManager.Close(); err != nil {
			slog.Error("failed to close telemetry output", "error", err)
		}
	}
}
