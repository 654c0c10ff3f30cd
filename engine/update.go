package engine

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/pthm-cable/mire/rule"
	"github.com/pthm-cable/mire/telemetry"
)

// Update runs input handling plus one or more simulation ticks.
func (e *Engine) Update() {
	e.handleInput()

	if e.paused && !e.singleStep {
		return
	}
	e.singleStep = false

	for i := 0; i < e.stepsPerUpdate; i++ {
		e.tick()
	}
}

// UpdateHeadless runs simulation ticks without any input or rendering.
func (e *Engine) UpdateHeadless() {
	for i := 0; i < e.stepsPerUpdate; i++ {
		e.tick()
	}
}

// tick runs one simulation step with timing and telemetry around it.
func (e *Engine) tick() {
	e.perfCollector.StartTick()
	e.sim.Advance()
	e.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	e.flushTelemetry()
	e.perfCollector.EndTick()
	e.measureTPS()
}

// measureTPS tracks simulation ticks per wall-clock second.
func (e *Engine) measureTPS() {
	e.tpsTicks++
	if elapsed := time.Since(e.tpsStart); elapsed >= time.Second {
		e.ticksPerSec = float64(e.tpsTicks) / elapsed.Seconds()
		e.tpsTicks = 0
		e.tpsStart = time.Now()
	}
}

// flushTelemetry emits window stats when the collector's window closes.
func (e *Engine) flushTelemetry() {
	frame := e.sim.Frame()
	if !e.collector.ShouldFlush(frame) {
		return
	}

	e.agentBuf = e.sim.Snapshot(e.agentBuf)
	stats := e.collector.Flush(frame, e.agentBuf, e.sim.Canvas())
	perfStats := e.perfCollector.Stats()

	if e.statsCallback != nil {
		e.statsCallback(stats)
	}

	if e.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if e.outputManager != nil {
		if err := e.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := e.outputManager.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// applyConfig pushes the edited configuration into the running sim.
func (e *Engine) applyConfig() {
	settings, err := e.cfg.Settings()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return
	}
	e.sim.SetConfig(settings)
	e.collector.RecordConfigChange()
	if e.cam != nil {
		e.cam.Wrap = e.cfg.World.Boundary == "wrap"
	}
}

// reseed rolls a fresh rule seed and discards any explicit centers so
// the rule regenerates from the new seed.
func (e *Engine) reseed() {
	e.cfg.Rule.Seed = e.rng.Float64()
	e.cfg.Rule.Centers = nil
	e.applyConfig()
	slog.Info("new rule seed", "seed", e.cfg.Rule.Seed)
}

// reset re-places all agents on the next tick.
func (e *Engine) reset() {
	e.sim.Reset()
	e.collector.RecordReset()
	slog.Info("simulation reset")
}

// savePreset writes the current configuration, with the effective rule
// centers materialized, next to the telemetry output.
func (e *Engine) savePreset() {
	if len(e.cfg.Rule.Centers) == 0 {
		e.cfg.SetRule(rule.Generate(float32(e.cfg.Rule.Seed)))
	}
	path := fmt.Sprintf("preset_%s.yaml", time.Now().Format("20060102_150405"))
	if e.outputManager != nil {
		path = filepath.Join(e.outputManager.Dir(), path)
	}
	if err := e.cfg.Save(path); err != nil {
		slog.Error("failed to save preset", "error", err)
		return
	}
	slog.Info("preset saved", "path", path)
}

// saveSnapshot captures all agent state to a timestamped JSON file.
func (e *Engine) saveSnapshot() {
	snap := telemetry.CaptureSnapshot(e.sim)
	name := fmt.Sprintf("snapshot_%s", time.Now().Format("20060102_150405"))
	path := name
	if e.snapshotDir != "" {
		path = filepath.Join(e.snapshotDir, name)
	}
	if err := snap.Save(path); err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path+".json", "frame", snap.Frame, "agents", len(snap.Agents))
}

// RestoreSnapshot loads agent state from a snapshot file into the sim.
func (e *Engine) RestoreSnapshot(path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	if err := e.sim.Restore(snap.AgentSlice(), snap.Frame); err != nil {
		return err
	}
	slog.Info("snapshot restored", "path", path, "frame", snap.Frame, "agents", len(snap.Agents))
	return nil
}
