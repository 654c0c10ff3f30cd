package engine

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mire/ui"
)

// Draw renders the canvas, agents and UI for the current frame.
func (e *Engine) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 8, G: 10, B: 12, A: 255})

	e.canvasRdr.Update(e.sim.Canvas(), e.cfg.Render.ShowBrush, float32(e.cfg.Render.Exposure))
	e.canvasRdr.Draw(e.cam)

	if e.cfg.Render.ShowAgents {
		e.agentBuf = e.sim.Snapshot(e.agentBuf)
		e.agentRdr.PointSize = float32(e.cfg.Render.PointSize)
		e.agentRdr.Draw(e.agentBuf, e.cam)
	}

	act := e.controls.Draw(e.cfg, int32(e.screenW), int32(e.screenH))
	e.applyAction(act)

	e.hud.Draw(ui.HUDData{
		Frame:          e.sim.Frame(),
		Population:     e.sim.Count(),
		StepsPerUpdate: e.stepsPerUpdate,
		FPS:            rl.GetFPS(),
		TPS:            e.ticksPerSec,
		Paused:         e.paused,
		Boundary:       e.cfg.World.Boundary,
		Placement:      e.cfg.World.Placement,
	})

	rl.EndDrawing()
	e.perfCollector.RecordFrame()
}

// applyAction reacts to edits made in the controls panel.
func (e *Engine) applyAction(act ui.Action) {
	if act.RuleChanged {
		// Explicit centers would shadow the seed slider.
		e.cfg.Rule.Centers = nil
	}
	if act.ConfigChanged || act.RuleChanged {
		e.applyConfig()
	}
	if act.Reseed {
		e.reseed()
	}
	if act.Reset {
		e.reset()
	}
	if act.SavePreset {
		e.savePreset()
	}
}
