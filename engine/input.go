package engine

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mire/sim"
	"github.com/pthm-cable/mire/vec"
)

// Stroke radius and power applied when painting with the mouse.
const (
	strokeRadius = 0.03
	strokePower  = 0.5
)

// handleInput processes keyboard and mouse input.
func (e *Engine) handleInput() {
	e.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		e.paused = !e.paused
	}
	if e.paused && rl.IsKeyPressed(rl.KeyPeriod) {
		e.singleStep = true
	}

	// Steps-per-update control with < > keys while running
	if !e.paused {
		if rl.IsKeyPressed(rl.KeyComma) && e.stepsPerUpdate > 1 {
			e.stepsPerUpdate--
		}
		if rl.IsKeyPressed(rl.KeyPeriod) && e.stepsPerUpdate < 16 {
			e.stepsPerUpdate++
		}
	}

	if rl.IsKeyPressed(rl.KeyR) {
		e.reset()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		e.reseed()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		e.saveSnapshot()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		e.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyB) {
		e.cfg.Render.ShowBrush = !e.cfg.Render.ShowBrush
	}
	if rl.IsKeyPressed(rl.KeyA) {
		e.cfg.Render.ShowAgents = !e.cfg.Render.ShowAgents
	}
	if rl.IsKeyPressed(rl.KeyH) {
		e.hud.ShowHelp = !e.hud.ShowHelp
	}
	if rl.IsKeyPressed(rl.KeyC) {
		e.cam.Reset()
	}

	e.handleMouse()
}

// handleResize propagates window resizes to the camera.
func (e *Engine) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == e.screenW && h == e.screenH {
		return
	}
	e.screenW = w
	e.screenH = h
	e.cam.Resize(w, h)
}

// handleMouse processes stroke painting, panning and zooming.
func (e *Engine) handleMouse() {
	m := rl.GetMousePosition()

	// The controls panel owns the mouse while the cursor is over it.
	overUI := e.controls.Visible && m.X >= e.screenW-float32(e.controls.Width)
	if overUI {
		e.painting = false
		return
	}

	// Wheel zooms toward the cursor.
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		e.cam.ZoomAt(1+wheel*0.1, m.X, m.Y)
	}

	// Right or middle drag pans.
	if rl.IsMouseButtonDown(rl.MouseButtonRight) || rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		e.cam.Pan(-d.X, -d.Y)
	}

	// Left drag paints a stroke into the staging field.
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		wx, wy := e.cam.ScreenToWorld(m.X, m.Y)
		if !e.painting {
			e.painting = true
			e.lastWorld = [2]float32{wx, wy}
		}
		e.queueStroke(e.lastWorld[0], e.lastWorld[1], wx, wy)
		e.lastWorld = [2]float32{wx, wy}
	} else {
		e.painting = false
	}
}

// queueStroke submits one painted segment to the simulation.
func (e *Engine) queueStroke(x0, y0, x1, y1 float32) {
	e.sim.QueueStroke(sim.Stroke{
		From:   vec.Vec2{X: x0, Y: y0},
		To:     vec.Vec2{X: x1, Y: y1},
		Radius: strokeRadius,
		Power:  strokePower,
	})
	e.collector.RecordStroke()
}
