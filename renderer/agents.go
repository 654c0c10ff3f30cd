package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mire/camera"
	"github.com/pthm-cable/mire/sim"
)

// AgentRenderer draws the agent population as points over the canvas.
type AgentRenderer struct {
	// PointSize is the dot radius in pixels; at 1 or below agents draw
	// as single pixels.
	PointSize float32
}

// NewAgentRenderer creates an agent renderer.
func NewAgentRenderer(pointSize float32) *AgentRenderer {
	if pointSize <= 0 {
		pointSize = 1
	}
	return &AgentRenderer{PointSize: pointSize}
}

// Draw renders every visible agent. Speed drives the color, slow agents
// dim blue and fast agents bright white, so congested lanes stand out.
func (r *AgentRenderer) Draw(agents []sim.Agent, cam *camera.Camera) {
	cullRadius := r.PointSize / cam.Zoom
	for i := range agents {
		a := &agents[i]
		if !cam.IsVisible(a.Pos.X, a.Pos.Y, cullRadius) {
			continue
		}
		sx, sy := cam.WorldToScreen(a.Pos.X, a.Pos.Y)
		c := speedColor(a.Vel.Len())
		if r.PointSize <= 1 {
			rl.DrawPixelV(rl.Vector2{X: sx, Y: sy}, c)
		} else {
			rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, r.PointSize, c)
		}
	}
}

// speedColor maps agent speed to a color ramp. The knee at 0.005 world
// units per tick is roughly the cruising speed under default settings.
func speedColor(speed float32) rl.Color {
	t := speed / 0.005
	if t > 1 {
		t = 1
	}
	return rl.Color{
		R: uint8(120 + 135*t),
		G: uint8(140 + 115*t),
		B: 255,
		A: 200,
	}
}
