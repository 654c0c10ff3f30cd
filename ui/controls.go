package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mire/config"
	"github.com/pthm-cable/mire/params"
)

// Action is what the controls panel reports back to the engine each frame.
type Action struct {
	ConfigChanged bool // a physics/render setting moved; push new settings
	RuleChanged   bool // seed or cohorts moved; regenerate the rule
	Reseed        bool // roll a new random rule seed
	Reset         bool // re-place all agents
	SavePreset    bool // write the current config to disk
}

var boundaryChoices = []string{"bounce", "reset", "wrap"}
var placementChoices = []string{"grid", "random", "ring"}
var orientationChoices = []string{"off", "y_axis", "radial"}

// ControlsPanel edits a live Config. The engine reads the returned Action
// and applies the changes to the running simulation.
type ControlsPanel struct {
	renderer *Renderer
	Width    int32
	Visible  bool

	scrollY int32
}

// NewControlsPanel creates the settings panel.
func NewControlsPanel(renderer *Renderer) *ControlsPanel {
	return &ControlsPanel{
		renderer: renderer,
		Width:    260,
		Visible:  true,
	}
}

// Toggle shows or hides the panel.
func (p *ControlsPanel) Toggle() {
	p.Visible = !p.Visible
}

// Draw renders the panel on the right edge of the screen and returns any
// edits made this frame.
func (p *ControlsPanel) Draw(cfg *config.Config, screenW, screenH int32) Action {
	var act Action
	if !p.Visible {
		return act
	}

	r := p.renderer
	th := r.Theme
	x := screenW - p.Width
	r.DrawPanel(x, 0, p.Width, screenH)

	cx := x + th.Padding
	cw := p.Width - 2*th.Padding
	y := th.Padding - p.scrollY

	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		m := rl.GetMousePosition()
		if m.X >= float32(x) {
			p.scrollY -= int32(wheel * 40)
			if p.scrollY < 0 {
				p.scrollY = 0
			}
		}
	}

	y = r.DrawSectionHeader(cx, y, "SENSING")
	y = p.slider(&act, cx, y, cw, "Sensor gain", &cfg.Physics.SensorGain)
	y = p.slider(&act, cx, y, cw, "Sensor angle", &cfg.Physics.SensorAngle)
	y = p.slider(&act, cx, y, cw, "Sensor distance", &cfg.Physics.SensorDistance)
	y = p.slider(&act, cx, y, cw, "Mutation scale", &cfg.Physics.MutationScale)
	y += th.Padding

	y = r.DrawSectionHeader(cx, y, "MOTION")
	y = p.slider(&act, cx, y, cw, "Drag", &cfg.Physics.Drag)
	y = p.slider(&act, cx, y, cw, "Strafe power", &cfg.Physics.StrafePower)
	y = p.slider(&act, cx, y, cw, "Axial force", &cfg.Physics.AxialForce)
	y = p.slider(&act, cx, y, cw, "Lateral force", &cfg.Physics.LateralForce)
	y = p.slider(&act, cx, y, cw, "Global force", &cfg.Physics.GlobalForce)
	y = p.slider(&act, cx, y, cw, "Hazard rate", &cfg.Physics.HazardRate)
	y += th.Padding

	y = r.DrawSectionHeader(cx, y, "FIELD")
	y = p.slider(&act, cx, y, cw, "Persistence", &cfg.Physics.TrailPersistence)
	y = p.slider(&act, cx, y, cw, "Diffusion", &cfg.Physics.TrailDiffusion)
	y += th.Padding

	y = r.DrawSectionHeader(cx, y, "MODES")
	if i, changed := r.CycleButton(cx, y, cw, "Boundary", boundaryChoices, indexOf(boundaryChoices, cfg.World.Boundary)); changed {
		cfg.World.Boundary = boundaryChoices[i]
		act.ConfigChanged = true
	}
	y += 24
	if i, changed := r.CycleButton(cx, y, cw, "Placement", placementChoices, indexOf(placementChoices, cfg.World.Placement)); changed {
		cfg.World.Placement = placementChoices[i]
		act.ConfigChanged = true
	}
	y += 24
	if i, changed := r.CycleButton(cx, y, cw, "Orientation", orientationChoices, indexOf(orientationChoices, cfg.Physics.AbsoluteOrientation)); changed {
		cfg.Physics.AbsoluteOrientation = orientationChoices[i]
		act.ConfigChanged = true
	}
	y += 24
	if v, changed := r.Checkbox(cx, y, "Disable symmetry", cfg.Physics.DisableSymmetry); changed {
		cfg.Physics.DisableSymmetry = v
		act.ConfigChanged = true
	}
	y += 20

	y = r.DrawSectionHeader(cx, y, "RULE")
	y = r.DrawLabelValue(cx, y, "Seed", fmt.Sprintf("%.4f", cfg.Rule.Seed), 100)
	seed := gui.SliderBar(
		rl.Rectangle{X: float32(cx), Y: float32(y), Width: float32(cw), Height: float32(th.SliderHeight)},
		"", "",
		float32(cfg.Rule.Seed), 0, 1,
	)
	if float64(seed) != cfg.Rule.Seed {
		cfg.Rule.Seed = float64(seed)
		act.RuleChanged = true
	}
	y += th.SliderHeight + 6
	cohorts := gui.SliderBar(
		rl.Rectangle{X: float32(cx), Y: float32(y), Width: float32(cw), Height: float32(th.SliderHeight)},
		"1", "256",
		float32(cfg.Rule.Cohorts), 1, 256,
	)
	if int(cohorts) != cfg.Rule.Cohorts {
		cfg.Rule.Cohorts = int(cohorts)
		act.RuleChanged = true
	}
	y += th.SliderHeight + th.Padding

	y = r.DrawSectionHeader(cx, y, "RENDER")
	exposure := gui.SliderBar(
		rl.Rectangle{X: float32(cx), Y: float32(y + th.LineHeight), Width: float32(cw), Height: float32(th.SliderHeight)},
		"", "",
		float32(cfg.Render.Exposure), 0.1, 8,
	)
	rl.DrawText("Exposure", cx, y, th.FontSize, th.LabelColor)
	if float64(exposure) != cfg.Render.Exposure {
		cfg.Render.Exposure = float64(exposure)
	}
	y += th.LineHeight + th.SliderHeight + 6
	if v, changed := r.Checkbox(cx, y, "Show agents", cfg.Render.ShowAgents); changed {
		cfg.Render.ShowAgents = v
	}
	y += 20
	if v, changed := r.Checkbox(cx, y, "Show brush", cfg.Render.ShowBrush); changed {
		cfg.Render.ShowBrush = v
	}
	y += 20 + th.Padding

	bw := (cw - 6) / 2
	if gui.Button(rl.Rectangle{X: float32(cx), Y: float32(y), Width: float32(bw), Height: 24}, "New rule") {
		act.Reseed = true
	}
	if gui.Button(rl.Rectangle{X: float32(cx + bw + 6), Y: float32(y), Width: float32(bw), Height: 24}, "Reset") {
		act.Reset = true
	}
	y += 30
	if gui.Button(rl.Rectangle{X: float32(cx), Y: float32(y), Width: float32(cw), Height: 24}, "Save preset") {
		act.SavePreset = true
	}

	return act
}

func (p *ControlsPanel) slider(act *Action, x, y, w int32, label string, s *params.Setting) int32 {
	if p.renderer.SliderSetting(x, y, w, label, s) {
		act.ConfigChanged = true
	}
	return y + p.renderer.Theme.LineHeight + p.renderer.Theme.SliderHeight + 6
}

func indexOf(choices []string, v string) int {
	for i, c := range choices {
		if c == v {
			return i
		}
	}
	return 0
}
