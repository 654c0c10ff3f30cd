package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData is the per-frame state the HUD displays.
type HUDData struct {
	Frame          int
	Population     int
	StepsPerUpdate int
	FPS            int32
	TPS            float64
	Paused         bool
	Boundary       string
	Placement      string
}

// HUD draws the status line and key legend.
type HUD struct {
	renderer *Renderer
	ShowHelp bool
}

// NewHUD creates the heads-up display.
func NewHUD(renderer *Renderer) *HUD {
	return &HUD{renderer: renderer}
}

// Draw renders the status bar in the top-left corner.
func (h *HUD) Draw(d HUDData) {
	r := h.renderer
	th := r.Theme

	r.DrawPanel(0, 0, 230, 100)
	x := th.Padding
	y := th.Padding

	y = r.DrawLabelValue(x, y, "Frame", fmt.Sprintf("%d", d.Frame), 90)
	y = r.DrawLabelValue(x, y, "Agents", fmt.Sprintf("%d", d.Population), 90)
	y = r.DrawLabelValue(x, y, "FPS / TPS", fmt.Sprintf("%d / %.0f", d.FPS, d.TPS), 90)
	y = r.DrawLabelValue(x, y, "Steps", fmt.Sprintf("%d", d.StepsPerUpdate), 90)
	_ = r.DrawLabelValue(x, y, "World", d.Boundary+" / "+d.Placement, 90)

	if d.Paused {
		msg := "PAUSED"
		w := rl.MeasureText(msg, 28)
		sw := int32(rl.GetScreenWidth())
		rl.DrawText(msg, (sw-w)/2, 20, 28, rl.Color{R: 240, G: 200, B: 80, A: 255})
	}

	if h.ShowHelp {
		h.drawHelp()
	}
}

func (h *HUD) drawHelp() {
	r := h.renderer
	th := r.Theme
	sh := int32(rl.GetScreenHeight())

	lines := []string{
		"space  pause / resume",
		".      single step while paused",
		"r      reset agents",
		"n      new rule seed",
		"s      save snapshot",
		"tab    toggle controls",
		"b      show brush buffer",
		"drag   paint a stroke",
		"wheel  zoom at cursor",
		"rmb    pan camera",
		"h      hide this help",
	}

	height := int32(len(lines))*th.LineHeight + 2*th.Padding
	r.DrawPanel(0, sh-height, 230, height)
	y := sh - height + th.Padding
	for _, line := range lines {
		rl.DrawText(line, th.Padding, y, th.FontSize, th.LabelColor)
		y += th.LineHeight
	}
}
