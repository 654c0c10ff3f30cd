package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mire/params"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string, labelWidth int32) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+labelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// SliderSetting draws one labeled slider bound to a Setting, with three
// sweep-axis toggles on the right. Clicking an axis toggle cycles it
// off -> normal -> inverse -> off. Returns true if anything changed.
func (r *Renderer) SliderSetting(x, y int32, width int32, label string, s *params.Setting) bool {
	changed := false
	th := r.Theme

	rl.DrawText(label, x, y, th.FontSize, th.LabelColor)
	valText := fmt.Sprintf("%.3f", s.Value)
	valWidth := rl.MeasureText(valText, th.FontSize)
	rl.DrawText(valText, x+width-valWidth, y, th.FontSize, th.ValueColor)
	y += th.LineHeight

	sliderW := width - 3*18 - 6
	v := gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(sliderW), Height: float32(th.SliderHeight)},
		"", "",
		s.Value, s.Min, s.Max,
	)
	if v != s.Value {
		s.Value = v
		changed = true
	}

	// Sweep axis toggles
	axes := [3]*float32{&s.XSweep, &s.YSweep, &s.CohortSweep}
	labels := [3]string{"X", "Y", "C"}
	bx := x + sliderW + 6
	for i, axis := range axes {
		col := th.SweepOff
		if *axis > 0 {
			col = th.SweepOn
		} else if *axis < 0 {
			col = rl.Color{R: 200, G: 120, B: 80, A: 255}
		}
		rl.DrawRectangle(bx, y, 16, th.SliderHeight, col)
		rl.DrawText(labels[i], bx+5, y+1, th.FontSize, rl.Black)
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			m := rl.GetMousePosition()
			if m.X >= float32(bx) && m.X < float32(bx+16) && m.Y >= float32(y) && m.Y < float32(y+th.SliderHeight) {
				*axis = cycleSweep(*axis)
				changed = true
			}
		}
		bx += 18
	}

	return changed
}

// cycleSweep advances a sweep axis: off -> normal -> inverse -> off.
func cycleSweep(v float32) float32 {
	switch {
	case v == params.SweepOff:
		return params.SweepNormal
	case v > 0:
		return params.SweepInverse
	default:
		return params.SweepOff
	}
}

// CycleButton draws a labeled button showing the current choice; a click
// advances to the next one. Returns the new index and whether it changed.
func (r *Renderer) CycleButton(x, y, width int32, label string, choices []string, current int) (int, bool) {
	th := r.Theme
	rl.DrawText(label, x, y+4, th.FontSize, th.LabelColor)
	labelW := rl.MeasureText(label, th.FontSize) + 8
	if gui.Button(
		rl.Rectangle{X: float32(x + labelW), Y: float32(y), Width: float32(width - labelW), Height: 20},
		choices[current],
	) {
		return (current + 1) % len(choices), true
	}
	return current, false
}

// Checkbox draws a toggle and returns the new value plus whether it changed.
func (r *Renderer) Checkbox(x, y int32, label string, value bool) (bool, bool) {
	v := gui.CheckBox(rl.Rectangle{X: float32(x), Y: float32(y), Width: 14, Height: 14}, label, value)
	return v, v != value
}
