package telemetry

import (
	"github.com/pthm-cable/mire/field"
	"github.com/pthm-cable/mire/sim"
)

// Collector accumulates events within frame windows and produces WindowStats.
type Collector struct {
	windowFrames int

	// Current window tracking
	windowStartFrame int

	// Event counters for current window
	strokes       int
	configChanges int
	resets        int

	// Scratch buffer reused across flushes
	speeds []float64
}

// NewCollector creates a new stats collector.
// windowFrames: how many simulation frames each stats window spans.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{windowFrames: windowFrames}
}

// RecordStroke records an external draw event.
func (c *Collector) RecordStroke() {
	c.strokes++
}

// RecordConfigChange records a configuration swap.
func (c *Collector) RecordConfigChange() {
	c.configChanges++
}

// RecordReset records a population reset.
func (c *Collector) RecordReset() {
	c.resets++
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(currentFrame int) bool {
	return currentFrame-c.windowStartFrame >= c.windowFrames
}

// Flush produces a WindowStats and resets counters for the next window.
// agents is the current population snapshot; canvas is the trail field.
func (c *Collector) Flush(currentFrame int, agents []sim.Agent, canvas *field.Field) WindowStats {
	if cap(c.speeds) < len(agents) {
		c.speeds = make([]float64, len(agents))
	}
	c.speeds = c.speeds[:len(agents)]
	for i, a := range agents {
		c.speeds[i] = float64(a.Vel.Len())
	}
	mean, std, p10, p50, p90 := ComputeSpeedStats(c.speeds)

	var fieldTotal float64
	var fieldMax float64
	if canvas != nil {
		fieldTotal = canvas.TotalDeposit()
		fieldMax = float64(canvas.MaxMagnitude())
	}

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   currentFrame,

		Population: len(agents),

		SpeedMean: mean,
		SpeedStd:  std,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,

		FieldTotal: fieldTotal,
		FieldMax:   fieldMax,

		Strokes:       c.strokes,
		ConfigChanges: c.configChanges,
		Resets:        c.resets,
	}

	// Reset for next window
	c.windowStartFrame = currentFrame
	c.strokes = 0
	c.configChanges = 0
	c.resets = 0

	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int {
	return c.windowFrames
}
