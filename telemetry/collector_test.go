package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/mire/sim"
	"github.com/pthm-cable/mire/vec"
)

func TestCollectorWindowing(t *testing.T) {
	c := NewCollector(10)

	if c.ShouldFlush(5) {
		t.Error("flush triggered before window elapsed")
	}
	if !c.ShouldFlush(10) {
		t.Error("flush not triggered at window boundary")
	}

	c.Flush(10, nil, nil)
	if c.ShouldFlush(15) {
		t.Error("window did not restart after flush")
	}
	if !c.ShouldFlush(20) {
		t.Error("second window boundary missed")
	}
}

func TestCollectorCountersResetOnFlush(t *testing.T) {
	c := NewCollector(10)
	c.RecordStroke()
	c.RecordStroke()
	c.RecordConfigChange()
	c.RecordReset()

	stats := c.Flush(10, nil, nil)
	if stats.Strokes != 2 || stats.ConfigChanges != 1 || stats.Resets != 1 {
		t.Errorf("counters not captured: %+v", stats)
	}

	stats = c.Flush(20, nil, nil)
	if stats.Strokes != 0 || stats.ConfigChanges != 0 || stats.Resets != 0 {
		t.Errorf("counters not reset after flush: %+v", stats)
	}
	if stats.WindowStartFrame != 10 {
		t.Errorf("window start = %d, want 10", stats.WindowStartFrame)
	}
}

func TestCollectorSpeedDistribution(t *testing.T) {
	c := NewCollector(1)
	agents := []sim.Agent{
		{Vel: vec.Vec2{X: 0.3, Y: 0.4}}, // speed 0.5
		{Vel: vec.Vec2{X: 0, Y: 0.1}},   // speed 0.1
		{Vel: vec.Vec2{X: 0.3, Y: 0}},   // speed 0.3
	}

	stats := c.Flush(1, agents, nil)
	if stats.Population != 3 {
		t.Errorf("population = %d, want 3", stats.Population)
	}
	if math.Abs(stats.SpeedMean-0.3) > 1e-6 {
		t.Errorf("speed mean = %f, want 0.3", stats.SpeedMean)
	}
	if stats.SpeedP10 > stats.SpeedP50 || stats.SpeedP50 > stats.SpeedP90 {
		t.Errorf("percentiles out of order: p10=%f p50=%f p90=%f",
			stats.SpeedP10, stats.SpeedP50, stats.SpeedP90)
	}
}
