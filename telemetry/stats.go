package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a frame window.
type WindowStats struct {
	WindowStartFrame int `csv:"-"`
	WindowEndFrame   int `csv:"window_end"`

	// Population at window end
	Population int `csv:"population"`

	// Agent speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Canvas state (sampled at window end)
	FieldTotal float64 `csv:"field_total"`
	FieldMax   float64 `csv:"field_max"`

	// Events during window
	Strokes       int `csv:"strokes"`
	ConfigChanges int `csv:"config_changes"`
	Resets        int `csv:"resets"`
}

// ComputeSpeedStats calculates mean, std, and percentiles from speed values.
// The input slice is sorted in place.
func ComputeSpeedStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}

	sort.Float64s(values)
	p10 = stat.Quantile(0.10, stat.LinInterp, values, nil)
	p50 = stat.Quantile(0.50, stat.LinInterp, values, nil)
	p90 = stat.Quantile(0.90, stat.LinInterp, values, nil)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartFrame),
		slog.Int("window_end", s.WindowEndFrame),
		slog.Int("population", s.Population),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("field_total", s.FieldTotal),
		slog.Float64("field_max", s.FieldMax),
		slog.Int("strokes", s.Strokes),
		slog.Int("config_changes", s.ConfigChanges),
		slog.Int("resets", s.Resets),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"population", s.Population,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"speed_p10", s.SpeedP10,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"field_total", s.FieldTotal,
		"field_max", s.FieldMax,
		"strokes", s.Strokes,
		"config_changes", s.ConfigChanges,
		"resets", s.Resets,
	)
}
