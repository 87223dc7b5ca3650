// Package telemetry aggregates per-tick simulation counters into window
// statistics and exports them as CSV.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowEndTick int64   `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	// Population at window end
	Bodies int `csv:"bodies"`

	// Work during the window
	PairsTested int `csv:"pairs_tested"`
	NarrowHits  int `csv:"narrow_hits"`
	Contacts    int `csv:"contacts"`

	// Penetration depth distribution over the window's ticks
	DepthMax  float64 `csv:"depth_max"`
	DepthMean float64 `csv:"depth_mean"`
	DepthP50  float64 `csv:"depth_p50"`
	DepthP90  float64 `csv:"depth_p90"`
}

// summarize computes mean and quantiles over the recorded per-tick
// maximum depths.
func summarize(depths []float64) (mean, p50, p90 float64) {
	if len(depths) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(depths))
	copy(sorted, depths)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("bodies", s.Bodies),
		slog.Int("pairs_tested", s.PairsTested),
		slog.Int("narrow_hits", s.NarrowHits),
		slog.Int("contacts", s.Contacts),
		slog.Float64("depth_max", s.DepthMax),
		slog.Float64("depth_mean", s.DepthMean),
	)
}
