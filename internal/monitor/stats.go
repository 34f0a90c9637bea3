package monitor

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WidthSnapshot summarizes corridor widths accumulated over cycles.
type WidthSnapshot struct {
	Cycles    int
	Blocked   int
	MinWidth  float64
	MaxWidth  float64
	MeanWidth float64
	P50Width  float64
	P90Width  float64
}

// WidthStats tracks narrowest-width observations with thread-safe
// operations. One instance aggregates across a replay batch.
type WidthStats struct {
	mu      sync.Mutex
	widths  []float64
	blocked int
}

// NewWidthStats creates a new WidthStats instance.
func NewWidthStats() *WidthStats {
	return &WidthStats{}
}

// AddCycle records one cycle's narrowest width and whether the corridor was
// truncated by a blocking obstacle.
func (ws *WidthStats) AddCycle(narrowestWidth float64, blocked bool) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.widths = append(ws.widths, narrowestWidth)
	if blocked {
		ws.blocked++
	}
}

// Snapshot computes summary statistics over the recorded cycles.
func (ws *WidthStats) Snapshot() WidthSnapshot {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	snap := WidthSnapshot{Cycles: len(ws.widths), Blocked: ws.blocked}
	if len(ws.widths) == 0 {
		return snap
	}

	sorted := append([]float64(nil), ws.widths...)
	sort.Float64s(sorted)

	snap.MinWidth = floats.Min(sorted)
	snap.MaxWidth = floats.Max(sorted)
	snap.MeanWidth = stat.Mean(sorted, nil)
	snap.P50Width = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	snap.P90Width = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return snap
}

// Reset clears the accumulated observations.
func (ws *WidthStats) Reset() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.widths = ws.widths[:0]
	ws.blocked = 0
}
