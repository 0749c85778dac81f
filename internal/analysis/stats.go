// Package analysis computes per-cell summary statistics over a reading log.
// These feed the "detailed cell analysis" tables and have no effect on the
// simulation itself.
package analysis

import (
	"math"
	"sort"

	"cell-testbench/internal/model"
)

// SignalStats summarizes one signal column of a cell's readings.
type SignalStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	P05    float64 `json:"p05"`
	P95    float64 `json:"p95"`
}

// CellSummary bundles the stats for every signal of one cell.
type CellSummary struct {
	CellID    string          `json:"cell_id"`
	Chemistry model.Chemistry `json:"chemistry"`

	Voltage     SignalStats `json:"voltage"`
	Current     SignalStats `json:"current"`
	Temperature SignalStats `json:"temperature"`
	Capacity    SignalStats `json:"capacity"`
}

// Summarize computes per-cell summaries over the full log, sorted by cell ID
// for stable output.
func Summarize(readings []model.Reading) []CellSummary {
	byCell := GroupByCell(readings)

	out := make([]CellSummary, 0, len(byCell))
	for id, rows := range byCell {
		s := CellSummary{CellID: id}
		if len(rows) > 0 {
			s.Chemistry = rows[0].Chemistry
		}
		s.Voltage = computeStats(rows, func(r model.Reading) float64 { return r.Voltage })
		s.Current = computeStats(rows, func(r model.Reading) float64 { return r.Current })
		s.Temperature = computeStats(rows, func(r model.Reading) float64 { return r.Temperature })
		s.Capacity = computeStats(rows, func(r model.Reading) float64 { return r.Capacity })
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CellID < out[j].CellID })
	return out
}

// GroupByCell splits a reading log into cell-keyed slices, preserving order.
func GroupByCell(readings []model.Reading) map[string][]model.Reading {
	out := map[string][]model.Reading{}
	for _, r := range readings {
		out[r.CellID] = append(out[r.CellID], r)
	}
	return out
}

func computeStats(rows []model.Reading, pick func(model.Reading) float64) SignalStats {
	st := SignalStats{Count: len(rows)}
	if len(rows) == 0 {
		return st
	}

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(rows))
	for _, r := range rows {
		v := pick(r)
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	mean := sum / float64(len(vals))

	var sq float64
	for _, v := range vals {
		d := v - mean
		sq += d * d
	}

	sort.Float64s(vals)
	st.Min = minv
	st.Max = maxv
	st.Mean = mean
	st.StdDev = math.Sqrt(sq / float64(len(vals)))
	st.P05 = percentileSorted(vals, 0.05)
	st.P95 = percentileSorted(vals, 0.95)
	return st
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
