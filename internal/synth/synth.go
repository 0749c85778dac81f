// Package synth generates bounded pseudo-random voltage/current/temperature
// signals shaped to resemble charge, discharge, and rest behavior. It is not
// an electrochemical model; every output is clamped to the owning cell's
// documented bounds.
package synth

import (
	"math"
	"math/rand"

	"cell-testbench/internal/model"
)

// Current bands in amps. CC_CV draws a positive charging current, CC_CD a
// negative discharging current, IDLE symmetric sensor noise around zero.
const (
	ChargeCurrentMinA    = 1.0
	ChargeCurrentMaxA    = 2.0
	DischargeCurrentMinA = 0.5
	DischargeCurrentMaxA = 1.5
	IdleCurrentNoiseA    = 0.02
)

// Voltage jitter per tick, volts.
const (
	trendJitterV = 0.005
	idleDriftV   = 0.01
)

// Temperature model: resistive-heating proxy plus sensor noise, °C per tick.
const (
	heatPerAmp = 0.02
	tempNoise  = 0.25
)

// Sample is one synthesized set of signal values.
type Sample struct {
	Voltage     float64
	Current     float64
	Temperature float64
	Capacity    float64
}

// Synthesizer owns its random source so runs can be seeded deterministically
// in tests. It is not safe for concurrent use; the driver calls it from a
// single goroutine.
type Synthesizer struct {
	rng *rand.Rand
}

// New returns a synthesizer seeded with seed.
func New(seed int64) *Synthesizer {
	return &Synthesizer{rng: rand.New(rand.NewSource(seed))}
}

// NewFrom returns a synthesizer drawing from an existing source.
func NewFrom(rng *rand.Rand) *Synthesizer {
	return &Synthesizer{rng: rng}
}

// Sample produces the next signal values for a cell running task, given the
// cell's present voltage and temperature and the seconds elapsed within the
// task. It never fails; malformed task parameters fall back to
// chemistry-derived defaults.
func (s *Synthesizer) Sample(chem model.Chemistry, voltage, temperature float64, task model.Task, elapsedWithin int) Sample {
	band := chem.Band()

	var v, i float64
	switch task.Type {
	case model.TaskCCCV:
		i = s.currentIn(ChargeCurrentMinA, ChargeCurrentMaxA, task.TargetCurrentA)
		target := task.CVVoltage
		if target <= 0 {
			target = band.Max
		}
		target = model.Clamp(target, band.Min, band.Max)
		v = s.approach(voltage, target, task.DurationSeconds, elapsedWithin)
	case model.TaskCCCD:
		i = -s.currentIn(DischargeCurrentMinA, DischargeCurrentMaxA, task.TargetCurrentA)
		cutoff := task.CutoffVoltage
		if cutoff <= 0 {
			cutoff = band.Min
		}
		cutoff = model.Clamp(cutoff, band.Min, band.Max)
		v = s.approach(voltage, cutoff, task.DurationSeconds, elapsedWithin)
	default: // IDLE and anything unrecognized rests the cell
		i = s.uniform(-IdleCurrentNoiseA, IdleCurrentNoiseA)
		v = voltage + s.uniform(-idleDriftV, idleDriftV)
	}

	v = model.Clamp(v, band.Min, band.Max)
	t := temperature + heatPerAmp*math.Abs(i) + s.uniform(-tempNoise, tempNoise)
	t = model.Clamp(t, model.TempMin, model.TempMax)

	return Sample{
		Voltage:     v,
		Current:     i,
		Temperature: t,
		Capacity:    v * math.Abs(i),
	}
}

// currentIn draws a current magnitude. A positive target narrows the band to
// ±10% around the target; otherwise the chemistry-level band applies.
func (s *Synthesizer) currentIn(lo, hi, target float64) float64 {
	if target > 0 {
		return s.uniform(target*0.9, target*1.1)
	}
	return s.uniform(lo, hi)
}

// approach moves v one tick toward target, spreading the remaining gap over
// the remaining task seconds so the expected value lands on target when the
// task ends. Jitter keeps the trace from looking piecewise-linear.
func (s *Synthesizer) approach(v, target float64, durationSeconds, elapsedWithin int) float64 {
	remaining := durationSeconds - elapsedWithin
	if remaining < 1 {
		remaining = 1
	}
	step := (target - v) / float64(remaining)
	return v + step + s.uniform(-trendJitterV, trendJitterV)
}

func (s *Synthesizer) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}
