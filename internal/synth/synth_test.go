package synth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cell-testbench/internal/model"
)

func TestSampleVoltageAlwaysInBandAndCapacityDerived(t *testing.T) {
	s := New(1)

	tasks := []model.Task{
		{Type: model.TaskCCCV, DurationSeconds: 10},
		{Type: model.TaskCCCD, DurationSeconds: 10},
		{Type: model.TaskIdle, DurationSeconds: 10},
	}

	for _, chem := range model.Chemistries() {
		band := chem.Band()
		for _, task := range tasks {
			v := band.Nominal
			for elapsed := 0; elapsed < 200; elapsed++ {
				got := s.Sample(chem, v, 30, task, elapsed%task.DurationSeconds)
				assert.GreaterOrEqual(t, got.Voltage, band.Min, "%s %s", chem, task.Type)
				assert.LessOrEqual(t, got.Voltage, band.Max, "%s %s", chem, task.Type)
				assert.Equal(t, got.Voltage*math.Abs(got.Current), got.Capacity)
				v = got.Voltage
			}
		}
	}
}

func TestSampleCurrentConventions(t *testing.T) {
	s := New(2)
	chem := model.ChemistryLFP

	for i := 0; i < 100; i++ {
		cv := s.Sample(chem, 3.2, 30, model.Task{Type: model.TaskCCCV, DurationSeconds: 10}, 3)
		assert.GreaterOrEqual(t, cv.Current, ChargeCurrentMinA)
		assert.LessOrEqual(t, cv.Current, ChargeCurrentMaxA)

		cd := s.Sample(chem, 3.2, 30, model.Task{Type: model.TaskCCCD, DurationSeconds: 10}, 3)
		assert.LessOrEqual(t, cd.Current, -DischargeCurrentMinA)
		assert.GreaterOrEqual(t, cd.Current, -DischargeCurrentMaxA)

		idle := s.Sample(chem, 3.2, 30, model.Task{Type: model.TaskIdle, DurationSeconds: 5}, 3)
		assert.LessOrEqual(t, math.Abs(idle.Current), IdleCurrentNoiseA)
	}
}

func TestSampleTargetCurrentNarrowsBand(t *testing.T) {
	s := New(3)
	task := model.Task{Type: model.TaskCCCV, DurationSeconds: 10, TargetCurrentA: 1.2}

	for i := 0; i < 100; i++ {
		got := s.Sample(model.ChemistryNMC, 3.6, 30, task, 0)
		assert.GreaterOrEqual(t, got.Current, 1.2*0.9)
		assert.LessOrEqual(t, got.Current, 1.2*1.1)
	}
}

func TestSampleChargeConvergesToTarget(t *testing.T) {
	s := New(4)
	task := model.Task{Type: model.TaskCCCV, DurationSeconds: 10, CVVoltage: 3.6}

	v := 3.0
	for elapsed := 0; elapsed < task.DurationSeconds; elapsed++ {
		got := s.Sample(model.ChemistryLFP, v, 30, task, elapsed)
		v = got.Voltage
	}
	assert.InDelta(t, 3.6, v, 0.06)
}

func TestSampleDischargeDecaysTowardCutoff(t *testing.T) {
	s := New(5)
	task := model.Task{Type: model.TaskCCCD, DurationSeconds: 10, CutoffVoltage: 3.0}

	v := 3.5
	for elapsed := 0; elapsed < task.DurationSeconds; elapsed++ {
		got := s.Sample(model.ChemistryLFP, v, 30, task, elapsed)
		v = got.Voltage
	}
	assert.InDelta(t, 3.0, v, 0.06)
}

func TestSampleTemperatureClamped(t *testing.T) {
	s := New(6)
	task := model.Task{Type: model.TaskCCCV, DurationSeconds: 10}

	// Already at the ceiling: heating must not push past it.
	got := s.Sample(model.ChemistryLFP, 3.2, model.TempMax, task, 0)
	assert.LessOrEqual(t, got.Temperature, model.TempMax)

	got = s.Sample(model.ChemistryLFP, 3.2, model.TempMin, model.Task{Type: model.TaskIdle, DurationSeconds: 5}, 0)
	assert.GreaterOrEqual(t, got.Temperature, model.TempMin)
}

func TestSampleMalformedParametersFallBackToChemistryDefaults(t *testing.T) {
	s := New(7)
	band := model.ChemistryLFP.Band()

	// Negative target voltage and a cutoff above the band both get
	// replaced/clamped; output stays inside the band.
	cv := model.Task{Type: model.TaskCCCV, DurationSeconds: 5, CVVoltage: -2}
	cd := model.Task{Type: model.TaskCCCD, DurationSeconds: 5, CutoffVoltage: 99}
	for i := 0; i < 50; i++ {
		a := s.Sample(model.ChemistryLFP, band.Nominal, 30, cv, i%5)
		b := s.Sample(model.ChemistryLFP, band.Nominal, 30, cd, i%5)
		assert.GreaterOrEqual(t, a.Voltage, band.Min)
		assert.LessOrEqual(t, a.Voltage, band.Max)
		assert.GreaterOrEqual(t, b.Voltage, band.Min)
		assert.LessOrEqual(t, b.Voltage, band.Max)
	}
}

func TestSeededSynthesizersAreReproducible(t *testing.T) {
	a := New(99)
	b := New(99)
	task := model.Task{Type: model.TaskCCCV, DurationSeconds: 10}

	for i := 0; i < 25; i++ {
		sa := a.Sample(model.ChemistryNMC, 3.5, 30, task, i%10)
		sb := b.Sample(model.ChemistryNMC, 3.5, 30, task, i%10)
		require.Equal(t, sa, sb)
	}
}
