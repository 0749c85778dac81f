package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func someTasks() []Task {
	return []Task{
		{Type: TaskCCCV, DurationSeconds: 10},
		{Type: TaskIdle, DurationSeconds: 5},
	}
}

func TestNewCellRandomizesWithinChemistryBand(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 50; i++ {
		c, err := NewCell("cell1", ChemistryLFP, someTasks(), CellOverrides{}, rng)
		require.NoError(t, err)

		band := ChemistryLFP.Band()
		assert.GreaterOrEqual(t, c.Voltage, band.InitialMin)
		assert.LessOrEqual(t, c.Voltage, band.InitialMax)
		assert.GreaterOrEqual(t, c.Temperature, TempInitMin)
		assert.LessOrEqual(t, c.Temperature, TempInitMax)
		assert.Equal(t, band.Min, c.MinVoltage)
		assert.Equal(t, band.Max, c.MaxVoltage)
	}
}

func TestNewCellClampsExplicitOverrides(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// Way above the absolute 5V limit: clamped down to the chemistry max.
	c, err := NewCell("cell1", ChemistryLFP, someTasks(), CellOverrides{Voltage: 9.9}, rng)
	require.NoError(t, err)
	assert.Equal(t, 3.6, c.Voltage)

	// Below the band: clamped up to the chemistry min.
	c, err = NewCell("cell1", ChemistryLFP, someTasks(), CellOverrides{Voltage: 1.0}, rng)
	require.NoError(t, err)
	assert.Equal(t, 2.8, c.Voltage)

	// Temperature clamped to the safety band.
	c, err = NewCell("cell1", ChemistryNMC, someTasks(), CellOverrides{Temperature: 99}, rng)
	require.NoError(t, err)
	assert.Equal(t, TempMax, c.Temperature)
}

func TestCellValidate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := NewCell("", ChemistryLFP, someTasks(), CellOverrides{}, rng)
	assert.ErrorContains(t, err, "id")

	_, err = NewCell("cell1", ChemistryLFP, nil, CellOverrides{}, rng)
	assert.ErrorContains(t, err, "at least one task")

	_, err = NewCell("cell1", ChemistryLFP, []Task{{Type: TaskIdle, DurationSeconds: 0}}, CellOverrides{}, rng)
	assert.ErrorContains(t, err, "duration_seconds")

	_, err = NewCell("cell1", ChemistryLFP, []Task{{Type: "REST", DurationSeconds: 5}}, CellOverrides{}, rng)
	assert.ErrorContains(t, err, "unknown task type")
}

func TestParseChemistry(t *testing.T) {
	c, err := ParseChemistry("LFP")
	require.NoError(t, err)
	assert.Equal(t, ChemistryLFP, c)

	_, err = ParseChemistry("NiCd")
	assert.Error(t, err)
}

func TestUnknownChemistryFallsBackToGenericBand(t *testing.T) {
	assert.Equal(t, ChemistryNMC.Band(), Chemistry("LTO").Band())
}

func TestTotalDuration(t *testing.T) {
	assert.Equal(t, 15, TotalDuration(someTasks()))
	assert.Equal(t, 0, TotalDuration(nil))
}

func TestTaskProgress(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c, err := NewCell("cell1", ChemistryLFP, someTasks(), CellOverrides{}, rng)
	require.NoError(t, err)

	c.ActiveTaskIndex = 0
	c.TaskElapsedSeconds = 5
	assert.InDelta(t, 50.0, c.TaskProgress(), 1e-9)

	c.Completed = true
	assert.Equal(t, 100.0, c.TaskProgress())
}

func TestResetRun(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c, err := NewCell("cell1", ChemistryLFP, someTasks(), CellOverrides{}, rng)
	require.NoError(t, err)

	c.ActiveTaskIndex = 1
	c.TaskElapsedSeconds = 3
	c.Completed = true
	v := c.Voltage

	c.ResetRun()
	assert.Zero(t, c.ActiveTaskIndex)
	assert.Zero(t, c.TaskElapsedSeconds)
	assert.False(t, c.Completed)
	assert.Equal(t, v, c.Voltage, "physical state survives a run reset")
}
