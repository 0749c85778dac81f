package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cell-testbench/internal/model"
)

func readings() []model.Reading {
	return []model.Reading{
		{TimeSeconds: 0, CellID: "cell1", Chemistry: model.ChemistryLFP, Voltage: 3.0, Current: 1.0, Temperature: 30, Capacity: 3.0},
		{TimeSeconds: 1, CellID: "cell1", Chemistry: model.ChemistryLFP, Voltage: 3.2, Current: 2.0, Temperature: 32, Capacity: 6.4},
		{TimeSeconds: 2, CellID: "cell1", Chemistry: model.ChemistryLFP, Voltage: 3.4, Current: 1.5, Temperature: 31, Capacity: 5.1},
		{TimeSeconds: 0, CellID: "cell2", Chemistry: model.ChemistryNMC, Voltage: 3.6, Current: -1.0, Temperature: 29, Capacity: 3.6},
		{TimeSeconds: 1, CellID: "cell2", Chemistry: model.ChemistryNMC, Voltage: 3.5, Current: -1.2, Temperature: 30, Capacity: 4.2},
	}
}

func TestGroupByCell(t *testing.T) {
	groups := GroupByCell(readings())
	require.Len(t, groups, 2)
	assert.Len(t, groups["cell1"], 3)
	assert.Len(t, groups["cell2"], 2)

	// Order within a group is preserved.
	assert.Equal(t, 0, groups["cell1"][0].TimeSeconds)
	assert.Equal(t, 2, groups["cell1"][2].TimeSeconds)
}

func TestSummarize(t *testing.T) {
	summaries := Summarize(readings())
	require.Len(t, summaries, 2)

	// Sorted by cell ID.
	assert.Equal(t, "cell1", summaries[0].CellID)
	assert.Equal(t, "cell2", summaries[1].CellID)
	assert.Equal(t, model.ChemistryLFP, summaries[0].Chemistry)

	v := summaries[0].Voltage
	assert.Equal(t, 3, v.Count)
	assert.Equal(t, 3.0, v.Min)
	assert.Equal(t, 3.4, v.Max)
	assert.InDelta(t, 3.2, v.Mean, 1e-9)
	assert.InDelta(t, 0.16329931618, v.StdDev, 1e-9)

	c := summaries[1].Current
	assert.Equal(t, -1.2, c.Min)
	assert.Equal(t, -1.0, c.Max)
	assert.InDelta(t, -1.1, c.Mean, 1e-9)
}

func TestSummarizeEmptyLog(t *testing.T) {
	assert.Empty(t, Summarize(nil))
}

func TestPercentileSorted(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 1.0, percentileSorted(vals, 0))
	assert.Equal(t, 5.0, percentileSorted(vals, 1))
	assert.InDelta(t, 3.0, percentileSorted(vals, 0.5), 1e-9)
	assert.Zero(t, percentileSorted(nil, 0.5))
}
