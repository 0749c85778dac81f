package sim

import (
	"math"

	"cell-testbench/internal/model"
	"cell-testbench/internal/schedule"
	"cell-testbench/internal/synth"
)

// advanceCell moves one cell forward to the given global elapsed time and
// returns the reading for this tick. The driver owns the call: one goroutine,
// one cell at a time.
//
// A cell whose task list is exhausted transitions to its terminal state:
// current forced to 0, capacity 0, voltage and temperature held at their
// last values.
func advanceCell(c *model.Cell, elapsedSeconds int, s *synth.Synthesizer) model.Reading {
	slot := schedule.Resolve(c.Tasks, elapsedSeconds)

	if slot.Completed {
		c.Completed = true
		c.ActiveTaskIndex = len(c.Tasks)
		c.TaskElapsedSeconds = 0
		c.Current = 0
		c.Capacity = 0
		return reading(c, elapsedSeconds, model.TaskCompleted)
	}

	sample := s.Sample(c.Chemistry, c.Voltage, c.Temperature, slot.Task, slot.ElapsedWithin)

	c.ActiveTaskIndex = slot.Index
	c.TaskElapsedSeconds = slot.ElapsedWithin
	c.Voltage = model.Clamp(sample.Voltage, c.MinVoltage, c.MaxVoltage)
	c.Current = sample.Current
	c.Temperature = sample.Temperature
	c.Capacity = c.Voltage * math.Abs(c.Current)

	return reading(c, elapsedSeconds, string(slot.Task.Type))
}

func reading(c *model.Cell, elapsedSeconds int, task string) model.Reading {
	return model.Reading{
		TimeSeconds: elapsedSeconds,
		CellID:      c.ID,
		Chemistry:   c.Chemistry,
		Voltage:     c.Voltage,
		Current:     c.Current,
		Temperature: c.Temperature,
		Capacity:    c.Capacity,
		Task:        task,
	}
}
