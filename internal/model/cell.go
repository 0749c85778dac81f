package model

import (
	"errors"
	"fmt"
	"math/rand"
)

// Temperature limits, °C. Initial temperatures are randomized within
// [TempInitMin, TempInitMax]; every synthesized temperature is clamped to
// [TempMin, TempMax] regardless of task.
const (
	TempMin     = 20.0
	TempMax     = 60.0
	TempInitMin = 25.0
	TempInitMax = 40.0
)

// Voltage overrides from configuration are clamped to this absolute band
// before the chemistry band applies.
const (
	AbsVoltageMin = 0.0
	AbsVoltageMax = 5.0
)

// Cell is the per-cell mutable record. Only the simulation driver mutates a
// cell once a run starts, one cell at a time.
type Cell struct {
	ID        string
	Chemistry Chemistry

	// Last synthesized reading values.
	Voltage     float64
	Current     float64
	Temperature float64
	Capacity    float64

	// Chemistry-derived bounds, fixed at construction.
	MinVoltage float64
	MaxVoltage float64

	// Ordered test program.
	Tasks []Task

	// Task cursor, advanced by the driver.
	ActiveTaskIndex    int
	TaskElapsedSeconds int
	Completed          bool
}

// CellOverrides carries optional explicit initial values from configuration.
// Zero values mean "randomize".
type CellOverrides struct {
	Voltage     float64
	Temperature float64
}

// NewCell builds a cell with a randomized initial state drawn from rng.
// Overridden values are clamped rather than rejected.
func NewCell(id string, chem Chemistry, tasks []Task, ov CellOverrides, rng *rand.Rand) (*Cell, error) {
	band := chem.Band()

	c := &Cell{
		ID:         id,
		Chemistry:  chem,
		MinVoltage: band.Min,
		MaxVoltage: band.Max,
		Tasks:      tasks,
	}

	if ov.Voltage != 0 {
		v := Clamp(ov.Voltage, AbsVoltageMin, AbsVoltageMax)
		c.Voltage = Clamp(v, band.Min, band.Max)
	} else {
		c.Voltage = band.InitialMin + rng.Float64()*(band.InitialMax-band.InitialMin)
	}

	if ov.Temperature != 0 {
		c.Temperature = Clamp(ov.Temperature, TempMin, TempMax)
	} else {
		c.Temperature = TempInitMin + rng.Float64()*(TempInitMax-TempInitMin)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks everything the driver assumes before a run starts.
func (c *Cell) Validate() error {
	if c.ID == "" {
		return errors.New("cell id must not be empty")
	}
	if !c.Chemistry.Valid() {
		return fmt.Errorf("cell %s: unknown chemistry %q", c.ID, c.Chemistry)
	}
	if len(c.Tasks) == 0 {
		return fmt.Errorf("cell %s: at least one task is required", c.ID)
	}
	for i, t := range c.Tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("cell %s task %d: %w", c.ID, i, err)
		}
	}
	if c.MinVoltage >= c.MaxVoltage {
		return fmt.Errorf("cell %s: voltage bounds inverted", c.ID)
	}
	return nil
}

// TotalTaskSeconds is the cell's full program length.
func (c *Cell) TotalTaskSeconds() int {
	return TotalDuration(c.Tasks)
}

// TaskProgress is the percent progress through the active task, for display
// only; it carries no simulation semantics.
func (c *Cell) TaskProgress() float64 {
	if c.Completed || c.ActiveTaskIndex >= len(c.Tasks) {
		return 100
	}
	d := c.Tasks[c.ActiveTaskIndex].DurationSeconds
	if d <= 0 {
		return 0
	}
	return float64(c.TaskElapsedSeconds) / float64(d) * 100
}

// ResetRun rewinds the task cursor without touching the signal values, so a
// re-started run begins from the cell's last physical state.
func (c *Cell) ResetRun() {
	c.ActiveTaskIndex = 0
	c.TaskElapsedSeconds = 0
	c.Completed = false
}

// Clamp bounds x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
