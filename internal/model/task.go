package model

import (
	"errors"
	"fmt"
)

// TaskType is the kind of test step applied to a cell for a fixed duration.
// Keep these values stable; they are written to CSV/JSON output.
type TaskType string

const (
	// TaskCCCV is a constant-current/constant-voltage charge step.
	TaskCCCV TaskType = "CC_CV"
	// TaskCCCD is a constant-current discharge step.
	TaskCCCD TaskType = "CC_CD"
	// TaskIdle is a no-load rest step.
	TaskIdle TaskType = "IDLE"
)

// ParseTaskType validates a task type name from configuration input.
func ParseTaskType(s string) (TaskType, error) {
	switch t := TaskType(s); t {
	case TaskCCCV, TaskCCCD, TaskIdle:
		return t, nil
	}
	return "", fmt.Errorf("unknown task type %q (supported: %s, %s, %s)", s, TaskCCCV, TaskCCCD, TaskIdle)
}

// Task is one timed test step. Tasks are ordered per cell and immutable once
// a run starts.
//
// The numeric parameters are optional; zero means "use the chemistry
// default". Units: amps for currents, volts for voltages, amp-hours for
// capacity.
type Task struct {
	Type            TaskType
	DurationSeconds int

	// TargetCurrentA overrides the sampled current magnitude band center.
	TargetCurrentA float64
	// CVVoltage is the charge target for CC_CV; defaults to chemistry max.
	CVVoltage float64
	// CutoffVoltage is the discharge floor for CC_CD; defaults to chemistry min.
	CutoffVoltage float64
	// NominalCapacityAh is carried as metadata only.
	NominalCapacityAh float64
}

// Validate rejects tasks the simulation cannot schedule. Parameter values
// out of physical range are not errors; the synthesizer clamps them.
func (t Task) Validate() error {
	if _, err := ParseTaskType(string(t.Type)); err != nil {
		return err
	}
	if t.DurationSeconds <= 0 {
		return errors.New("task duration_seconds must be > 0")
	}
	return nil
}

// TotalDuration sums the durations of an ordered task list, in seconds.
func TotalDuration(tasks []Task) int {
	total := 0
	for _, t := range tasks {
		total += t.DurationSeconds
	}
	return total
}
