package model

// TaskCompleted is the task label written for cells whose program has
// finished while the rest of the bench is still running.
const TaskCompleted = "COMPLETED"

// Reading is one row of per-tick output, one per cell per tick.
// This is the primary artifact for "what happened" in a run; charts and
// exports consume the reading log read-only.
type Reading struct {
	TimeSeconds int       `json:"time_seconds"`
	CellID      string    `json:"cell_id"`
	Chemistry   Chemistry `json:"chemistry"`

	Voltage     float64 `json:"voltage"`
	Current     float64 `json:"current"`
	Temperature float64 `json:"temperature"`
	// Capacity is always Voltage * |Current|, recomputed every tick.
	Capacity float64 `json:"capacity"`

	// Task is the active task type, or TaskCompleted.
	Task string `json:"task"`
}
