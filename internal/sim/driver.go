// Package sim runs the simulated test bench: it advances a tick-counter
// clock, applies the scheduler and synthesizer to every configured cell, and
// appends the results to an in-memory reading log.
package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/xid"

	"cell-testbench/internal/model"
	"cell-testbench/internal/synth"
)

// State is the driver's run state.
type State string

const (
	StateIdle      State = "IDLE"
	StateRunning   State = "RUNNING"
	StatePaused    State = "PAUSED"
	StateCompleted State = "COMPLETED"
)

// Driver owns the cells and the reading log for one bench. All access goes
// through its methods; there is exactly one writer per tick and readers only
// ever see copies.
//
// The clock is a monotonically incremented tick counter, so pausing simply
// stops incrementing it and no wall-clock correction is ever needed.
type Driver struct {
	mu sync.Mutex

	cells []*model.Cell
	synth *synth.Synthesizer

	state    State
	runID    string
	tick     int
	readings []model.Reading
}

// NewDriver builds a driver over the configured cells. The cell slice must
// be non-empty and every cell valid; the driver never starts a run with
// invalid input.
func NewDriver(cells []*model.Cell, s *synth.Synthesizer) (*Driver, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("at least one cell is required")
	}
	seen := make(map[string]bool, len(cells))
	for _, c := range cells {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate cell id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return &Driver{
		cells: cells,
		synth: s,
		state: StateIdle,
	}, nil
}

// Start resets the log and the tick counter and begins a new run. Allowed
// from Idle and Completed.
func (d *Driver) Start() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateIdle && d.state != StateCompleted {
		return "", fmt.Errorf("cannot start: bench is %s", d.state)
	}

	d.runID = xid.New().String()
	d.tick = 0
	d.readings = d.readings[:0]
	for _, c := range d.cells {
		c.ResetRun()
	}
	d.state = StateRunning
	return d.runID, nil
}

// Pause freezes tick advancement. Simulated time does not move while paused.
func (d *Driver) Pause() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateRunning {
		return fmt.Errorf("cannot pause: bench is %s", d.state)
	}
	d.state = StatePaused
	return nil
}

// Resume continues a paused run.
func (d *Driver) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StatePaused {
		return fmt.Errorf("cannot resume: bench is %s", d.state)
	}
	d.state = StateRunning
	return nil
}

// Stop aborts the run and returns to Idle. The log is retained for
// inspection and export; the next Start resets it.
func (d *Driver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateRunning && d.state != StatePaused {
		return fmt.Errorf("cannot stop: bench is %s", d.state)
	}
	d.state = StateIdle
	return nil
}

// Step advances the simulation by one tick: every cell not already terminal
// is advanced and its reading appended. When every cell has finished its
// program the driver transitions to Completed.
func (d *Driver) Step() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateRunning {
		return fmt.Errorf("cannot step: bench is %s", d.state)
	}
	d.stepLocked()
	return nil
}

// tryStep advances one tick only if the bench is Running, holding the lock
// across the state check and the tick so a concurrent Pause or Stop can
// never land between them. It returns the state observed under the lock
// (after the tick, so a completing step reports Completed).
func (d *Driver) tryStep() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateRunning {
		d.stepLocked()
	}
	return d.state
}

// stepLocked is the tick body. Callers must hold d.mu with state Running.
func (d *Driver) stepLocked() {
	elapsed := d.tick
	allDone := true
	for _, c := range d.cells {
		if c.Completed {
			continue // terminal cells hold their last values, no more rows
		}
		d.readings = append(d.readings, advanceCell(c, elapsed, d.synth))
		if !c.Completed {
			allDone = false
		}
	}
	d.tick++

	if allDone {
		d.state = StateCompleted
	}
}

// Run steps the simulation until it completes, is stopped, or ctx is
// cancelled. pace is the real-time delay between ticks, purely for
// human-watchable output; pass 0 for headless runs.
func (d *Driver) Run(ctx context.Context, pace time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		switch d.tryStep() {
		case StateRunning:
		case StatePaused:
			// Simulated time is frozen; poll for resume.
			time.Sleep(10 * time.Millisecond)
		case StateIdle, StateCompleted:
			return nil
		}

		if pace > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pace):
			}
		}
	}
}

// State returns the current run state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Tick returns the number of simulated seconds advanced so far this run.
func (d *Driver) Tick() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tick
}

// RunID returns the identifier assigned by the last Start.
func (d *Driver) RunID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runID
}

// TotalSeconds is the run length: the longest cell program on the bench.
func (d *Driver) TotalSeconds() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := 0
	for _, c := range d.cells {
		if t := c.TotalTaskSeconds(); t > total {
			total = t
		}
	}
	return total
}

// Readings returns a copy of the log, optionally filtered to one cell and to
// rows at or after sinceSeconds.
func (d *Driver) Readings(cellID string, sinceSeconds int) []model.Reading {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]model.Reading, 0, len(d.readings))
	for _, r := range d.readings {
		if cellID != "" && r.CellID != cellID {
			continue
		}
		if r.TimeSeconds < sinceSeconds {
			continue
		}
		out = append(out, r)
	}
	return out
}

// CellStatus is a point-in-time snapshot of one cell for display.
type CellStatus struct {
	ID           string          `json:"id"`
	Chemistry    model.Chemistry `json:"chemistry"`
	Voltage      float64         `json:"voltage"`
	Current      float64         `json:"current"`
	Temperature  float64         `json:"temperature"`
	Capacity     float64         `json:"capacity"`
	ActiveTask   string          `json:"active_task"`
	TaskProgress float64         `json:"task_progress"`
	Completed    bool            `json:"completed"`
}

// Status is a point-in-time snapshot of the whole bench.
type Status struct {
	State        State        `json:"state"`
	RunID        string       `json:"run_id,omitempty"`
	Tick         int          `json:"tick"`
	TotalSeconds int          `json:"total_seconds"`
	Cells        []CellStatus `json:"cells"`
}

// Snapshot copies the bench state for read-only consumers.
func (d *Driver) Snapshot() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := Status{
		State: d.state,
		RunID: d.runID,
		Tick:  d.tick,
	}
	for _, c := range d.cells {
		task := model.TaskCompleted
		if !c.Completed && c.ActiveTaskIndex < len(c.Tasks) {
			task = string(c.Tasks[c.ActiveTaskIndex].Type)
		}
		st.Cells = append(st.Cells, CellStatus{
			ID:           c.ID,
			Chemistry:    c.Chemistry,
			Voltage:      c.Voltage,
			Current:      c.Current,
			Temperature:  c.Temperature,
			Capacity:     c.Capacity,
			ActiveTask:   task,
			TaskProgress: c.TaskProgress(),
			Completed:    c.Completed,
		})
		if t := c.TotalTaskSeconds(); t > st.TotalSeconds {
			st.TotalSeconds = t
		}
	}
	return st
}
