// Package schedule resolves which task of an ordered, timed task list is
// active at a given elapsed time. It is a pure function of its inputs and is
// called once per cell per tick.
package schedule

import "cell-testbench/internal/model"

// Slot is the result of resolving a task list against an elapsed time.
type Slot struct {
	// Task is the active task. Only valid when Completed is false.
	Task model.Task
	// Index is the position of Task in the list.
	Index int
	// ElapsedWithin is seconds since the active task started.
	ElapsedWithin int
	// Completed is set when elapsed is at or past the total duration.
	Completed bool
}

// Resolve walks the task list accumulating durations and returns the task
// whose window contains elapsedSeconds. Windows are half-open: the boundary
// instant belongs to the next task, never to the one ending. An elapsed time
// at or past the total duration resolves to Completed.
func Resolve(tasks []model.Task, elapsedSeconds int) Slot {
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	start := 0
	for i, t := range tasks {
		end := start + t.DurationSeconds
		if elapsedSeconds < end {
			return Slot{
				Task:          t,
				Index:         i,
				ElapsedWithin: elapsedSeconds - start,
			}
		}
		start = end
	}
	return Slot{Index: len(tasks), Completed: true}
}
