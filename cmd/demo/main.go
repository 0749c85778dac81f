package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"

	"cell-testbench/internal/model"
	"cell-testbench/internal/sim"
	"cell-testbench/internal/synth"
)

// Demo:
// - Build a two-cell bench inline (one LFP, one NMC)
// - Run the full test program headless
// - Print the tail of the reading log to show how the pieces fit together
func main() {
	seed := flag.Int64("seed", 42, "Random seed for reproducible signals")
	outCSV := flag.String("out", "", "Optional path to write the reading log CSV")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	lfp, err := model.NewCell("cell1", model.ChemistryLFP, []model.Task{
		{Type: model.TaskCCCV, DurationSeconds: 10, CVVoltage: 3.6},
		{Type: model.TaskIdle, DurationSeconds: 5},
	}, model.CellOverrides{}, rng)
	if err != nil {
		panic(err)
	}

	nmc, err := model.NewCell("cell2", model.ChemistryNMC, []model.Task{
		{Type: model.TaskCCCV, DurationSeconds: 8},
		{Type: model.TaskIdle, DurationSeconds: 4},
		{Type: model.TaskCCCD, DurationSeconds: 8, CutoffVoltage: 3.3},
	}, model.CellOverrides{}, rng)
	if err != nil {
		panic(err)
	}

	driver, err := sim.NewDriver([]*model.Cell{lfp, nmc}, synth.NewFrom(rng))
	if err != nil {
		panic(err)
	}

	runID, err := driver.Start()
	if err != nil {
		panic(err)
	}
	if err := driver.Run(context.Background(), 0); err != nil {
		panic(err)
	}

	readings := driver.Readings("", 0)
	fmt.Printf("Run %s finished after %d simulated seconds, %d readings\n\n", runID, driver.Tick(), len(readings))

	fmt.Printf("%-5s %-7s %-5s %8s %8s %7s %9s  %s\n", "time", "cell", "chem", "voltage", "current", "temp", "capacity", "task")
	tail := readings
	if len(tail) > 12 {
		tail = tail[len(tail)-12:]
	}
	for _, r := range tail {
		fmt.Printf("%-5d %-7s %-5s %8.3f %8.3f %7.2f %9.3f  %s\n",
			r.TimeSeconds,
			r.CellID,
			r.Chemistry,
			r.Voltage,
			r.Current,
			r.Temperature,
			r.Capacity,
			r.Task,
		)
	}

	if *outCSV != "" {
		if err := sim.WriteReadingsCSVFile(*outCSV, readings); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}
}
