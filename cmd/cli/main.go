package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"cell-testbench/internal/analysis"
	"cell-testbench/internal/config"
	"cell-testbench/internal/model"
	"cell-testbench/internal/sim"
	"cell-testbench/internal/synth"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "stats":
		cmdStats(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config bench.yaml --out results/readings.csv [--json results/readings.json] [--seed 42] [--pace 0]")
	fmt.Println("  cli stats --config bench.yaml [--seed 42]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate runs the full test program headless and exports the reading log")
	fmt.Println("  - stats runs headless and prints per-cell signal statistics")
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML bench config")
	outPath := fs.String("out", "results/readings.csv", "Output CSV path")
	jsonPath := fs.String("json", "", "Optional: also write a JSON export")
	seed := fs.Int64("seed", 0, "Optional: override config seed (0 = config/clock)")
	pace := fs.Duration("pace", 0, "Real-time delay between ticks (0 = headless)")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	readings := runBench(*cfgPath, *seed, *pace)

	// ensure output dir exists
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		panic(err)
	}
	if err := sim.WriteReadingsCSVFile(*outPath, readings); err != nil {
		panic(err)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(readings), *outPath)

	if *jsonPath != "" {
		if err := sim.WriteReadingsJSONFile(*jsonPath, readings); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote JSON export to %s\n", *jsonPath)
	}
}

func cmdStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML bench config")
	seed := fs.Int64("seed", 0, "Optional: override config seed (0 = config/clock)")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	readings := runBench(*cfgPath, *seed, 0)
	summaries := analysis.Summarize(readings)

	fmt.Printf("%-10s %-6s %-7s %-18s %-18s %-18s %-18s\n",
		"cell", "chem", "rows", "voltage", "current", "temp", "capacity")
	for _, s := range summaries {
		fmt.Printf("%-10s %-6s %-7d %-18s %-18s %-18s %-18s\n",
			s.CellID,
			s.Chemistry,
			s.Voltage.Count,
			rangeCol(s.Voltage),
			rangeCol(s.Current),
			rangeCol(s.Temperature),
			rangeCol(s.Capacity),
		)
	}
}

// runBench loads the config, builds the bench, and steps it to completion.
func runBench(cfgPath string, seedOverride int64, pace time.Duration) []model.Reading {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	seed := cfg.Seed
	if seedOverride != 0 {
		seed = seedOverride
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	cells, err := cfg.BuildCells(rng)
	if err != nil {
		panic(err)
	}
	driver, err := sim.NewDriver(cells, synth.NewFrom(rng))
	if err != nil {
		panic(err)
	}

	if _, err := driver.Start(); err != nil {
		panic(err)
	}
	if err := driver.Run(context.Background(), pace); err != nil {
		panic(err)
	}
	return driver.Readings("", 0)
}

func rangeCol(st analysis.SignalStats) string {
	return fmt.Sprintf("%.2f..%.2f~%.2f", st.Min, st.Max, st.Mean)
}
