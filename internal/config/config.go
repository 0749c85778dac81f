package config

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"cell-testbench/internal/model"
)

// Config is the on-disk bench configuration (YAML). The same shape is
// accepted as JSON by the API's configure endpoint, so both tag sets are
// carried. Two top-level collections: "cells" maps cell ID to its setup,
// "tasks" maps cell ID to its ordered task list.
type Config struct {
	// Seed makes the randomized signals reproducible. 0 means seed from
	// the clock at build time.
	Seed int64 `yaml:"seed,omitempty" json:"seed,omitempty"`

	Cells map[string]CellConfig   `yaml:"cells" json:"cells"`
	Tasks map[string][]TaskConfig `yaml:"tasks" json:"tasks"`
}

type CellConfig struct {
	Chemistry string `yaml:"chemistry" json:"chemistry"`

	// Optional explicit initial values; zero means randomize within the
	// chemistry band. Out-of-range values are clamped, not rejected.
	InitialVoltage     float64 `yaml:"initial_voltage,omitempty" json:"initial_voltage,omitempty"`
	InitialTemperature float64 `yaml:"initial_temperature,omitempty" json:"initial_temperature,omitempty"`
}

type TaskConfig struct {
	Type            string `yaml:"type" json:"type"`
	DurationSeconds int    `yaml:"duration_seconds" json:"duration_seconds"`

	TargetCurrent   float64 `yaml:"target_current,omitempty" json:"target_current,omitempty"`
	CVVoltage       float64 `yaml:"cv_voltage,omitempty" json:"cv_voltage,omitempty"`
	CutoffVoltage   float64 `yaml:"cutoff_voltage,omitempty" json:"cutoff_voltage,omitempty"`
	NominalCapacity float64 `yaml:"nominal_capacity,omitempty" json:"nominal_capacity,omitempty"`
}

// Load reads and validates a bench configuration.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads config without validating it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save writes the configuration back out as YAML, for round-trip export.
func (c *Config) Save(path string) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// Validate rejects configurations the driver cannot run. Numeric values out
// of physical range are not rejected here; the model clamps them.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if len(c.Cells) == 0 {
		return errors.New("at least one cell is required")
	}
	for id, cc := range c.Cells {
		if _, err := model.ParseChemistry(cc.Chemistry); err != nil {
			return fmt.Errorf("cell %s: %w", id, err)
		}
		tasks, ok := c.Tasks[id]
		if !ok || len(tasks) == 0 {
			return fmt.Errorf("cell %s: at least one task is required", id)
		}
		for i, tc := range tasks {
			if _, err := model.ParseTaskType(tc.Type); err != nil {
				return fmt.Errorf("cell %s task %d: %w", id, i, err)
			}
			if tc.DurationSeconds <= 0 {
				return fmt.Errorf("cell %s task %d: duration_seconds must be > 0", id, i)
			}
		}
	}
	for id := range c.Tasks {
		if _, ok := c.Cells[id]; !ok {
			return fmt.Errorf("tasks reference unknown cell %s", id)
		}
	}
	return nil
}

// BuildCells constructs the model cells in stable ID order, drawing initial
// values from rng. The config must already be validated.
func (c *Config) BuildCells(rng *rand.Rand) ([]*model.Cell, error) {
	ids := make([]string, 0, len(c.Cells))
	for id := range c.Cells {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	cells := make([]*model.Cell, 0, len(ids))
	for _, id := range ids {
		cc := c.Cells[id]
		chem, err := model.ParseChemistry(cc.Chemistry)
		if err != nil {
			return nil, fmt.Errorf("cell %s: %w", id, err)
		}

		tcs := c.Tasks[id]
		tasks := make([]model.Task, 0, len(tcs))
		for _, tc := range tcs {
			tt, err := model.ParseTaskType(tc.Type)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", id, err)
			}
			tasks = append(tasks, model.Task{
				Type:              tt,
				DurationSeconds:   tc.DurationSeconds,
				TargetCurrentA:    tc.TargetCurrent,
				CVVoltage:         tc.CVVoltage,
				CutoffVoltage:     tc.CutoffVoltage,
				NominalCapacityAh: tc.NominalCapacity,
			})
		}

		cell, err := model.NewCell(id, chem, tasks, model.CellOverrides{
			Voltage:     cc.InitialVoltage,
			Temperature: cc.InitialTemperature,
		}, rng)
		if err != nil {
			return nil, err
		}
		cells = append(cells, cell)
	}
	return cells, nil
}
