package models

import (
	"cell-testbench/internal/analysis"
	"cell-testbench/internal/model"
	"cell-testbench/internal/sim"
)

// ConfigureResponse acknowledges a new bench configuration.
type ConfigureResponse struct {
	Status string     `json:"status"`
	Bench  sim.Status `json:"bench"`
}

// StartResponse is returned when a run starts.
type StartResponse struct {
	RunID string     `json:"run_id"`
	Bench sim.Status `json:"bench"`
}

// ControlResponse is returned from pause/resume/stop.
type ControlResponse struct {
	Bench sim.Status `json:"bench"`
}

// ReadingsResponse carries a snapshot of the reading log.
type ReadingsResponse struct {
	Count    int             `json:"count"`
	Readings []model.Reading `json:"readings"`
}

// StatsResponse carries per-cell summary statistics.
type StatsResponse struct {
	Cells []analysis.CellSummary `json:"cells"`
}

// ChemistryInfo describes one supported chemistry for configuration UIs.
type ChemistryInfo struct {
	Name           string  `json:"name"`
	MinVoltage     float64 `json:"min_voltage"`
	MaxVoltage     float64 `json:"max_voltage"`
	NominalVoltage float64 `json:"nominal_voltage"`
}

// ChemistriesResponse lists the supported chemistries.
type ChemistriesResponse struct {
	Chemistries []ChemistryInfo `json:"chemistries"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
