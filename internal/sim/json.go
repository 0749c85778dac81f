package sim

import (
	"encoding/json"
	"io"
	"os"

	"cell-testbench/internal/model"
)

// readingsDocument is the JSON export shape: a single object so the format
// can grow columns without breaking consumers.
type readingsDocument struct {
	Readings []model.Reading `json:"readings"`
}

// WriteReadingsJSON writes the reading log to w as a JSON document.
func WriteReadingsJSON(w io.Writer, readings []model.Reading) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(readingsDocument{Readings: readings})
}

// WriteReadingsJSONFile writes the reading log to a file at path.
func WriteReadingsJSONFile(path string, readings []model.Reading) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteReadingsJSON(f, readings)
}
