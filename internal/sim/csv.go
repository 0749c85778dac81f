package sim

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"cell-testbench/internal/model"
)

// ReadingsCSVHeader is the column order for CSV export. Keep it stable; the
// dashboard and downstream spreadsheets key on these names.
var ReadingsCSVHeader = []string{
	"time",
	"cell_id",
	"chemistry",
	"voltage",
	"current",
	"temperature",
	"capacity",
	"task",
}

// WriteReadingsCSV writes the reading log to w.
func WriteReadingsCSV(w io.Writer, readings []model.Reading) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(ReadingsCSVHeader); err != nil {
		return err
	}
	for _, r := range readings {
		row := []string{
			strconv.Itoa(r.TimeSeconds),
			r.CellID,
			string(r.Chemistry),
			fmtFloat(r.Voltage),
			fmtFloat(r.Current),
			fmtFloat(r.Temperature),
			fmtFloat(r.Capacity),
			r.Task,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReadingsCSVFile writes the reading log to a file at path.
func WriteReadingsCSVFile(path string, readings []model.Reading) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteReadingsCSV(f, readings)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 4, 64)
}
