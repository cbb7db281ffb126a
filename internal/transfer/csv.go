// Package transfer exports and imports calculation history as CSV.
package transfer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/atinyakov/GophDate/internal/models"
)

// Header is the first row of every export.
var Header = []string{"type", "input", "result", "date"}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999",
}

// Export writes calcs as CSV with Header as the first row.
func Export(w io.Writer, calcs []models.Calculation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, c := range calcs {
		date := ""
		if !c.CreatedAt.IsZero() {
			date = c.CreatedAt.Format(time.RFC3339)
		}
		if err := cw.Write([]string{c.Type, c.Input, c.Result, date}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Import reads calculations written by Export. The first row is skipped as
// the header, rows with fewer than four fields are ignored, extra fields are
// dropped and dates that do not parse become the zero time.
func Import(r io.Reader) ([]models.Calculation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var calcs []models.Calculation
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if first || len(rec) < 4 {
			continue
		}
		calcs = append(calcs, models.Calculation{
			Type:      rec[0],
			Input:     rec[1],
			Result:    rec[2],
			CreatedAt: parseDate(rec[3]),
		})
	}
	return calcs, nil
}

func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ExportFile writes calcs to the CSV file at path.
func ExportFile(path string, calcs []models.Calculation) error {
	f, err := os.Create(path)
	if err != nil {
		return &models.StorageIOError{Op: "write", Path: path, Err: err}
	}
	if err := Export(f, calcs); err != nil {
		f.Close()
		return &models.StorageIOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &models.StorageIOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// ImportFile reads calculations from the CSV file at path.
func ImportFile(path string) ([]models.Calculation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &models.StorageIOError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()
	calcs, err := Import(f)
	if err != nil {
		return nil, &models.StorageIOError{Op: "read", Path: path, Err: err}
	}
	return calcs, nil
}
