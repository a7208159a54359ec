package problems

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// TracePoint is one row of a reference trace CSV file.
type TracePoint struct {
	Value float64 `csv:"value"`
}

// LoadTrace reads a reference trace from a CSV file with a single "value"
// column.
func LoadTrace(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	defer f.Close()

	var points []TracePoint
	if err := gocsv.UnmarshalFile(f, &points); err != nil {
		return nil, fmt.Errorf("parsing trace file: %w", err)
	}
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values, nil
}

// SaveTrace writes a reference trace to a CSV file, atomically via a
// temporary file and rename.
func SaveTrace(path string, values []float64) error {
	points := make([]TracePoint, len(values))
	for i, v := range values {
		points[i] = TracePoint{Value: v}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	if err := gocsv.MarshalFile(&points, f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing trace file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing trace file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming trace file: %w", err)
	}
	return nil
}
