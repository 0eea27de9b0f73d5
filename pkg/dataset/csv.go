package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/absmach/gridfl/pkg/fl"
)

var (
	ErrMissingColumn = errors.New("column not found in header")
	ErrInvalidValue  = errors.New("invalid numeric value")
	ErrNoColumns     = errors.New("no feature columns selected")
)

// Load reads a CSV file with a header row and selects the named feature
// columns and the label column.
func Load(path string, features []string, label string) (fl.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return fl.Dataset{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Read(f, features, label)
	if err != nil {
		return fl.Dataset{}, fmt.Errorf("%s: %w", path, err)
	}

	return ds, nil
}

func Read(r io.Reader, features []string, label string) (fl.Dataset, error) {
	if len(features) == 0 {
		return fl.Dataset{}, ErrNoColumns
	}

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return fl.Dataset{}, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	cols := make([]int, len(features))
	for i, name := range features {
		c, ok := index[name]
		if !ok {
			return fl.Dataset{}, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		cols[i] = c
	}
	labelCol, ok := index[label]
	if !ok {
		return fl.Dataset{}, fmt.Errorf("%w: %q", ErrMissingColumn, label)
	}

	ds := fl.Dataset{Features: [][]float64{}, Labels: []float64{}}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fl.Dataset{}, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		row := make([]float64, len(cols))
		for i, c := range cols {
			if row[i], err = parse(record[c]); err != nil {
				return fl.Dataset{}, fmt.Errorf("line %d column %q: %w", line, features[i], err)
			}
		}
		y, err := parse(record[labelCol])
		if err != nil {
			return fl.Dataset{}, fmt.Errorf("line %d column %q: %w", line, label, err)
		}

		ds.Features = append(ds.Features, row)
		ds.Labels = append(ds.Labels, y)
	}

	return ds, nil
}

func parse(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, raw)
	}

	return v, nil
}
