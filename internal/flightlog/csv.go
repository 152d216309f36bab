package flightlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ReadCSV parses an sdlog2 CSV export into a frame. Every column that parses
// as float on all of its non-empty cells is kept; other columns (message
// names, free text) are dropped. Empty cells become NaN. The time index is
// left as raw TIME_StartTime microseconds until SetTimeSeries is applied.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	numeric := make([]bool, len(header))
	for i := range numeric {
		numeric[i] = true
	}

	var rows [][]float64
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(rows)+1, err)
		}

		row := make([]float64, len(header))
		for i, cell := range record {
			if i >= len(header) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				row[i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				numeric[i] = false
				row[i] = math.NaN()
				continue
			}
			row[i] = v
		}
		for i := len(record); i < len(header); i++ {
			row[i] = math.NaN()
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("log contains no data rows")
	}

	times := make([]float64, len(rows))
	frame := NewFrame(times)
	for i, name := range header {
		if !numeric[i] || name == "" {
			continue
		}
		values := make([]float64, len(rows))
		for j, row := range rows {
			values[j] = row[i]
		}
		if err := frame.AddColumn(name, values); err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
	}
	if raw, err := frame.Column(TimeColumn); err == nil {
		copy(frame.Times, raw)
	}
	return frame, nil
}

// ReadCSVFile reads a log from disk. See ReadCSV.
func ReadCSVFile(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	defer file.Close()

	frame, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return frame, nil
}
