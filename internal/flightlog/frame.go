package flightlog

import (
	"fmt"
	"math"
)

// ErrNoColumn is returned when a requested signal is not present in a frame.
var ErrNoColumn = fmt.Errorf("column not found")

// Frame is a column-oriented view of a flight log. Every column holds one
// float64 value per logged row, and all columns share the time index in
// Times. Cells that could not be parsed from the source log are NaN.
type Frame struct {
	// Times is the time index in seconds. It is zero-based after
	// SetTimeSeries and raw (whatever the log carried) before.
	Times []float64

	columns []string
	index   map[string]int
	data    [][]float64
}

// NewFrame creates an empty frame with the given time index.
func NewFrame(times []float64) *Frame {
	return &Frame{
		Times: times,
		index: make(map[string]int),
	}
}

// NumRows returns the number of logged rows.
func (f *Frame) NumRows() int {
	return len(f.Times)
}

// Columns returns the column names in log order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Has reports whether the frame contains the named column.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns the values of the named column. The returned slice is the
// frame's backing storage and must not be modified by the caller.
func (f *Frame) Column(name string) ([]float64, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoColumn, name)
	}
	return f.data[i], nil
}

// AddColumn appends a column to the frame. It returns an error if the column
// length does not match the time index or the name is already taken.
func (f *Frame) AddColumn(name string, values []float64) error {
	if len(values) != len(f.Times) {
		return fmt.Errorf("column %s has %d values, frame has %d rows", name, len(values), len(f.Times))
	}
	if _, ok := f.index[name]; ok {
		return fmt.Errorf("column %s already exists", name)
	}
	f.index[name] = len(f.columns)
	f.columns = append(f.columns, name)
	f.data = append(f.data, values)
	return nil
}

// SetColumn adds or replaces a column.
func (f *Frame) SetColumn(name string, values []float64) error {
	if i, ok := f.index[name]; ok {
		if len(values) != len(f.Times) {
			return fmt.Errorf("column %s has %d values, frame has %d rows", name, len(values), len(f.Times))
		}
		f.data[i] = values
		return nil
	}
	return f.AddColumn(name, values)
}

// Select returns a frame containing only the named columns, sharing backing
// storage with the receiver. All requested columns must exist.
func (f *Frame) Select(names ...string) (*Frame, error) {
	out := NewFrame(f.Times)
	for _, name := range names {
		values, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		if err := out.AddColumn(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Filter returns a frame containing only the rows for which keep returns
// true. Column data is copied.
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	var rows []int
	for i := range f.Times {
		if keep(i) {
			rows = append(rows, i)
		}
	}

	times := make([]float64, len(rows))
	for j, i := range rows {
		times[j] = f.Times[i]
	}

	out := NewFrame(times)
	for c, name := range f.columns {
		values := make([]float64, len(rows))
		for j, i := range rows {
			values[j] = f.data[c][i]
		}
		// AddColumn cannot fail here: lengths match and names are unique.
		_ = out.AddColumn(name, values)
	}
	return out
}

// isFinite reports whether v is a usable measurement.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
