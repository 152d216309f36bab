package flightlog

import (
	"errors"
	"math"
	"testing"
)

func TestFrame_Columns(t *testing.T) {
	f := NewFrame([]float64{0, 1, 2})

	if err := f.AddColumn("a", []float64{1, 2, 3}); err != nil {
		t.Fatalf("AddColumn failed: %v", err)
	}
	if err := f.AddColumn("b", []float64{4, 5, 6}); err != nil {
		t.Fatalf("AddColumn failed: %v", err)
	}

	if err := f.AddColumn("a", []float64{7, 8, 9}); err == nil {
		t.Error("Expected error adding duplicate column")
	}
	if err := f.AddColumn("c", []float64{1}); err == nil {
		t.Error("Expected error adding short column")
	}

	if !f.Has("a") || f.Has("missing") {
		t.Errorf("Has reported wrong membership")
	}

	values, err := f.Column("b")
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}
	if values[2] != 6 {
		t.Errorf("Expected b[2] = 6, got %v", values[2])
	}

	if _, err = f.Column("missing"); !errors.Is(err, ErrNoColumn) {
		t.Errorf("Expected ErrNoColumn, got %v", err)
	}
}

func TestFrame_SetColumn(t *testing.T) {
	f := NewFrame([]float64{0, 1})

	if err := f.SetColumn("a", []float64{1, 2}); err != nil {
		t.Fatalf("SetColumn add failed: %v", err)
	}
	if err := f.SetColumn("a", []float64{3, 4}); err != nil {
		t.Fatalf("SetColumn replace failed: %v", err)
	}

	values, _ := f.Column("a")
	if values[0] != 3 {
		t.Errorf("Expected replaced value 3, got %v", values[0])
	}
}

func TestFrame_Select(t *testing.T) {
	f := NewFrame([]float64{0, 1})
	_ = f.AddColumn("a", []float64{1, 2})
	_ = f.AddColumn("b", []float64{3, 4})

	sub, err := f.Select("b")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(sub.Columns()) != 1 || sub.Columns()[0] != "b" {
		t.Errorf("Expected single column b, got %v", sub.Columns())
	}

	if _, err = f.Select("a", "missing"); err == nil {
		t.Error("Expected error selecting missing column")
	}
}

func TestFrame_Filter(t *testing.T) {
	f := NewFrame([]float64{0, 1, 2, 3})
	_ = f.AddColumn("a", []float64{10, math.NaN(), 30, 40})

	out := f.Filter(func(row int) bool { return row%2 == 0 })
	if out.NumRows() != 2 {
		t.Fatalf("Expected 2 rows, got %d", out.NumRows())
	}

	values, _ := out.Column("a")
	if values[0] != 10 || values[1] != 30 {
		t.Errorf("Expected [10 30], got %v", values)
	}
	if out.Times[1] != 2 {
		t.Errorf("Expected time 2, got %v", out.Times[1])
	}
}
