package core

import (
	"fmt"
)

// Frame is a row-major table of numeric features with named columns.
type Frame struct {
	Columns []string
	Rows    [][]float64
}

func NewFrame(columns []string, rows ...[]float64) (Frame, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return Frame{}, fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(columns))
		}
	}
	return Frame{Columns: columns, Rows: rows}, nil
}

func (f Frame) NumRows() int {
	return len(f.Rows)
}

func (f Frame) NumCols() int {
	return len(f.Columns)
}

func (f Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Select returns a frame with only the given columns, in the given order.
func (f Frame) Select(columns []string) (Frame, error) {
	idx := make([]int, len(columns))
	for i, c := range columns {
		j := f.ColumnIndex(c)
		if j < 0 {
			return Frame{}, fmt.Errorf("model input column '%s' is missing from frame with columns %v", c, f.Columns)
		}
		idx[i] = j
	}

	rows := make([][]float64, len(f.Rows))
	for r, row := range f.Rows {
		selected := make([]float64, len(idx))
		for i, j := range idx {
			selected[i] = row[j]
		}
		rows[r] = selected
	}

	return Frame{Columns: columns, Rows: rows}, nil
}

func (f Frame) Float32() []float32 {
	data := make([]float32, 0, f.NumRows()*f.NumCols())
	for _, row := range f.Rows {
		for _, v := range row {
			data = append(data, float32(v))
		}
	}
	return data
}
