// Package entity defines the domain models for the tickers feature.
package entity

import (
	"fmt"
	"time"
)

// Table is a per-symbol time series: a chronological index and a set of
// named float64 columns of the same length. Missing values are NaN.
type Table struct {
	Index []time.Time

	order []string
	cols  map[string][]float64
}

// NewTable creates an empty table over the given index.
func NewTable(index []time.Time) *Table {
	return &Table{
		Index: index,
		cols:  make(map[string][]float64),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Index)
}

// Empty reports whether the table is nil or has no rows.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Has reports whether the named column exists.
func (t *Table) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.cols[name]
	return ok
}

// HasAll reports whether every named column exists.
func (t *Table) HasAll(names ...string) bool {
	for _, n := range names {
		if !t.Has(n) {
			return false
		}
	}
	return true
}

// Column returns the values of the named column.
// The returned slice is shared with the table.
func (t *Table) Column(name string) ([]float64, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.cols[name]
	return v, ok
}

// SetColumn adds or replaces a column. The values must line up with the index.
func (t *Table) SetColumn(name string, values []float64) error {
	if len(values) != len(t.Index) {
		return fmt.Errorf("column %q has %d values for %d rows: %w", name, len(values), len(t.Index), ErrLengthMismatch)
	}
	if _, ok := t.cols[name]; !ok {
		t.order = append(t.order, name)
	}
	t.cols[name] = values
	return nil
}

// Select returns a new table restricted to the named columns, in that order.
func (t *Table) Select(names ...string) (*Table, error) {
	out := NewTable(t.Index)
	for _, n := range names {
		v, ok := t.cols[n]
		if !ok {
			return nil, fmt.Errorf("column %q: %w", n, ErrMissingColumn)
		}
		out.order = append(out.order, n)
		out.cols[n] = v
	}
	return out, nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	idx := make([]time.Time, len(t.Index))
	copy(idx, t.Index)
	out := NewTable(idx)
	for _, n := range t.order {
		v := make([]float64, len(t.cols[n]))
		copy(v, t.cols[n])
		out.order = append(out.order, n)
		out.cols[n] = v
	}
	return out
}
