// Package dataset provides the typed in-memory table the wait-time study
// runs on: loading from CSV, cleaning, and deterministic row splits.
//
// A Table is column-oriented. Numeric columns hold float64 values, string
// and categorical columns hold strings; every column carries a missing-value
// mask. Categorical columns additionally carry their ordered level list,
// whose first entry is the reference level omitted from indicator encoding.
//
// Tables are never mutated after construction: the cleaner and every other
// stage produce new tables, so a pipeline run is a pure function of the
// loaded file and the configured seed.
package dataset

import (
	"github.com/cupstack/waitlab/pkg/errors"
)

// ColumnKind is the type of a table column.
type ColumnKind int

const (
	// KindNumeric columns hold float64 values.
	KindNumeric ColumnKind = iota
	// KindCategorical columns hold strings drawn from a finite level set.
	KindCategorical
	// KindString columns hold free-form strings (identifiers, notes).
	KindString
)

func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return "string"
	}
}

// Column is one typed column of a Table.
type Column struct {
	Name string
	Kind ColumnKind

	// Floats holds values for numeric columns; NaN where missing.
	Floats []float64

	// Strings holds values for string and categorical columns.
	Strings []string

	// Missing marks rows whose value was absent in the source.
	Missing []bool

	// Levels is the ordered level set of a categorical column. Levels[0]
	// is the reference level. Nil for other kinds.
	Levels []string
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// IsMissing reports whether row i has no value.
func (c *Column) IsMissing(i int) bool {
	return c.Missing != nil && c.Missing[i]
}

// ReferenceLevel returns the reference level of a categorical column, or ""
// for other kinds.
func (c *Column) ReferenceLevel() string {
	if c.Kind != KindCategorical || len(c.Levels) == 0 {
		return ""
	}
	return c.Levels[0]
}

// clone returns a deep copy of the column.
func (c *Column) clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Floats != nil {
		out.Floats = append([]float64(nil), c.Floats...)
	}
	if c.Strings != nil {
		out.Strings = append([]string(nil), c.Strings...)
	}
	if c.Missing != nil {
		out.Missing = append([]bool(nil), c.Missing...)
	}
	if c.Levels != nil {
		out.Levels = append([]string(nil), c.Levels...)
	}
	return out
}

// take returns a copy of the column restricted to the given row indices.
func (c *Column) take(rows []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Levels != nil {
		out.Levels = append([]string(nil), c.Levels...)
	}
	if c.Floats != nil {
		out.Floats = make([]float64, len(rows))
		for i, r := range rows {
			out.Floats[i] = c.Floats[r]
		}
	}
	if c.Strings != nil {
		out.Strings = make([]string, len(rows))
		for i, r := range rows {
			out.Strings[i] = c.Strings[r]
		}
	}
	if c.Missing != nil {
		out.Missing = make([]bool, len(rows))
		for i, r := range rows {
			out.Missing[i] = c.Missing[r]
		}
	}
	return out
}

// Table is an immutable, column-oriented dataset.
type Table struct {
	cols  []*Column
	index map[string]int
	nRows int
}

// NewTable builds a table from columns, which must share a row count and
// have unique names.
func NewTable(cols []*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := t.index[c.Name]; dup {
			return nil, errors.NewValueError("NewTable", "duplicate column name "+c.Name)
		}
		if i == 0 {
			t.nRows = c.Len()
		} else if c.Len() != t.nRows {
			return nil, errors.NewDimensionError("NewTable", t.nRows, c.Len(), 0)
		}
		t.index[c.Name] = i
	}
	t.cols = cols
	return t, nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.nRows }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Column returns the named column, or nil if absent.
func (t *Table) Column(name string) *Column {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	return t.cols[i]
}

// Columns returns the columns in file order. Callers must not modify them.
func (t *Table) Columns() []*Column { return t.cols }

// Names returns the column names in file order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// SelectRows returns a new table containing the given rows in the given
// order. Indices outside [0, NumRows) produce a DimensionError.
func (t *Table) SelectRows(rows []int) (*Table, error) {
	for _, r := range rows {
		if r < 0 || r >= t.nRows {
			return nil, errors.NewDimensionError("Table.SelectRows", t.nRows, r, 0)
		}
	}
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.take(rows)
	}
	return NewTable(cols)
}
