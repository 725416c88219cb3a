package dataset

import (
	"fmt"
	"slices"
)

// Field is one named value of a record
type Field struct {
	Name  string
	Value any
}

// Table is an ordered set of named columns of equal length.
type Table struct {
	names []string
	index map[string]int
	cols  [][]any
	rows  int
}

// NewTable creates an empty table with the given columns
func NewTable(columns ...string) *Table {
	t := &Table{index: make(map[string]int)}
	for _, name := range columns {
		t.addColumn(name)
	}
	return t
}

func (t *Table) addColumn(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	t.index[name] = len(t.names)
	t.names = append(t.names, name)
	// backfill so the new column matches the existing row count
	t.cols = append(t.cols, make([]any, t.rows))
	return len(t.names) - 1
}

// AppendRow appends one value per declared column, in column order
func (t *Table) AppendRow(values ...any) error {
	if len(values) != len(t.names) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.names))
	}
	for i, v := range values {
		t.cols[i] = append(t.cols[i], v)
	}
	t.rows++
	return nil
}

// AppendRecord appends a row given as named fields. Fields naming an unknown
// column add that column, backfilled with nil for earlier rows. Columns the
// record does not mention get nil.
func (t *Table) AppendRecord(fields ...Field) {
	for _, f := range fields {
		t.addColumn(f.Name)
	}
	for i := range t.cols {
		t.cols[i] = append(t.cols[i], nil)
	}
	for _, f := range fields {
		t.cols[t.index[f.Name]][t.rows] = f.Value
	}
	t.rows++
}

// Concat appends every row of other, merging columns by name
func (t *Table) Concat(other *Table) {
	if other == nil {
		return
	}
	for r := 0; r < other.rows; r++ {
		fields := make([]Field, len(other.names))
		for c, name := range other.names {
			fields[c] = Field{Name: name, Value: other.cols[c][r]}
		}
		t.AppendRecord(fields...)
	}
	// keep column declarations of an empty other
	for _, name := range other.names {
		t.addColumn(name)
	}
}

// Drop removes the named columns. Unknown names are ignored.
func (t *Table) Drop(names ...string) {
	var keptNames []string
	var keptCols [][]any
	for i, name := range t.names {
		if slices.Contains(names, name) {
			continue
		}
		keptNames = append(keptNames, name)
		keptCols = append(keptCols, t.cols[i])
	}

	t.names = keptNames
	t.cols = keptCols
	t.index = make(map[string]int, len(keptNames))
	for i, name := range keptNames {
		t.index[name] = i
	}
}

// Columns returns the column names in order
func (t *Table) Columns() []string {
	return slices.Clone(t.names)
}

// HasColumn reports whether the table declares name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns a copy of the values of the named column
func (t *Table) Column(name string) ([]any, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(t.cols[i]), true
}

// Row returns the i-th row in column order
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.cols))
	for c := range t.cols {
		row[c] = t.cols[c][i]
	}
	return row
}

// Len returns the number of rows
func (t *Table) Len() int {
	return t.rows
}

// Floats returns the named column as float64 values
func (t *Table) Floats(name string) ([]float64, error) {
	values, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}

	out := make([]float64, 0, len(values))
	for i, v := range values {
		f, ok := ToFloat(v)
		if !ok {
			return nil, fmt.Errorf("column %q row %d: %v is not numeric", name, i, v)
		}
		out = append(out, f)
	}
	return out, nil
}

// ToFloat converts JSON numeric scalars to float64
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
