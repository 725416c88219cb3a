// Package render turns normalized data into something a person can look at:
// terminal tables, markdown documents or image files.
package render

import (
	"fmt"
	"strconv"

	"apiviz/internal/dataset"
)

// View is the per-source render rule
type View struct {
	// Title is shown above tabular output. Data.Caption is used when empty.
	Title string

	// Columns selects and orders the columns to show. Empty means all.
	Columns []string
}

// Renderer produces a visual artifact from normalized data
type Renderer interface {
	Render(data *dataset.Data, view View) error
}

// Dispatcher routes tabular data to one renderer and binary data to another
type Dispatcher struct {
	Table  Renderer
	Binary Renderer
}

// Render implements Renderer
func (d *Dispatcher) Render(data *dataset.Data, view View) error {
	var r Renderer
	switch data.Kind() {
	case dataset.KindTable:
		r = d.Table
	case dataset.KindBinary:
		r = d.Binary
	}
	if r == nil {
		return fmt.Errorf("no renderer configured for %s data", data.Kind())
	}
	return r.Render(data, view)
}

// title picks the heading for data
func title(data *dataset.Data, view View) string {
	switch {
	case view.Title != "" && data.Caption != "":
		return view.Title + " (" + data.Caption + ")"
	case view.Title != "":
		return view.Title
	default:
		return data.Caption
	}
}

// selectColumns returns the view's columns present in tbl, or every column
func selectColumns(tbl *dataset.Table, view View) []string {
	var cols []string
	for _, name := range view.Columns {
		if tbl.HasColumn(name) {
			cols = append(cols, name)
		}
	}
	if len(cols) == 0 {
		return tbl.Columns()
	}
	return cols
}

// cells returns the selected columns of tbl as formatted strings, row by row
func cells(tbl *dataset.Table, cols []string) [][]string {
	values := make([][]any, len(cols))
	for i, name := range cols {
		values[i], _ = tbl.Column(name)
	}

	rows := make([][]string, tbl.Len())
	for r := range rows {
		row := make([]string, len(cols))
		for c := range cols {
			row[c] = formatCell(values[c][r])
		}
		rows[r] = row
	}
	return rows
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
