package render

import (
	"errors"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nao1215/markdown"

	"apiviz/internal/dataset"
)

var errNoTable = errors.New("data has no table")

// TableRenderer draws tabular data as a terminal table
type TableRenderer struct {
	output io.Writer
}

// NewTableRenderer creates a TableRenderer writing to output
func NewTableRenderer(output io.Writer) *TableRenderer {
	return &TableRenderer{output: output}
}

// Render implements Renderer
func (r *TableRenderer) Render(data *dataset.Data, view View) error {
	if data.Table == nil {
		return errNoTable
	}

	cols := selectColumns(data.Table, view)

	t := table.NewWriter()
	t.SetOutputMirror(r.output)
	if heading := title(data, view); heading != "" {
		t.SetTitle("%s", heading)
	}

	header := make(table.Row, len(cols))
	for i, name := range cols {
		header[i] = name
	}
	t.AppendHeader(header)

	for _, cellRow := range cells(data.Table, cols) {
		row := make(table.Row, len(cellRow))
		for i, c := range cellRow {
			row[i] = c
		}
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

// MarkdownRenderer writes tabular data as a markdown document
type MarkdownRenderer struct {
	output io.Writer
}

// NewMarkdownRenderer creates a MarkdownRenderer writing to output
func NewMarkdownRenderer(output io.Writer) *MarkdownRenderer {
	return &MarkdownRenderer{output: output}
}

// Render implements Renderer
func (r *MarkdownRenderer) Render(data *dataset.Data, view View) error {
	if data.Table == nil {
		return errNoTable
	}

	cols := selectColumns(data.Table, view)
	md := markdown.NewMarkdown(r.output)

	if heading := title(data, view); heading != "" {
		md.H1(heading)
		md.PlainText("")
	}

	if data.Table.Len() == 0 {
		md.PlainText("No rows.")
		return md.Build()
	}

	md.Table(markdown.TableSet{
		Header: cols,
		Rows:   cells(data.Table, cols),
	})
	md.PlainText("")

	return md.Build()
}
