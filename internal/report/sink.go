package report

import (
	"fmt"
	"io"

	"github.com/nao1215/markdown"
)

// Sink receives the summary a data source produced
type Sink interface {
	Report(summary *Summary) error
}

// NopSink discards summaries
type NopSink struct{}

// Report implements Sink
func (NopSink) Report(*Summary) error { return nil }

// TextSink writes one line per entry
type TextSink struct {
	output io.Writer
}

// NewTextSink creates a TextSink writing to output
func NewTextSink(output io.Writer) *TextSink {
	return &TextSink{output: output}
}

// Report writes section labels as "label:" and values as "  label: 12.34"
func (s *TextSink) Report(summary *Summary) error {
	for _, e := range summary.Entries {
		var err error
		if e.IsSection() {
			_, err = fmt.Fprintf(s.output, "%s:\n", e.Label)
		} else {
			_, err = fmt.Fprintf(s.output, "  %s: %s\n", e.Label, formatValue(e))
		}
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

// MarkdownSink writes sections as headings followed by a metric table
type MarkdownSink struct {
	output io.Writer
}

// NewMarkdownSink creates a MarkdownSink writing to output
func NewMarkdownSink(output io.Writer) *MarkdownSink {
	return &MarkdownSink{output: output}
}

// Report implements Sink
func (s *MarkdownSink) Report(summary *Summary) error {
	md := markdown.NewMarkdown(s.output)

	var rows [][]string
	flush := func() {
		if len(rows) == 0 {
			return
		}
		md.Table(markdown.TableSet{
			Header: []string{"Metric", "Value"},
			Rows:   rows,
		})
		md.PlainText("")
		rows = nil
	}

	for _, e := range summary.Entries {
		if e.IsSection() {
			flush()
			md.H2(e.Label)
			md.PlainText("")
			continue
		}
		rows = append(rows, []string{e.Label, formatValue(e)})
	}
	flush()

	return md.Build()
}

// formatValue writes counts as integers and everything else with two decimals
func formatValue(e Entry) string {
	if e.Integer {
		return fmt.Sprintf("%.0f", *e.Value)
	}
	return fmt.Sprintf("%.2f", *e.Value)
}
