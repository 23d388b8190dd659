package output

import (
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
)

// DefaultMaxCellWidth bounds a table cell, in terminal columns.
const DefaultMaxCellWidth = 40

// TableFormatter draws tables with box borders for terminals
type TableFormatter struct {
	writer       io.Writer
	MaxCellWidth int
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w, MaxCellWidth: DefaultMaxCellWidth}
}

// SetOutput sets the output writer
func (f *TableFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format renders the table. Cells wider than MaxCellWidth are cut with an
// ellipsis; the header is always drawn, even for an empty table.
func (f *TableFormatter) Format(t Table) error {
	table := tablewriter.NewWriter(f.writer)
	table.SetHeader(t.Header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetRowLine(false)

	for _, record := range t.Records {
		table.Append(f.truncate(record))
	}
	table.Render()
	return nil
}

func (f *TableFormatter) truncate(record []string) []string {
	if f.MaxCellWidth <= 0 {
		return record
	}
	out := make([]string, len(record))
	for i, cell := range record {
		out[i] = runewidth.Truncate(cell, f.MaxCellWidth, "…")
	}
	return out
}
