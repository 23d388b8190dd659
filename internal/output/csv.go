package output

import (
	"encoding/csv"
	"io"
)

// CSVFormatter outputs tables as CSV with a header row
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the table as CSV. An empty table writes nothing.
func (c *CSVFormatter) Format(t Table) error {
	if len(t.Records) == 0 {
		return nil
	}

	csvWriter := csv.NewWriter(c.writer)

	if err := csvWriter.Write(t.Header); err != nil {
		return err
	}
	if err := csvWriter.WriteAll(t.Records); err != nil {
		return err
	}

	return csvWriter.Error()
}
