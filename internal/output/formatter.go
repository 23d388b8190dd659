// Package output renders catalog entries as a table, CSV or JSON Lines.
//
// Example usage:
//
//	formatter, err := output.New("table", os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.Format(output.Entries(entries, false)); err != nil {
//	    log.Fatal(err)
//	}
package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/vegasq/readinglist/internal/catalog"
)

// Formats lists the names accepted by New.
var Formats = []string{"table", "csv", "json"}

// Table is the rendered form of a set of entries: a header and one record
// per entry, each record aligned with the header.
type Table struct {
	Header  []string
	Records [][]string
}

// Formatter defines the interface for output formatters.
type Formatter interface {
	// Format writes the table in the formatter's specific format
	Format(t Table) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// New returns the formatter registered under name.
func New(name string, w io.Writer) (Formatter, error) {
	switch name {
	case "table", "":
		return NewTableFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "json", "jsonl":
		return NewJSONFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (supported: %v)", name, Formats)
	}
}

// Entries lays out entries in the column order of the list view. The ID
// column is appended when withID is set.
func Entries(entries []catalog.Entry, withID bool) Table {
	header := []string{"Title", "Author", "Genre", "Status", "Format", "Tags"}
	if withID {
		header = append(header, "ID")
	}

	t := Table{Header: header, Records: make([][]string, 0, len(entries))}
	for i := range entries {
		e := &entries[i]
		record := []string{e.Title, e.Author, e.Genre, e.Status, e.Format.String(), e.TagString()}
		if withID {
			record = append(record, strconv.FormatInt(e.ID, 10))
		}
		t.Records = append(t.Records, record)
	}
	return t
}

// Columns renders a single-column table listing names.
func Columns(names []string) Table {
	t := Table{Header: []string{"Column"}}
	for _, name := range names {
		t.Records = append(t.Records, []string{name})
	}
	return t
}
