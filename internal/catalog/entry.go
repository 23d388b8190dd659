// Package catalog stores reading-list entries and projects them into rows
// the query package can filter.
package catalog

import (
	"strings"

	"github.com/vegasq/readinglist/internal/query"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Format is the physical format of an entry.
type Format int

const (
	FormatBook Format = iota
	FormatKindle
)

// ParseFormat maps user input to a Format. Anything unrecognized is a book.
// It is safe for concurrent use; a cases.Caser is not, so one is built per
// call.
func ParseFormat(s string) Format {
	switch cases.Lower(language.Und).String(strings.TrimSpace(s)) {
	case "kindle":
		return FormatKindle
	default:
		return FormatBook
	}
}

func (f Format) String() string {
	switch f {
	case FormatKindle:
		return "kindle"
	default:
		return "book"
	}
}

// Entry is one item of the reading list.
type Entry struct {
	ID     int64
	UID    string
	Title  string
	Author string
	Genre  string
	Format Format
	Status string
	Tags   []string
}

// Column names exposed to queries.
const (
	ColumnAuthor = "author"
	ColumnFormat = "format"
	ColumnGenre  = "genre"
	ColumnStatus = "status"
	ColumnTags   = "tags"
	ColumnTitle  = "title"
)

// Columns returns the columns Row populates, in sorted order.
func Columns() []string {
	return []string{ColumnAuthor, ColumnFormat, ColumnGenre, ColumnStatus, ColumnTags, ColumnTitle}
}

// Row projects the entry onto Columns.
func (e *Entry) Row() query.Row {
	row := make(query.Row, 6)
	row.Insert(ColumnAuthor, e.Author)
	row.Insert(ColumnFormat, e.Format.String())
	row.Insert(ColumnGenre, e.Genre)
	row.Insert(ColumnStatus, e.Status)
	row.Insert(ColumnTags, e.TagString())
	row.Insert(ColumnTitle, e.Title)
	return row
}

// TagString joins the tags with single spaces.
func (e *Entry) TagString() string {
	return strings.Join(e.Tags, " ")
}

// SplitTags splits space separated tags, dropping empty ones.
func SplitTags(s string) []string {
	tags := strings.Fields(s)
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// Filter returns the entries whose rows satisfy q. A nil q keeps everything.
func Filter(entries []Entry, q *query.Query) ([]Entry, error) {
	if q == nil {
		return entries, nil
	}
	out := make([]Entry, 0, len(entries))
	for i := range entries {
		match, err := query.Eval(q, entries[i].Row())
		if err != nil {
			return nil, err
		}
		if match {
			out = append(out, entries[i])
		}
	}
	return out, nil
}
