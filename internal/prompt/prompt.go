// Package prompt asks the user for entry fields one line at a time.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/readinglist/internal/catalog"
)

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Clear is the answer that empties a field instead of keeping its value.
const Clear = "-"

// Ask prints label, with initial in brackets when set, and returns the
// answer. An empty answer keeps initial; Clear returns "".
func (p *Prompter) Ask(label, initial string) (string, error) {
	if initial != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, initial)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("no answer for %s: %w", label, io.ErrUnexpectedEOF)
		}
		return "", err
	}

	switch answer := strings.TrimSpace(line); answer {
	case "":
		return initial, nil
	case Clear:
		return "", nil
	default:
		return answer, nil
	}
}

// Entry asks for every editable field of e, offering the current values,
// and returns the edited copy. ID and UID are kept.
func (p *Prompter) Entry(e catalog.Entry) (catalog.Entry, error) {
	fields := []struct {
		label   string
		initial string
		set     func(string)
	}{
		{"Title", e.Title, func(s string) { e.Title = s }},
		{"Author", e.Author, func(s string) { e.Author = s }},
		{"Status", e.Status, func(s string) { e.Status = s }},
		{"Format", e.Format.String(), func(s string) { e.Format = catalog.ParseFormat(s) }},
		{"Genre", e.Genre, func(s string) { e.Genre = s }},
		{"Tags (space separated)", e.TagString(), func(s string) { e.Tags = catalog.SplitTags(s) }},
	}

	for _, f := range fields {
		answer, err := p.Ask(f.label, f.initial)
		if err != nil {
			return catalog.Entry{}, err
		}
		f.set(answer)
	}
	return e, nil
}
