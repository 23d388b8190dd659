package prompt

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vegasq/readinglist/internal/catalog"
)

func TestAsk(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("Dune\n\n  spaced  \nlast"), &out)

	got, err := p.Ask("Title", "")
	require.NoError(t, err)
	assert.Equal(t, "Dune", got)

	got, err = p.Ask("Status", "unread")
	require.NoError(t, err)
	assert.Equal(t, "unread", got)

	got, err = p.Ask("Genre", "")
	require.NoError(t, err)
	assert.Equal(t, "spaced", got)

	got, err = p.Ask("Author", "")
	require.NoError(t, err)
	assert.Equal(t, "last", got)

	_, err = p.Ask("Tags", "")
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	assert.Equal(t, "Title: Status [unread]: Genre: Author: Tags: ", out.String())
}

func TestEntry_New(t *testing.T) {
	in := strings.Join([]string{"Dune", "Frank Herbert", "unread", "Kindle", "scifi", "classic  hugo"}, "\n") + "\n"
	p := New(strings.NewReader(in), io.Discard)

	e, err := p.Entry(catalog.Entry{})
	require.NoError(t, err)
	assert.Equal(t, catalog.Entry{
		Title:  "Dune",
		Author: "Frank Herbert",
		Status: "unread",
		Format: catalog.FormatKindle,
		Genre:  "scifi",
		Tags:   []string{"classic", "hugo"},
	}, e)
}

func TestEntry_KeepsCurrentValues(t *testing.T) {
	current := catalog.Entry{
		ID:     4,
		UID:    "u-4",
		Title:  "Dune",
		Author: "Frank Herbert",
		Status: "unread",
		Format: catalog.FormatKindle,
		Genre:  "scifi",
		Tags:   []string{"classic"},
	}
	p := New(strings.NewReader("\n\nread\n\n\n\n"), io.Discard)

	e, err := p.Entry(current)
	require.NoError(t, err)
	want := current
	want.Status = "read"
	assert.Equal(t, want, e)
}

func TestEntry_ClearsFields(t *testing.T) {
	current := catalog.Entry{
		ID:     4,
		Title:  "Dune",
		Author: "Frank Herbert",
		Status: "unread",
		Genre:  "scifi",
		Tags:   []string{"classic", "hugo"},
	}
	p := New(strings.NewReader("\n\n\n\n-\n - \n"), io.Discard)

	e, err := p.Entry(current)
	require.NoError(t, err)
	want := current
	want.Genre = ""
	want.Tags = nil
	assert.Equal(t, want, e)
}

func TestEntry_Aborted(t *testing.T) {
	p := New(strings.NewReader("Dune\n"), io.Discard)
	_, err := p.Entry(catalog.Entry{})
	assert.Error(t, err)
}
