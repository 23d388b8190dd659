package query

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func testRow(genre, status, title, tags string) Row {
	row := Row{}
	row.Insert("author", "")
	row.Insert("format", "book")
	row.Insert("genre", genre)
	row.Insert("status", status)
	row.Insert("tags", tags)
	row.Insert("title", title)
	return row
}

func TestEval(t *testing.T) {
	tests := []struct {
		name  string
		query string
		row   Row
		want  bool
	}{
		{
			name:  "equal match",
			query: "genre is fiction",
			row:   testRow("fiction", "read", "Dune", ""),
			want:  true,
		},
		{
			name:  "equal mismatch",
			query: "genre is fiction",
			row:   testRow("poetry", "read", "Dune", ""),
			want:  false,
		},
		{
			name:  "equal is case sensitive",
			query: "genre is fiction",
			row:   testRow("Fiction", "read", "Dune", ""),
			want:  false,
		},
		{
			name:  "quoted value matches whole title",
			query: `title is "The Great Gatsby"`,
			row:   testRow("fiction", "read", "The Great Gatsby", ""),
			want:  true,
		},
		{
			name:  "quoted value does not match part of title",
			query: `title is "The Great Gatsby"`,
			row:   testRow("fiction", "read", "Gatsby", ""),
			want:  false,
		},
		{
			name:  "empty literal matches empty value",
			query: `tags is ""`,
			row:   testRow("fiction", "read", "Dune", ""),
			want:  true,
		},
		{
			name:  "cross column and both true",
			query: "genre is fiction and status is read",
			row:   testRow("fiction", "read", "Dune", ""),
			want:  true,
		},
		{
			name:  "cross column and one false",
			query: "genre is fiction and status is read",
			row:   testRow("fiction", "unread", "Dune", ""),
			want:  false,
		},
		{
			name:  "inherited column needs every literal",
			query: "status is read and unread",
			row:   testRow("fiction", "read", "Dune", ""),
			want:  false,
		},
		{
			name:  "inherited column same literal twice",
			query: "status is read and read",
			row:   testRow("fiction", "read", "Dune", ""),
			want:  true,
		},
		{
			name:  "has finds a tag",
			query: "tags has classic",
			row:   testRow("fiction", "read", "Dune", "scifi classic hugo"),
			want:  true,
		},
		{
			name:  "has needs a whole word",
			query: "tags has class",
			row:   testRow("fiction", "read", "Dune", "scifi classic"),
			want:  false,
		},
		{
			name:  "has with inherited column",
			query: "tags has classic and hugo",
			row:   testRow("fiction", "read", "Dune", "hugo scifi classic"),
			want:  true,
		},
		{
			name:  "has with multi-word literal",
			query: `title has "Great Gatsby"`,
			row:   testRow("fiction", "read", "The Great Gatsby", ""),
			want:  true,
		},
		{
			name:  "has with out of order words",
			query: `title has "Gatsby Great"`,
			row:   testRow("fiction", "read", "The Great Gatsby", ""),
			want:  false,
		},
		{
			name:  "has does not match unread for read",
			query: "status has read",
			row:   testRow("fiction", "unread", "Dune", ""),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.query, testColumns)
			require.NoError(t, err)
			got, err := Eval(q, tt.row)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEval_EqualMatchesRowValue(t *testing.T) {
	values := []string{"fiction", "non-fiction", "Science Fiction", "", "ünïcode"}
	for _, col := range testColumns {
		for _, lit := range values {
			q, err := Parse(fmt.Sprintf("%s is %q", col, lit), testColumns)
			require.NoError(t, err)
			for _, have := range values {
				row := testRow("", "", "", "")
				row.Insert(col, have)
				got, err := Eval(q, row)
				require.NoError(t, err)
				assert.Equal(t, have == lit, got, "%s is %q against %q", col, lit, have)
			}
		}
	}
}

func TestEval_MissingColumn(t *testing.T) {
	q, err := Parse("genre is fiction", testColumns)
	require.NoError(t, err)

	_, err = Eval(q, Row{"title": "Dune"})
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), `"genre"`)
}

func TestEval_MissingColumnAfterFalseSide(t *testing.T) {
	q, err := Parse("genre is poetry and status is read", testColumns)
	require.NoError(t, err)

	got, err := Eval(q, Row{"genre": "fiction"})
	assert.False(t, got)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), `"status"`)
}

func TestEval_Or(t *testing.T) {
	q, err := Parse("genre is fiction or fantasy", testColumns)
	require.NoError(t, err)

	_, err = Eval(q, testRow("fiction", "read", "Dune", ""))
	assert.True(t, errors.Is(err, ErrUnsupportedConnective))
}

func TestEval_NilQuery(t *testing.T) {
	got, err := Eval(nil, Row{})
	require.NoError(t, err)
	assert.True(t, got)
}

func TestApplyFilter(t *testing.T) {
	rows := []Row{
		testRow("fiction", "read", "Dune", "scifi"),
		testRow("fiction", "unread", "Emma", "classic"),
		testRow("poetry", "read", "Odes", ""),
	}

	q, err := Parse("genre is fiction and status is read", testColumns)
	require.NoError(t, err)
	filtered, err := ApplyFilter(rows, q)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Dune", filtered[0]["title"])

	all, err := ApplyFilter(rows, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	rows = append(rows, Row{"title": "broken"})
	_, err = ApplyFilter(rows, q)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), "row 3")
}

func TestEval_SharedAcrossGoroutines(t *testing.T) {
	q, err := Parse("genre is fiction and status is read", testColumns)
	require.NoError(t, err)

	var g errgroup.Group
	for i := 0; i < 32; i++ {
		status := "read"
		if i%2 == 1 {
			status = "unread"
		}
		want := i%2 == 0
		g.Go(func() error {
			for j := 0; j < 100; j++ {
				got, err := Eval(q, testRow("fiction", status, "Dune", ""))
				if err != nil {
					return err
				}
				if got != want {
					return fmt.Errorf("status %q: got %v, want %v", status, got, want)
				}
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())
}
