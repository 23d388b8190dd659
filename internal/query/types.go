// Package query implements the catalog filter language.
//
// A query is a chain of comparisons joined by connectives:
//
//	genre is fiction and status is read
//	status is read and unread
//	title is "The Great Gatsby"
//	tags has classic
//
// The package includes a lexer for tokenization, a state-machine parser that
// builds a left-deep expression chain, and an evaluator for filtering rows.
//
// Example usage:
//
//	q, err := query.Parse("genre is fiction", []string{"genre", "status"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	filtered, err := query.ApplyFilter(rows, q)
package query

import "fmt"

// Token is a maximal run of non-space characters, or a quoted span.
type Token struct {
	Value string
	Pos   int

	// Quoted is set when any part of the token came from a quoted span.
	// Quoted tokens are always literals.
	Quoted bool
}

// CompareKind is the kind of a single comparison.
type CompareKind int

const (
	CompareEqual    CompareKind = iota // is
	CompareContains                    // has
)

func (k CompareKind) String() string {
	switch k {
	case CompareEqual:
		return "is"
	case CompareContains:
		return "has"
	default:
		return fmt.Sprintf("CompareKind(%d)", int(k))
	}
}

// Connective joins two comparisons.
type Connective int

const (
	ConnectiveAnd Connective = iota
	ConnectiveOr
)

func (c Connective) String() string {
	switch c {
	case ConnectiveAnd:
		return "and"
	case ConnectiveOr:
		return "or"
	default:
		return fmt.Sprintf("Connective(%d)", int(c))
	}
}

// Row maps column names to values for one catalog entry.
type Row map[string]string

// Get returns the value of column. A row that lacks the column is a
// mismatch between the row schema and the columns the query was parsed
// against, so it is reported as ErrMissingColumn rather than defaulted.
func (r Row) Get(column string) (string, error) {
	v, ok := r[column]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingColumn, column)
	}
	return v, nil
}

// Insert sets the value of column.
func (r Row) Insert(column, value string) {
	r[column] = value
}

// Expression is a node of the parsed chain.
type Expression interface {
	Evaluate(row Row) (bool, error)
	String() string
}

// ComparisonExpr is a leaf predicate.
type ComparisonExpr struct {
	Column string
	Kind   CompareKind
	Value  string
}

// BinaryExpr joins the chain built so far with one more comparison.
type BinaryExpr struct {
	Left       Expression
	Connective Connective
	Right      *ComparisonExpr
}

func (c *ComparisonExpr) String() string {
	return fmt.Sprintf("%s %s %q", c.Column, c.Kind, c.Value)
}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("%s %s %s", b.Left, b.Connective, b.Right)
}

// Query is a parsed filter. It is immutable once returned by Parse and may
// be evaluated from several goroutines at once.
type Query struct {
	Source string
	Root   Expression
}

func (q *Query) String() string {
	if q == nil || q.Root == nil {
		return ""
	}
	return q.Root.String()
}

// Comparisons returns the leaves of the chain in source order.
func (q *Query) Comparisons() []*ComparisonExpr {
	var out []*ComparisonExpr
	expr := q.Root
	for expr != nil {
		switch e := expr.(type) {
		case *BinaryExpr:
			out = append(out, e.Right)
			expr = e.Left
		case *ComparisonExpr:
			out = append(out, e)
			expr = nil
		default:
			expr = nil
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// keywordEqual reports whether token is the bare keyword. Keywords are
// lower case only; "IS" or a quoted "is" is a literal.
func keywordEqual(token Token, keyword string) bool {
	return !token.Quoted && token.Value == keyword
}
