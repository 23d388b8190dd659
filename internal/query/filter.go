package query

import (
	"fmt"
	"strings"
)

// Evaluate evaluates a comparison against row
func (c *ComparisonExpr) Evaluate(row Row) (bool, error) {
	value, err := row.Get(c.Column)
	if err != nil {
		return false, err
	}
	return compare(value, c.Kind, c.Value)
}

// Evaluate evaluates the chain up to and including b.Right. AND stops at
// the first false side, but a row that lacks b.Right's column is still
// rejected; OR has no agreed truth table yet and is refused.
func (b *BinaryExpr) Evaluate(row Row) (bool, error) {
	switch b.Connective {
	case ConnectiveAnd:
		left, err := b.Left.Evaluate(row)
		if err != nil {
			return false, err
		}
		if !left {
			if _, err := row.Get(b.Right.Column); err != nil {
				return false, err
			}
			return false, nil
		}
		return b.Right.Evaluate(row)
	default:
		return false, fmt.Errorf("%w: %s", ErrUnsupportedConnective, b.Connective)
	}
}

// compare compares a row value with a literal using the given kind
func compare(value string, kind CompareKind, literal string) (bool, error) {
	switch kind {
	case CompareEqual:
		return value == literal, nil
	case CompareContains:
		return containsWords(value, literal), nil
	default:
		return false, fmt.Errorf("unknown comparison kind %v", kind)
	}
}

// containsWords reports whether the words of literal occur as a contiguous
// run among the words of value. Words are whitespace separated.
func containsWords(value, literal string) bool {
	haystack := strings.Fields(value)
	needle := strings.Fields(literal)
	if len(needle) == 0 {
		return len(haystack) == 0
	}

	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, word := range needle {
			if haystack[i+j] != word {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Eval applies q to a single row.
func Eval(q *Query, row Row) (bool, error) {
	if q == nil || q.Root == nil {
		return true, nil
	}
	return q.Root.Evaluate(row)
}

// ApplyFilter returns the rows for which q evaluates true. The first
// evaluation error aborts the whole pass.
func ApplyFilter(rows []Row, q *Query) ([]Row, error) {
	if q == nil {
		return rows, nil
	}

	filtered := make([]Row, 0)
	for i, row := range rows {
		match, err := Eval(q, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if match {
			filtered = append(filtered, row)
		}
	}

	return filtered, nil
}
