package query

import (
	"errors"
	"fmt"
)

// Validation constants to keep a single parse bounded
const (
	// MaxQueryLength is the maximum allowed query string length (64KB)
	MaxQueryLength = 64 * 1024

	// MaxTokens is the maximum number of tokens in a query
	MaxTokens = 1000

	// MaxColumnNameLength is the maximum length for a column name
	MaxColumnNameLength = 256
)

var (
	// ErrQueryTooLong is returned when query exceeds MaxQueryLength
	ErrQueryTooLong = errors.New("query too long")

	// ErrTooManyTokens is returned when query has too many tokens
	ErrTooManyTokens = errors.New("too many tokens in query")

	// ErrColumnNameTooLong is returned when a valid column name is too long
	ErrColumnNameTooLong = errors.New("column name too long")

	// ErrEmptyQuery is returned when the query holds no tokens. The query
	// ended while a column was expected, so it is also ErrUnexpectedEnd.
	ErrEmptyQuery = fmt.Errorf("empty query: %w", ErrUnexpectedEnd)

	// ErrUnknownColumn is returned when a column token is not a valid column
	ErrUnknownColumn = errors.New("unknown column")

	// ErrUnknownOperator is returned when a comparison operator is expected
	ErrUnknownOperator = errors.New("expected comparison operator")

	// ErrUnknownConnective is returned when a connective is expected
	ErrUnknownConnective = errors.New("expected connective")

	// ErrUnexpectedEnd is returned when the query stops mid-comparison
	ErrUnexpectedEnd = errors.New("unexpected end of query")

	// ErrMissingColumn is returned when a row lacks a queried column
	ErrMissingColumn = errors.New("row has no such column")

	// ErrUnsupportedConnective is returned when evaluating a connective
	// that has no truth table yet (or)
	ErrUnsupportedConnective = errors.New("connective not supported")
)

// ValidateQuery performs length validation on query input
func ValidateQuery(query string) error {
	if len(query) > MaxQueryLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrQueryTooLong, len(query), MaxQueryLength)
	}
	return nil
}

// ValidateColumnName validates column name length
func ValidateColumnName(name string) error {
	if len(name) > MaxColumnNameLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrColumnNameTooLong, len(name), MaxColumnNameLength)
	}
	return nil
}

// ValidateTokens validates token count
func ValidateTokens(tokens []Token) error {
	if len(tokens) > MaxTokens {
		return fmt.Errorf("%w: %d tokens (max %d)", ErrTooManyTokens, len(tokens), MaxTokens)
	}
	return nil
}

// ParseError describes why a query was rejected.
type ParseError struct {
	Err      error  // one of the sentinel errors above
	Pos      int    // byte offset of the offending token, or len(query) at end
	Token    string // offending token, empty at end of input
	Expected string // token class the parser was waiting for
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%v at position %d: expected %s", e.Err, e.Pos, e.Expected)
	}
	return fmt.Sprintf("%v at position %d: expected %s, got %q", e.Err, e.Pos, e.Expected, e.Token)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
