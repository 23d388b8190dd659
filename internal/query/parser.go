package query

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

type parseState int

const (
	stateColumn parseState = iota
	stateCompOp
	stateValue
	stateConnective
)

// expected names the token class each state waits for
func (s parseState) expected() string {
	switch s {
	case stateColumn:
		return "column name"
	case stateCompOp:
		return "comparison operator (is, has)"
	case stateValue:
		return "value"
	case stateConnective:
		return "connective (and, or)"
	default:
		return "end of query"
	}
}

// Option configures a parse.
type Option func(*Parser)

// WithLogger routes the parser's debug trace to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Parser) {
		p.log = logger
	}
}

// Parser is a state machine over the token stream of one query.
type Parser struct {
	source  string
	tokens  []Token
	pos     int
	columns map[string]bool
	log     logrus.FieldLogger

	state      parseState
	root       Expression
	pending    ComparisonExpr
	connective Connective
}

// NewParser creates a new parser
func NewParser(source string, tokens []Token, columns []string, opts ...Option) *Parser {
	p := &Parser{
		source:  source,
		tokens:  tokens,
		columns: make(map[string]bool, len(columns)),
		log:     logrus.StandardLogger(),
		state:   stateColumn,
	}
	for _, col := range columns {
		p.columns[col] = true
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		discard := logrus.New()
		discard.Out = io.Discard
		p.log = discard
	}
	return p
}

// current returns the current token
func (p *Parser) current() Token {
	return p.tokens[p.pos]
}

// peek returns the token n positions ahead, if any
func (p *Parser) peek(n int) (Token, bool) {
	if p.pos+n >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos+n], true
}

func (p *Parser) fail(err error, tok Token) error {
	return &ParseError{Err: err, Pos: tok.Pos, Token: tok.Value, Expected: p.state.expected()}
}

// Parse compiles query into a filter over rows whose columns are listed in
// columns. Either a complete query is returned or an error; there is no
// partial result.
func Parse(query string, columns []string, opts ...Option) (*Query, error) {
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}
	for _, col := range columns {
		if err := ValidateColumnName(col); err != nil {
			return nil, err
		}
	}

	tokens := Tokenize(query)
	if err := ValidateTokens(tokens); err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, &ParseError{Err: ErrEmptyQuery, Pos: len(query), Expected: stateColumn.expected()}
	}

	return NewParser(query, tokens, columns, opts...).Run()
}

// Run drives the state machine to the end of the token stream.
func (p *Parser) Run() (*Query, error) {
	for p.pos < len(p.tokens) {
		var err error
		switch p.state {
		case stateColumn:
			err = p.parseColumn()
		case stateCompOp:
			err = p.parseCompOp()
		case stateValue:
			err = p.parseValue()
		case stateConnective:
			err = p.parseConnective()
		}
		if err != nil {
			p.log.WithError(err).Debug("Query rejected")
			return nil, err
		}
		p.pos++
	}

	// Input may only stop right after a value.
	if p.state != stateConnective {
		err := &ParseError{Err: ErrUnexpectedEnd, Pos: len(p.source), Expected: p.state.expected()}
		p.log.WithError(err).Debug("Query rejected")
		return nil, err
	}

	q := &Query{Source: p.source, Root: p.root}
	p.log.WithField("query", q.String()).Debug("Parsed query")
	return q, nil
}

func (p *Parser) parseColumn() error {
	tok := p.current()
	if tok.Quoted || !p.columns[tok.Value] {
		return &ParseError{
			Err:      ErrUnknownColumn,
			Pos:      tok.Pos,
			Token:    tok.Value,
			Expected: fmt.Sprintf("one of %s", strings.Join(p.sortedColumns(), ", ")),
		}
	}
	p.log.WithField("column", tok.Value).Debug("Found column")
	p.pending = ComparisonExpr{Column: tok.Value}
	p.state = stateCompOp
	return nil
}

func (p *Parser) parseCompOp() error {
	tok := p.current()
	kind, ok := compareKind(tok)
	if !ok {
		return p.fail(ErrUnknownOperator, tok)
	}
	p.log.WithField("operator", kind).Debug("Found comparison")
	p.pending.Kind = kind
	p.state = stateValue
	return nil
}

func (p *Parser) parseValue() error {
	tok := p.current()
	p.pending.Value = tok.Value
	comp := p.pending
	p.log.WithFields(logrus.Fields{
		"column": comp.Column,
		"value":  comp.Value,
	}).Debug("Found value")

	if p.root == nil {
		p.root = &comp
	} else {
		p.root = &BinaryExpr{Left: p.root, Connective: p.connective, Right: &comp}
	}
	p.state = stateConnective
	return nil
}

func (p *Parser) parseConnective() error {
	tok := p.current()
	switch {
	case keywordEqual(tok, "and"):
		p.connective = ConnectiveAnd
	case keywordEqual(tok, "or"):
		p.connective = ConnectiveOr
	default:
		return p.fail(ErrUnknownConnective, tok)
	}
	p.log.WithField("connective", p.connective).Debug("Found connective")

	// "genre is fiction and status is read" restates the column;
	// "status is read and unread" continues the previous one.
	if p.restatesColumn() {
		p.state = stateColumn
		return nil
	}
	p.pending = ComparisonExpr{Column: p.pending.Column, Kind: p.pending.Kind}
	p.state = stateValue
	return nil
}

// restatesColumn reports whether the tokens after a connective open a new
// comparison: a valid column followed by a comparison operator.
func (p *Parser) restatesColumn() bool {
	col, ok := p.peek(1)
	if !ok || col.Quoted || !p.columns[col.Value] {
		return false
	}
	op, ok := p.peek(2)
	if !ok {
		return false
	}
	_, isOp := compareKind(op)
	return isOp
}

func compareKind(tok Token) (CompareKind, bool) {
	switch {
	case keywordEqual(tok, "is"):
		return CompareEqual, true
	case keywordEqual(tok, "has"):
		return CompareContains, true
	default:
		return 0, false
	}
}

func (p *Parser) sortedColumns() []string {
	cols := make([]string, 0, len(p.columns))
	for col := range p.columns {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}
