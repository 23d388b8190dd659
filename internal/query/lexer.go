package query

import (
	"strings"
)

type lexState int

const (
	lexDelimiter lexState = iota // between tokens
	lexWord                      // inside an unquoted run
	lexQuoted                    // inside "..."
)

// Lexer splits a query into tokens. Whitespace delimits tokens except
// inside double quotes, where it is kept as part of the token.
type Lexer struct {
	input string
	state lexState

	buf    strings.Builder
	start  int
	quoted bool
	tokens []Token
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// begin starts a new token at pos
func (l *Lexer) begin(pos int) {
	l.buf.Reset()
	l.start = pos
	l.quoted = false
}

// emit finalizes the current token
func (l *Lexer) emit() {
	l.tokens = append(l.tokens, Token{
		Value:  l.buf.String(),
		Pos:    l.start,
		Quoted: l.quoted,
	})
	l.buf.Reset()
}

// Run scans the whole input and returns its tokens.
//
// An unterminated quote is not an error: whatever was gathered up to the end
// of input becomes the last token.
func (l *Lexer) Run() []Token {
	for pos, ch := range l.input {
		switch l.state {
		case lexDelimiter:
			switch {
			case isSpace(ch):
			case ch == '"':
				l.begin(pos)
				l.quoted = true
				l.state = lexQuoted
			default:
				l.begin(pos)
				l.buf.WriteRune(ch)
				l.state = lexWord
			}
		case lexWord:
			switch {
			case isSpace(ch):
				l.emit()
				l.state = lexDelimiter
			case ch == '"':
				l.quoted = true
				l.state = lexQuoted
			default:
				l.buf.WriteRune(ch)
			}
		case lexQuoted:
			if ch == '"' {
				l.state = lexWord
				continue
			}
			l.buf.WriteRune(ch)
		}
	}

	if l.state != lexDelimiter {
		l.emit()
		l.state = lexDelimiter
	}
	return l.tokens
}

// Tokenize returns all tokens from the input
func Tokenize(input string) []Token {
	return NewLexer(input).Run()
}
