// Package lexer implements the riverflow tokenizer.
package lexer

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/thomasrohde/riverflow/pkg/diagnostics"
	"github.com/thomasrohde/riverflow/pkg/token"
)

type scanner struct {
	source   string
	filename string
	pos      int
	line     int
	col      int
}

func newScanner(source, filename string) *scanner {
	return &scanner{
		source:   source,
		filename: filename,
		pos:      0,
		line:     1,
		col:      1,
	}
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.source)
}

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *scanner) peekAt(offset int) byte {
	p := s.pos + offset
	if p >= len(s.source) {
		return 0
	}
	return s.source[p]
}

func (s *scanner) advance() byte {
	ch := s.source[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

// match consumes the next byte if it equals expected.
func (s *scanner) match(expected byte) bool {
	if s.atEnd() || s.source[s.pos] != expected {
		return false
	}
	s.advance()
	return true
}

func (s *scanner) skipWhitespaceAndComments() {
	for !s.atEnd() {
		ch := s.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			s.advance()
		} else if ch == '/' && s.peekAt(1) == '/' {
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
		} else {
			break
		}
	}
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

func (s *scanner) make(typ token.Type, startPos, line, col int, literal any) token.Token {
	return token.Token{
		Type:    typ,
		Lexeme:  s.source[startPos:s.pos],
		Literal: literal,
		Line:    line,
		Col:     col,
		File:    s.filename,
	}
}

func (s *scanner) scanString() (token.Token, error) {
	startPos := s.pos
	startLine, startCol := s.line, s.col
	s.advance() // opening "

	for !s.atEnd() && s.peek() != '"' {
		s.advance()
	}
	if s.atEnd() {
		return token.Token{}, s.lexError(startLine, startCol, "Unterminated string.")
	}
	s.advance() // closing "

	value := s.source[startPos+1 : s.pos-1]
	return s.make(token.String, startPos, startLine, startCol, value), nil
}

func (s *scanner) scanNumber() token.Token {
	startPos := s.pos
	startLine, startCol := s.line, s.col

	for !s.atEnd() && isDigit(s.peek()) {
		s.advance()
	}

	// A fractional part needs a digit after the dot.
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.advance()
		for !s.atEnd() && isDigit(s.peek()) {
			s.advance()
		}
	}

	val, _ := strconv.ParseFloat(s.source[startPos:s.pos], 64)
	return s.make(token.Number, startPos, startLine, startCol, val)
}

func (s *scanner) scanIdentOrKeyword() token.Token {
	startPos := s.pos
	startLine, startCol := s.line, s.col

	for !s.atEnd() && isAlphaNumeric(s.peek()) {
		s.advance()
	}

	typ := token.Identifier
	if kw, ok := token.Keywords[s.source[startPos:s.pos]]; ok {
		typ = kw
	}
	return s.make(typ, startPos, startLine, startCol, nil)
}

func (s *scanner) lexError(line, col int, msg string) error {
	diag := diagnostics.MakeDiag(
		diagnostics.ELex,
		msg,
		&token.Span{File: s.filename, Line: line, Col: col},
		"",
	)
	return &LexError{Diag: diag}
}

// LexError wraps a diagnostic for lex errors.
type LexError struct {
	Diag diagnostics.Diagnostic
}

func (e *LexError) Error() string {
	return e.Diag.Message
}

var singleChar = map[byte]token.Type{
	'(': token.LeftParen,
	')': token.RightParen,
	'{': token.LeftBrace,
	'}': token.RightBrace,
	'[': token.LeftBracket,
	']': token.RightBracket,
	',': token.Comma,
	';': token.Semicolon,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'#': token.Hash,
	'^': token.Caret,
}

func (s *scanner) nextToken() (token.Token, error) {
	s.skipWhitespaceAndComments()

	startPos := s.pos
	startLine, startCol := s.line, s.col

	if s.atEnd() {
		return s.make(token.EOF, startPos, startLine, startCol, nil), nil
	}

	ch := s.peek()

	if typ, ok := singleChar[ch]; ok {
		s.advance()
		return s.make(typ, startPos, startLine, startCol, nil), nil
	}

	switch ch {
	case '!':
		s.advance()
		typ := token.Bang
		if s.match('=') {
			typ = token.BangEqual
		}
		return s.make(typ, startPos, startLine, startCol, nil), nil

	case '=':
		s.advance()
		typ := token.Equal
		if s.match('=') {
			typ = token.EqualEqual
		}
		return s.make(typ, startPos, startLine, startCol, nil), nil

	case '>':
		s.advance()
		typ := token.Greater
		if s.match('=') {
			typ = token.GreaterEqual
		}
		return s.make(typ, startPos, startLine, startCol, nil), nil

	case '<':
		s.advance()
		typ := token.Less
		if s.match('=') {
			typ = token.LessEqual
		} else if s.match('<') {
			typ = token.LeftShift
		}
		return s.make(typ, startPos, startLine, startCol, nil), nil

	case '"':
		return s.scanString()
	}

	if isDigit(ch) {
		return s.scanNumber(), nil
	}

	if isAlpha(ch) {
		return s.scanIdentOrKeyword(), nil
	}

	r, size := utf8.DecodeRuneInString(s.source[startPos:])
	s.pos += size
	s.col++
	return token.Token{}, s.lexError(startLine, startCol, fmt.Sprintf("Unexpected character '%c'.", r))
}

// Tokenize breaks source code into a slice of tokens ending with EOF.
func Tokenize(source, filename string) ([]token.Token, error) {
	s := newScanner(source, filename)
	var tokens []token.Token

	for {
		tok, err := s.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	return tokens, nil
}
