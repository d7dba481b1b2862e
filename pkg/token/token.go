// Package token defines the lexical units shared by the lexer, parser and evaluator.
package token

import "fmt"

// Type identifies the kind of a token.
type Type int

const (
	// Single-character tokens
	LeftParen    Type = iota // (
	RightParen               // )
	LeftBrace                // {
	RightBrace               // }
	LeftBracket              // [
	RightBracket             // ]
	Comma                    // ,
	Semicolon                // ;
	Plus                     // +
	Minus                    // -
	Star                     // *
	Slash                    // /
	Hash                     // #  distribution scaling
	Caret                    // ^  distribution synthesis

	// One or two character tokens
	Bang         // !
	BangEqual    // !=
	Equal        // =
	EqualEqual   // ==
	Greater      // >
	GreaterEqual // >=
	Less         // <
	LessEqual    // <=
	LeftShift    // <<  distribution sum

	// Literals
	Identifier
	String
	Number

	// Keywords
	Var
	Print
	Nil
	True
	False

	EOF
)

var names = map[Type]string{
	LeftParen:    "LEFT_PAREN",
	RightParen:   "RIGHT_PAREN",
	LeftBrace:    "LEFT_BRACE",
	RightBrace:   "RIGHT_BRACE",
	LeftBracket:  "LEFT_BRACKET",
	RightBracket: "RIGHT_BRACKET",
	Comma:        "COMMA",
	Semicolon:    "SEMICOLON",
	Plus:         "PLUS",
	Minus:        "MINUS",
	Star:         "STAR",
	Slash:        "SLASH",
	Hash:         "HASHTAG",
	Caret:        "CARET",
	Bang:         "BANG",
	BangEqual:    "BANG_EQUAL",
	Equal:        "EQUAL",
	EqualEqual:   "EQUAL_EQUAL",
	Greater:      "GREATER",
	GreaterEqual: "GREATER_EQUAL",
	Less:         "LESS",
	LessEqual:    "LESS_EQUAL",
	LeftShift:    "LEFT_SHIFT",
	Identifier:   "IDENTIFIER",
	String:       "STRING",
	Number:       "NUMBER",
	Var:          "VAR",
	Print:        "PRINT",
	Nil:          "NIL",
	True:         "TRUE",
	False:        "FALSE",
	EOF:          "EOF",
}

func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Keywords maps reserved words to their token types.
var Keywords = map[string]Type{
	"var":   Var,
	"print": Print,
	"nil":   Nil,
	"true":  True,
	"false": False,
}

// Span represents a source location.
type Span struct {
	File string `json:"file" yaml:"file"`
	Line int    `json:"line" yaml:"line"`
	Col  int    `json:"col" yaml:"col"`
}

// Token is an immutable lexical unit.
// Literal holds the decoded value for String (string) and Number (float64)
// tokens and is nil otherwise.
type Token struct {
	Type    Type
	Lexeme  string
	Literal any
	Line    int
	Col     int
	File    string
}

// Span returns the token's source location.
func (t Token) Span() Span {
	return Span{File: t.File, Line: t.Line, Col: t.Col}
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %v", t.Type, t.Lexeme, t.Literal)
}
