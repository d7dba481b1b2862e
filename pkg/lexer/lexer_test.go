package lexer

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/thomasrohde/riverflow/pkg/diagnostics"
	"github.com/thomasrohde/riverflow/pkg/token"
)

// helper to tokenize and fail on error
func mustTokenize(t *testing.T, source string) []token.Token {
	t.Helper()
	tokens, err := Tokenize(source, "test.rf")
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	return tokens
}

// helper that strips the trailing EOF for easier assertions
func mustTokenizeNoEOF(t *testing.T, source string) []token.Token {
	t.Helper()
	tokens := mustTokenize(t, source)
	if len(tokens) == 0 {
		t.Fatal("expected at least one token (EOF)")
	}
	if tokens[len(tokens)-1].Type != token.EOF {
		t.Fatal("last token is not EOF")
	}
	return tokens[:len(tokens)-1]
}

func types(tokens []token.Token) []token.Type {
	out := make([]token.Type, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

// ---------------------------------------------------------------------------
// Test: empty input produces only EOF
// ---------------------------------------------------------------------------
func TestEmptyInput(t *testing.T) {
	tokens := mustTokenize(t, "")
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token (EOF), got %d", len(tokens))
	}
	if tokens[0].Type != token.EOF {
		t.Errorf("expected EOF, got %v", tokens[0].Type)
	}
}

// ---------------------------------------------------------------------------
// Test: keywords and identifiers
// ---------------------------------------------------------------------------
func TestKeywords(t *testing.T) {
	tests := []struct {
		keyword  string
		expected token.Type
	}{
		{"var", token.Var},
		{"print", token.Print},
		{"nil", token.Nil},
		{"true", token.True},
		{"false", token.False},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.keyword)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Type != tt.expected {
				t.Errorf("expected %v for %q, got %v", tt.expected, tt.keyword, tokens[0].Type)
			}
		})
	}
}

func TestKeywordPrefixIsIdentifier(t *testing.T) {
	for _, src := range []string{"variable", "printer", "nils", "true_", "_false", "flow2"} {
		tokens := mustTokenizeNoEOF(t, src)
		if len(tokens) != 1 || tokens[0].Type != token.Identifier {
			t.Errorf("%q: expected single identifier, got %v", src, types(tokens))
		}
		if tokens[0].Lexeme != src {
			t.Errorf("%q: lexeme = %q", src, tokens[0].Lexeme)
		}
	}
}

// ---------------------------------------------------------------------------
// Test: number literals carry float64 values
// ---------------------------------------------------------------------------
func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input string
		value float64
	}{
		{"0", 0},
		{"42", 42},
		{"3.14", 3.14},
		{"11.4", 11.4},
		{"0.05", 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			if len(tokens) != 1 || tokens[0].Type != token.Number {
				t.Fatalf("expected single number, got %v", types(tokens))
			}
			if tokens[0].Literal != tt.value {
				t.Errorf("literal = %v, want %v", tokens[0].Literal, tt.value)
			}
		})
	}
}

// A trailing dot is not part of the number.
func TestNumberTrailingDot(t *testing.T) {
	_, err := Tokenize("12.", "test.rf")
	if err == nil {
		t.Fatal("expected error for stray '.'")
	}
}

// ---------------------------------------------------------------------------
// Test: strings
// ---------------------------------------------------------------------------
func TestStringLiteral(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, `"river flow"`)
	if len(tokens) != 1 || tokens[0].Type != token.String {
		t.Fatalf("expected single string, got %v", types(tokens))
	}
	if tokens[0].Literal != "river flow" {
		t.Errorf("literal = %v", tokens[0].Literal)
	}
	if tokens[0].Lexeme != `"river flow"` {
		t.Errorf("lexeme = %q", tokens[0].Lexeme)
	}
}

func TestMultilineStringAdvancesLine(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "\"a\nb\" x")
	if tokens[0].Literal != "a\nb" {
		t.Errorf("literal = %q", tokens[0].Literal)
	}
	if tokens[1].Line != 2 {
		t.Errorf("identifier after multi-line string on line %d, want 2", tokens[1].Line)
	}
}

func TestUnterminatedString(t *testing.T) {
	_, err := Tokenize(`"open`, "test.rf")
	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LexError, got %T: %v", err, err)
	}
	if le.Diag.Code != diagnostics.ELex {
		t.Errorf("code = %q", le.Diag.Code)
	}
	if le.Diag.Message != "Unterminated string." {
		t.Errorf("message = %q", le.Diag.Message)
	}
}

// ---------------------------------------------------------------------------
// Test: operators, including the distribution operators
// ---------------------------------------------------------------------------
func TestSingleCharTokens(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "(){}[],;+-*/#^")
	want := []token.Type{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.LeftBracket, token.RightBracket, token.Comma, token.Semicolon,
		token.Plus, token.Minus, token.Star, token.Slash, token.Hash, token.Caret,
	}
	got := types(tokens)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMultiCharOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected token.Type
	}{
		{"!", token.Bang},
		{"!=", token.BangEqual},
		{"=", token.Equal},
		{"==", token.EqualEqual},
		{">", token.Greater},
		{">=", token.GreaterEqual},
		{"<", token.Less},
		{"<=", token.LessEqual},
		{"<<", token.LeftShift},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Type != tt.expected {
				t.Errorf("expected %v for %q, got %v", tt.expected, tt.input, tokens[0].Type)
			}
			if tokens[0].Lexeme != tt.input {
				t.Errorf("lexeme = %q, want %q", tokens[0].Lexeme, tt.input)
			}
		})
	}
}

func TestLeftShiftDisambiguation(t *testing.T) {
	got := types(mustTokenizeNoEOF(t, "< <"))
	if len(got) != 2 || got[0] != token.Less || got[1] != token.Less {
		t.Errorf("'< <' = %v, want LESS LESS", got)
	}
	got = types(mustTokenizeNoEOF(t, "<<="))
	if len(got) != 2 || got[0] != token.LeftShift || got[1] != token.Equal {
		t.Errorf("'<<=' = %v, want LEFT_SHIFT EQUAL", got)
	}
}

// ---------------------------------------------------------------------------
// Test: comments and positions
// ---------------------------------------------------------------------------
func TestLineComment(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "var a = 1; // the rest is ignored # ^ <<\nprint a;")
	got := types(tokens)
	want := []token.Type{
		token.Var, token.Identifier, token.Equal, token.Number, token.Semicolon,
		token.Print, token.Identifier, token.Semicolon,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if tokens[5].Line != 2 {
		t.Errorf("print on line %d, want 2", tokens[5].Line)
	}
}

func TestSlashIsNotComment(t *testing.T) {
	got := types(mustTokenizeNoEOF(t, "6 / 3"))
	if len(got) != 3 || got[1] != token.Slash {
		t.Errorf("got %v", got)
	}
}

func TestPositions(t *testing.T) {
	tokens := mustTokenize(t, "var x\n  = 2;")
	if tokens[0].Line != 1 || tokens[0].Col != 1 {
		t.Errorf("var at %d:%d", tokens[0].Line, tokens[0].Col)
	}
	if tokens[2].Line != 2 || tokens[2].Col != 3 {
		t.Errorf("'=' at %d:%d, want 2:3", tokens[2].Line, tokens[2].Col)
	}
	if tokens[0].File != "test.rf" {
		t.Errorf("file = %q", tokens[0].File)
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	_, err := Tokenize("var a = 1 @ 2;", "test.rf")
	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LexError, got %T", err)
	}
	if !strings.Contains(le.Diag.Message, "'@'") {
		t.Errorf("message = %q", le.Diag.Message)
	}
	if le.Diag.Span == nil || le.Diag.Span.Col != 11 {
		t.Errorf("span = %+v, want col 11", le.Diag.Span)
	}
}

func TestUnexpectedCharacter_Multibyte(t *testing.T) {
	for _, src := range []string{"print 1 × 2;", "var ñ = 1;", "print 💧;"} {
		_, err := Tokenize(src, "test.rf")
		var le *LexError
		if !errors.As(err, &le) {
			t.Fatalf("%q: expected *LexError, got %T", src, err)
		}
		if !utf8.ValidString(le.Diag.Message) {
			t.Errorf("%q: message is not valid UTF-8: %q", src, le.Diag.Message)
		}
	}

	_, err := Tokenize("print 1 × 2;", "test.rf")
	var le *LexError
	errors.As(err, &le)
	if le.Diag.Message != "Unexpected character '×'." {
		t.Errorf("message = %q", le.Diag.Message)
	}
	if le.Diag.Span == nil || le.Diag.Span.Col != 9 {
		t.Errorf("span = %+v, want col 9", le.Diag.Span)
	}
}

func TestDistributionProgram(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "print ((2 ^ 1.5) # 3) << (4 ^ 2);")
	count := map[token.Type]int{}
	for _, tok := range tokens {
		count[tok.Type]++
	}
	if count[token.Caret] != 2 || count[token.Hash] != 1 || count[token.LeftShift] != 1 {
		t.Errorf("operator counts = %v", count)
	}
}
