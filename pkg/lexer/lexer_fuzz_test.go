package lexer

import (
	"testing"

	"github.com/thomasrohde/riverflow/pkg/token"
)

// FuzzTokenize feeds random inputs to the lexer to catch panics.
// The lexer must not panic; invalid input yields an error.
func FuzzTokenize(f *testing.F) {
	seeds := []string{
		// Keywords
		`var print nil true false`,
		// Literals
		`42 3.14 0 11.4`,
		`"hello" "multi
line"`,
		// Operators
		`+ - * / > < >= <= == != ! = << # ^`,
		// Delimiters
		`( ) { } [ ] , ;`,
		// Comments
		`// this is a comment`,
		// Programs
		`var x = 10; { var x = 20; } print x;`,
		`print ((2 ^ 1) # 3) << [0, 0, 0, 0, 0, 0, 0, 0, 0, 0];`,
		// Edge cases
		``,
		`   `,
		"\t\n\r",
		`"unterminated`,
		`"""`,
		`@$&`,
		`\x00`,
		`1.`,
		`.5`,
		`<<<`,
		`/`,
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Tokenize panicked on input %q: %v", input, r)
				}
			}()
			tokens, err := Tokenize(input, "fuzz.rf")
			if err == nil && (len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF) {
				t.Fatalf("token stream for %q does not end with EOF", input)
			}
		}()
	})
}
