// Package formatter renders riverflow trees back to source text and to the
// parenthesized S-expression form used for debugging the parser.
package formatter

import (
	"strconv"
	"strings"

	"github.com/thomasrohde/riverflow/pkg/ast"
	"github.com/thomasrohde/riverflow/pkg/value"
)

const indent = "  "

// Format pretty-prints a program back to canonical source code.
func Format(program *ast.Program) string {
	lines := make([]string, 0, len(program.Statements))
	for _, s := range program.Statements {
		lines = append(lines, formatStmt(s, 0))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// HasComments checks if a source string contains // comments outside of
// string literals.
func HasComments(source string) bool {
	inString := false
	for i := 0; i < len(source); i++ {
		switch {
		case source[i] == '"':
			inString = !inString
		case !inString && source[i] == '/' && i+1 < len(source) && source[i+1] == '/':
			return true
		}
	}
	return false
}

func formatStmt(s ast.Stmt, depth int) string {
	prefix := strings.Repeat(indent, depth)
	switch stmt := s.(type) {
	case *ast.VarDecl:
		if stmt.Initializer == nil {
			return prefix + "var " + stmt.Name.Lexeme + ";"
		}
		return prefix + "var " + stmt.Name.Lexeme + " = " + formatExpr(stmt.Initializer, depth) + ";"
	case *ast.Print:
		return prefix + "print " + formatExpr(stmt.Expression, depth) + ";"
	case *ast.ExpressionStmt:
		return prefix + formatExpr(stmt.Expression, depth) + ";"
	case *ast.Block:
		if len(stmt.Statements) == 0 {
			return prefix + "{}"
		}
		return prefix + "{\n" + formatBlock(stmt.Statements, depth) + "\n" + prefix + "}"
	}
	return ""
}

func formatBlock(stmts []ast.Stmt, depth int) string {
	lines := make([]string, len(stmts))
	for i, s := range stmts {
		lines[i] = formatStmt(s, depth+1)
	}
	return strings.Join(lines, "\n")
}

func formatExpr(e ast.Expr, depth int) string {
	switch expr := e.(type) {
	case *ast.Literal:
		return formatLiteral(expr.Value)
	case *ast.Variable:
		return expr.Name.Lexeme
	case *ast.Assign:
		return expr.Name.Lexeme + " = " + formatExpr(expr.Value, depth)
	case *ast.Unary:
		return expr.Operator.Lexeme + formatExpr(expr.Right, depth)
	case *ast.Binary:
		return formatExpr(expr.Left, depth) + " " + expr.Operator.Lexeme + " " + formatExpr(expr.Right, depth)
	case *ast.Grouping:
		return "(" + formatExpr(expr.Expression, depth) + ")"
	case *ast.Distribution:
		return formatDistribution(expr, depth)
	}
	return ""
}

// formatLiteral writes literals in a form the lexer accepts: numbers are
// always plain decimals, never exponent notation.
func formatLiteral(v value.Value) string {
	switch val := v.(type) {
	case value.Number:
		return strconv.FormatFloat(val.Value, 'f', -1, 64)
	case value.Text:
		return `"` + val.Value + `"`
	default:
		return value.Display(v)
	}
}

func formatDistribution(d *ast.Distribution, depth int) string {
	if len(d.Elements) == 0 {
		return "[]"
	}

	// Try inline first
	inlineParts := make([]string, len(d.Elements))
	for i, e := range d.Elements {
		inlineParts[i] = formatExpr(e, depth+1)
	}
	inline := "[" + strings.Join(inlineParts, ", ") + "]"
	if len(inline) <= 72 {
		return inline
	}

	// Multi-line
	inner := strings.Repeat(indent, depth+1)
	outer := strings.Repeat(indent, depth)
	parts := make([]string, len(d.Elements))
	for i, e := range d.Elements {
		parts[i] = inner + formatExpr(e, depth+1)
	}
	return "[\n" + strings.Join(parts, ",\n") + "\n" + outer + "]"
}
