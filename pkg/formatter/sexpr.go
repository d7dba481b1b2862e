package formatter

import (
	"strings"

	"github.com/thomasrohde/riverflow/pkg/ast"
	"github.com/thomasrohde/riverflow/pkg/value"
)

// SExpr renders an expression in parenthesized prefix form,
// e.g. (* (- 123) (group 45.67)).
func SExpr(e ast.Expr) string {
	switch expr := e.(type) {
	case *ast.Literal:
		if expr.Value == nil {
			return "nil"
		}
		return value.Display(expr.Value)
	case *ast.Variable:
		return expr.Name.Lexeme
	case *ast.Assign:
		return parenthesize("assign "+expr.Name.Lexeme, expr.Value)
	case *ast.Unary:
		return parenthesize(expr.Operator.Lexeme, expr.Right)
	case *ast.Binary:
		return parenthesize(expr.Operator.Lexeme, expr.Left, expr.Right)
	case *ast.Grouping:
		return parenthesize("group", expr.Expression)
	case *ast.Distribution:
		return parenthesize("flow", expr.Elements...)
	}
	return ""
}

// Dump renders every statement of a program, one form per line. Blocks
// open with "{block" and close with "}" on their own lines.
func Dump(program *ast.Program) string {
	var b strings.Builder
	for _, s := range program.Statements {
		dumpStmt(&b, s)
	}
	return b.String()
}

func dumpStmt(b *strings.Builder, s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.VarDecl:
		if stmt.Initializer == nil {
			b.WriteString(parenthesize("var " + stmt.Name.Lexeme))
		} else {
			b.WriteString(parenthesize("var "+stmt.Name.Lexeme, stmt.Initializer))
		}
	case *ast.Print:
		b.WriteString(parenthesize("print", stmt.Expression))
	case *ast.ExpressionStmt:
		b.WriteString(parenthesize("expr", stmt.Expression))
	case *ast.Block:
		b.WriteString("{block\n")
		for _, inner := range stmt.Statements {
			dumpStmt(b, inner)
		}
		b.WriteString("}")
	}
	b.WriteByte('\n')
}

func parenthesize(name string, exprs ...ast.Expr) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(name)
	for _, e := range exprs {
		if e != nil {
			b.WriteString(" ")
			b.WriteString(SExpr(e))
		}
	}
	b.WriteString(")")
	return b.String()
}
