// Package ast defines the riverflow expression and statement trees.
//
// Both trees are closed variants: the sealed marker methods keep the set of
// node kinds inside this package, and consumers dispatch with type switches.
// Nodes are built once by the parser and never mutated.
package ast

import (
	"github.com/thomasrohde/riverflow/pkg/token"
	"github.com/thomasrohde/riverflow/pkg/value"
)

// Node is the interface implemented by all tree nodes.
type Node interface {
	Kind() string
}

// --- Expr is the interface for all expression nodes ---

type Expr interface {
	Node
	exprNode() // sealed marker
}

// --- Stmt is the interface for all statement nodes ---

type Stmt interface {
	Node
	stmtNode() // sealed marker
}

// --- Expressions ---

// Literal is a constant value written in the source.
type Literal struct {
	Value value.Value
}

func (n *Literal) Kind() string { return "Literal" }
func (n *Literal) exprNode()    {}

// Variable reads a binding from the scope chain.
type Variable struct {
	Name token.Token
}

func (n *Variable) Kind() string { return "Variable" }
func (n *Variable) exprNode()    {}

// Assign overwrites an existing binding and yields the assigned value.
type Assign struct {
	Name  token.Token
	Value Expr
}

func (n *Assign) Kind() string { return "Assign" }
func (n *Assign) exprNode()    {}

type Unary struct {
	Operator token.Token
	Right    Expr
}

func (n *Unary) Kind() string { return "Unary" }
func (n *Unary) exprNode()    {}

type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (n *Binary) Kind() string { return "Binary" }
func (n *Binary) exprNode()    {}

// Grouping is a parenthesized expression; it only affects parsing.
type Grouping struct {
	Expression Expr
}

func (n *Grouping) Kind() string { return "Grouping" }
func (n *Grouping) exprNode()    {}

// Distribution is a bracketed list of day values, e.g. [0.1, 0.5, 0.4].
type Distribution struct {
	Bracket  token.Token
	Elements []Expr
}

func (n *Distribution) Kind() string { return "Distribution" }
func (n *Distribution) exprNode()    {}

// --- Statements ---

type ExpressionStmt struct {
	Expression Expr
}

func (n *ExpressionStmt) Kind() string { return "ExpressionStmt" }
func (n *ExpressionStmt) stmtNode()    {}

type Print struct {
	Keyword    token.Token
	Expression Expr
}

func (n *Print) Kind() string { return "Print" }
func (n *Print) stmtNode()    {}

// VarDecl declares a binding in the current scope. Initializer may be nil.
type VarDecl struct {
	Name        token.Token
	Initializer Expr
}

func (n *VarDecl) Kind() string { return "VarDecl" }
func (n *VarDecl) stmtNode()    {}

type Block struct {
	Brace      token.Token
	Statements []Stmt
}

func (n *Block) Kind() string { return "Block" }
func (n *Block) stmtNode()    {}

// Program is an ordered sequence of top-level statements.
type Program struct {
	File       string
	Statements []Stmt
}

// Line returns the source line most closely associated with a statement,
// or 0 when none is recorded.
func Line(s Stmt) int {
	switch n := s.(type) {
	case *Print:
		return n.Keyword.Line
	case *VarDecl:
		return n.Name.Line
	case *Block:
		return n.Brace.Line
	case *ExpressionStmt:
		return exprLine(n.Expression)
	}
	return 0
}

func exprLine(e Expr) int {
	switch n := e.(type) {
	case *Variable:
		return n.Name.Line
	case *Assign:
		return n.Name.Line
	case *Unary:
		return n.Operator.Line
	case *Binary:
		return exprLine(n.Left)
	case *Grouping:
		return exprLine(n.Expression)
	case *Distribution:
		return n.Bracket.Line
	}
	return 0
}
