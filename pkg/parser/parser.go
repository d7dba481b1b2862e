// Package parser implements the riverflow parser.
package parser

import (
	"fmt"

	"github.com/thomasrohde/riverflow/pkg/ast"
	"github.com/thomasrohde/riverflow/pkg/diagnostics"
	"github.com/thomasrohde/riverflow/pkg/lexer"
	"github.com/thomasrohde/riverflow/pkg/token"
	"github.com/thomasrohde/riverflow/pkg/value"
)

type parser struct {
	tokens []token.Token
	pos    int
	diags  []diagnostics.Diagnostic
}

// Parse tokenizes source and parses it into a program.
// When any diagnostic is reported the program is nil.
func Parse(source, filename string) (*ast.Program, []diagnostics.Diagnostic) {
	tokens, err := lexer.Tokenize(source, filename)
	if err != nil {
		if le, ok := err.(*lexer.LexError); ok {
			return nil, []diagnostics.Diagnostic{le.Diag}
		}
		return nil, []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.ELex, err.Error(), nil, "")}
	}
	return ParseTokens(tokens, filename)
}

// ParseTokens parses an already scanned token stream ending in EOF.
func ParseTokens(tokens []token.Token, filename string) (*ast.Program, []diagnostics.Diagnostic) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		tokens = append(tokens, token.Token{Type: token.EOF, File: filename})
	}
	p := &parser{tokens: tokens, pos: 0}
	prog := p.parseProgram(filename)
	if len(p.diags) > 0 {
		return nil, p.diags
	}
	return prog, nil
}

func (p *parser) current() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *parser) peek() token.Type {
	return p.current().Type
}

func (p *parser) previous() token.Token {
	return p.tokens[p.pos-1]
}

func (p *parser) advance() token.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.peek() == t {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) expect(typ token.Type, msg string) (token.Token, bool) {
	tok := p.current()
	if tok.Type != typ {
		p.errorAt(tok, msg)
		return tok, false
	}
	return p.advance(), true
}

func (p *parser) errorAt(tok token.Token, msg string) {
	span := tok.Span()
	d := diagnostics.MakeDiag(diagnostics.EParse, msg, &span, "")
	if tok.Type == token.EOF {
		d.Hint = "reached end of file"
	} else {
		d.Lexeme = tok.Lexeme
	}
	p.diags = append(p.diags, d)
}

// synchronize discards tokens until a likely statement boundary.
func (p *parser) synchronize() {
	p.advance()
	for p.peek() != token.EOF {
		if p.previous().Type == token.Semicolon {
			return
		}
		switch p.peek() {
		case token.Var, token.Print, token.LeftBrace:
			return
		}
		p.advance()
	}
}

// --- Program ---

func (p *parser) parseProgram(filename string) *ast.Program {
	var stmts []ast.Stmt
	for p.peek() != token.EOF {
		stmt := p.parseDeclaration()
		if stmt == nil {
			p.synchronize()
			continue
		}
		stmts = append(stmts, stmt)
	}
	return &ast.Program{File: filename, Statements: stmts}
}

// --- Statements ---

func (p *parser) parseDeclaration() ast.Stmt {
	if p.peek() == token.Var {
		s := p.parseVarDecl()
		if s == nil {
			return nil
		}
		return s
	}
	return p.parseStatement()
}

func (p *parser) parseVarDecl() *ast.VarDecl {
	p.advance() // consume 'var'
	name, ok := p.expect(token.Identifier, "Expect variable name.")
	if !ok {
		return nil
	}

	var init ast.Expr
	if p.match(token.Equal) {
		init = p.parseExpr()
		if init == nil {
			return nil
		}
	}

	if _, ok := p.expect(token.Semicolon, "Expect ';' after variable declaration."); !ok {
		return nil
	}
	return &ast.VarDecl{Name: name, Initializer: init}
}

func (p *parser) parseStatement() ast.Stmt {
	switch p.peek() {
	case token.Print:
		s := p.parsePrint()
		if s == nil {
			return nil
		}
		return s
	case token.LeftBrace:
		s := p.parseBlock()
		if s == nil {
			return nil
		}
		return s
	default:
		s := p.parseExprStmt()
		if s == nil {
			return nil
		}
		return s
	}
}

func (p *parser) parsePrint() *ast.Print {
	keyword := p.advance() // consume 'print'
	expr := p.parseExpr()
	if expr == nil {
		return nil
	}
	if _, ok := p.expect(token.Semicolon, "Expect ';' after value."); !ok {
		return nil
	}
	return &ast.Print{Keyword: keyword, Expression: expr}
}

func (p *parser) parseExprStmt() *ast.ExpressionStmt {
	expr := p.parseExpr()
	if expr == nil {
		return nil
	}
	if _, ok := p.expect(token.Semicolon, "Expect ';' after expression."); !ok {
		return nil
	}
	return &ast.ExpressionStmt{Expression: expr}
}

// --- Block ---

// parseBlock parses a braced statement list. Errors inside the block are
// recovered from locally so the block's closing brace is still consumed.
func (p *parser) parseBlock() *ast.Block {
	brace := p.advance() // consume '{'
	var stmts []ast.Stmt
	for p.peek() != token.RightBrace && p.peek() != token.EOF {
		stmt := p.parseDeclaration()
		if stmt == nil {
			p.synchronizeInBlock()
			continue
		}
		stmts = append(stmts, stmt)
	}
	if _, ok := p.expect(token.RightBrace, "Expect '}' after block."); !ok {
		return nil
	}
	return &ast.Block{Brace: brace, Statements: stmts}
}

func (p *parser) synchronizeInBlock() {
	for p.peek() != token.EOF && p.peek() != token.RightBrace {
		tok := p.advance()
		if tok.Type == token.Semicolon {
			return
		}
		switch p.peek() {
		case token.Var, token.Print, token.LeftBrace:
			return
		}
	}
}

// --- Expressions ---

func (p *parser) parseExpr() ast.Expr {
	return p.parseAssignment()
}

func (p *parser) parseAssignment() ast.Expr {
	expr := p.parseEquality()
	if expr == nil {
		return nil
	}

	if p.peek() == token.Equal {
		equals := p.advance()
		val := p.parseAssignment()
		if val == nil {
			return nil
		}
		if v, ok := expr.(*ast.Variable); ok {
			return &ast.Assign{Name: v.Name, Value: val}
		}
		p.errorAt(equals, "Invalid assignment target.")
		return nil
	}

	return expr
}

// binaryLevel parses a left-associative chain of operators drawn from ops,
// with operands produced by next.
func (p *parser) binaryLevel(next func() ast.Expr, ops ...token.Type) ast.Expr {
	left := next()
	if left == nil {
		return nil
	}
	for p.match(ops...) {
		op := p.previous()
		right := next()
		if right == nil {
			return nil
		}
		left = &ast.Binary{Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *parser) parseEquality() ast.Expr {
	return p.binaryLevel(p.parseComparison, token.BangEqual, token.EqualEqual)
}

func (p *parser) parseComparison() ast.Expr {
	return p.binaryLevel(p.parseFlow, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *parser) parseFlow() ast.Expr {
	return p.binaryLevel(p.parseTerm, token.LeftShift)
}

func (p *parser) parseTerm() ast.Expr {
	return p.binaryLevel(p.parseFactor, token.Minus, token.Plus)
}

func (p *parser) parseFactor() ast.Expr {
	return p.binaryLevel(p.parseSynthesis, token.Slash, token.Star, token.Hash)
}

func (p *parser) parseSynthesis() ast.Expr {
	return p.binaryLevel(p.parseUnary, token.Caret)
}

func (p *parser) parseUnary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right := p.parseUnary()
		if right == nil {
			return nil
		}
		return &ast.Unary{Operator: op, Right: right}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() ast.Expr {
	tok := p.current()
	switch tok.Type {
	case token.False:
		p.advance()
		return &ast.Literal{Value: value.NewBool(false)}
	case token.True:
		p.advance()
		return &ast.Literal{Value: value.NewBool(true)}
	case token.Nil:
		p.advance()
		return &ast.Literal{Value: value.NewNil()}

	case token.Number:
		p.advance()
		n, _ := tok.Literal.(float64)
		return &ast.Literal{Value: value.NewNumber(n)}

	case token.String:
		p.advance()
		s, _ := tok.Literal.(string)
		return &ast.Literal{Value: value.NewText(s)}

	case token.Identifier:
		p.advance()
		return &ast.Variable{Name: tok}

	case token.LeftParen:
		p.advance()
		expr := p.parseExpr()
		if expr == nil {
			return nil
		}
		if _, ok := p.expect(token.RightParen, "Expect ')' after expression."); !ok {
			return nil
		}
		return &ast.Grouping{Expression: expr}

	case token.LeftBracket:
		return p.parseDistribution()

	default:
		p.errorAt(tok, "Expect expression.")
		return nil
	}
}

func (p *parser) parseDistribution() ast.Expr {
	bracket := p.advance() // consume '['
	var elements []ast.Expr

	if p.peek() != token.RightBracket {
		for {
			elem := p.parseExpr()
			if elem == nil {
				return nil
			}
			elements = append(elements, elem)
			if !p.match(token.Comma) {
				break
			}
		}
	}

	if _, ok := p.expect(token.RightBracket, fmt.Sprintf("Expect ']' after %d distribution element(s).", len(elements))); !ok {
		return nil
	}
	return &ast.Distribution{Bracket: bracket, Elements: elements}
}
