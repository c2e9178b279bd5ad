package parser

import (
	"fmt"

	"github.com/gosuda/minic/ast"
)

type Parser struct {
	tokens []Token
	pos    int
}

func New(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseSource tokenizes and parses src in one step.
func ParseSource(src string) (*ast.Program, error) {
	return Parse(Tokenize(src))
}

func Parse(tokens []Token) (*ast.Program, error) {
	return New(tokens).ParseProgram()
}

// ParseProgram consumes every token. Anything left after the last top level
// statement (a stray "}" or "return") is an error.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	body, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errorf("unexpected %q at top level", p.peek().Lit)
	}
	return &ast.Program{Body: body}, nil
}

func (p *Parser) atEOF() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) peek() Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return Token{Kind: KindEOF}
	}
	return p.tokens[p.pos+offset]
}

func (p *Parser) next() Token {
	t := p.peek()
	if !p.atEOF() {
		p.pos++
	}
	return t
}

func (p *Parser) peekLit(lit string) bool {
	return !p.atEOF() && p.tokens[p.pos].Lit == lit
}

// errorf reports at the current token, or at end of input.
func (p *Parser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if p.atEOF() {
		return &SyntaxError{AtEOF: true, Msg: msg}
	}
	return &SyntaxError{Token: p.peek(), Msg: msg}
}

func (p *Parser) expect(kind Kind, lit string) (Token, error) {
	want := lit
	if want == "" {
		want = kind.String()
	}
	if p.atEOF() {
		return Token{}, p.errorf("expected %q", want)
	}
	t := p.peek()
	if t.Kind != kind || (lit != "" && t.Lit != lit) {
		return Token{}, p.errorf("expected %q", want)
	}
	p.pos++
	return t, nil
}

func (p *Parser) expectName(what string) (string, error) {
	if p.atEOF() || p.peek().Kind != KindID {
		return "", p.errorf("expected %s", what)
	}
	return p.next().Lit, nil
}

// parseStatementList stops before "}" or "return" without consuming them.
func (p *Parser) parseStatementList() ([]ast.Statement, error) {
	stmts := []ast.Statement{}
	for !p.atEOF() && !p.peekLit("}") && !p.peekLit("return") {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) parseBlock() ([]ast.Statement, error) {
	if _, err := p.expect(KindLBrace, "{"); err != nil {
		return nil, err
	}
	body, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindRBrace, "}"); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	if p.atEOF() {
		return nil, p.errorf("expected statement")
	}
	t := p.peek()
	if t.Kind != KindID {
		return nil, p.errorf("unexpected token")
	}
	switch t.Lit {
	case "int":
		return p.parseVarDecl()
	case "if":
		return p.parseIf()
	case "for":
		return p.parseFor()
	case "def":
		return p.parseFuncDef()
	case "print":
		return p.parsePrint()
	case "input":
		return p.parseBareInput()
	}
	switch p.peekAt(1).Lit {
	case "=":
		return p.parseAssign(true)
	case "(":
		return p.parseCallStmt()
	}
	return nil, p.errorf("unexpected token")
}

func (p *Parser) parseVarDecl() (ast.VarDecl, error) {
	p.next()
	name, err := p.expectName("variable name")
	if err != nil {
		return ast.VarDecl{}, err
	}
	decl := ast.VarDecl{Name: name}
	if p.peekLit("=") {
		p.next()
		decl.Value, err = p.parseExpression()
		if err != nil {
			return ast.VarDecl{}, err
		}
	}
	if _, err := p.expect(KindSemicolon, ";"); err != nil {
		return ast.VarDecl{}, err
	}
	return decl, nil
}

func (p *Parser) parseAssign(terminated bool) (ast.AssignStmt, error) {
	name, err := p.expectName("variable name")
	if err != nil {
		return ast.AssignStmt{}, err
	}
	if _, err := p.expect(KindOp, "="); err != nil {
		return ast.AssignStmt{}, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return ast.AssignStmt{}, err
	}
	if terminated {
		if _, err := p.expect(KindSemicolon, ";"); err != nil {
			return ast.AssignStmt{}, err
		}
	}
	return ast.AssignStmt{Name: name, Value: value}, nil
}

func (p *Parser) parseIf() (ast.IfStmt, error) {
	p.next()
	if _, err := p.expect(KindLParen, "("); err != nil {
		return ast.IfStmt{}, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return ast.IfStmt{}, err
	}
	if _, err := p.expect(KindRParen, ")"); err != nil {
		return ast.IfStmt{}, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return ast.IfStmt{}, err
	}
	stmt := ast.IfStmt{Cond: cond, Then: then}
	if p.peekLit("else") {
		p.next()
		stmt.Else, err = p.parseBlock()
		if err != nil {
			return ast.IfStmt{}, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseFor() (ast.ForStmt, error) {
	p.next()
	if _, err := p.expect(KindLParen, "("); err != nil {
		return ast.ForStmt{}, err
	}
	var (
		init ast.Statement
		err  error
	)
	if p.peekLit("int") {
		init, err = p.parseVarDecl()
	} else {
		init, err = p.parseAssign(true)
	}
	if err != nil {
		return ast.ForStmt{}, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return ast.ForStmt{}, err
	}
	if _, err := p.expect(KindSemicolon, ";"); err != nil {
		return ast.ForStmt{}, err
	}
	post, err := p.parseAssign(false)
	if err != nil {
		return ast.ForStmt{}, err
	}
	if _, err := p.expect(KindRParen, ")"); err != nil {
		return ast.ForStmt{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return ast.ForStmt{}, err
	}
	return ast.ForStmt{Init: init, Cond: cond, Post: post, Body: body}, nil
}

func (p *Parser) parseFuncDef() (ast.FuncDef, error) {
	p.next()
	name, err := p.expectName("function name")
	if err != nil {
		return ast.FuncDef{}, err
	}
	if _, err := p.expect(KindLParen, "("); err != nil {
		return ast.FuncDef{}, err
	}
	params := []string{}
	if !p.peekLit(")") {
		for {
			if _, err := p.expect(KindID, "int"); err != nil {
				return ast.FuncDef{}, err
			}
			param, err := p.expectName("parameter name")
			if err != nil {
				return ast.FuncDef{}, err
			}
			params = append(params, param)
			if !p.peekLit(",") {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(KindRParen, ")"); err != nil {
		return ast.FuncDef{}, err
	}
	if _, err := p.expect(KindLBrace, "{"); err != nil {
		return ast.FuncDef{}, err
	}
	body, err := p.parseStatementList()
	if err != nil {
		return ast.FuncDef{}, err
	}
	fn := ast.FuncDef{Name: name, Params: params, Body: body}
	if p.peekLit("return") {
		p.next()
		fn.Return, err = p.parseExpression()
		if err != nil {
			return ast.FuncDef{}, err
		}
		if _, err := p.expect(KindSemicolon, ";"); err != nil {
			return ast.FuncDef{}, err
		}
	}
	if _, err := p.expect(KindRBrace, "}"); err != nil {
		return ast.FuncDef{}, err
	}
	return fn, nil
}

func (p *Parser) parsePrint() (ast.PrintStmt, error) {
	p.next()
	if _, err := p.expect(KindLParen, "("); err != nil {
		return ast.PrintStmt{}, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return ast.PrintStmt{}, err
	}
	if _, err := p.expect(KindRParen, ")"); err != nil {
		return ast.PrintStmt{}, err
	}
	if _, err := p.expect(KindSemicolon, ";"); err != nil {
		return ast.PrintStmt{}, err
	}
	return ast.PrintStmt{Expr: expr}, nil
}

func (p *Parser) parseBareInput() (ast.InputStmt, error) {
	p.next()
	if _, err := p.expect(KindLParen, "("); err != nil {
		return ast.InputStmt{}, err
	}
	if _, err := p.expect(KindRParen, ")"); err != nil {
		return ast.InputStmt{}, err
	}
	if _, err := p.expect(KindSemicolon, ";"); err != nil {
		return ast.InputStmt{}, err
	}
	return ast.InputStmt{}, nil
}

func (p *Parser) parseCallStmt() (ast.CallStmt, error) {
	name := p.next().Lit
	p.next()
	args, err := p.parseArgs()
	if err != nil {
		return ast.CallStmt{}, err
	}
	if _, err := p.expect(KindSemicolon, ";"); err != nil {
		return ast.CallStmt{}, err
	}
	return ast.CallStmt{Name: name, Args: args}, nil
}
