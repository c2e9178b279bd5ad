package parser

import (
	"strconv"

	"github.com/gosuda/minic/ast"
)

// Relational operators share the additive level on purpose: a + b < c - d
// groups as ((a + b) < c) - d.
func isExprOp(lit string) bool {
	switch lit {
	case "+", "-", "==", "!=", "<", ">", "<=", ">=":
		return true
	default:
		return false
	}
}

func isRelOp(lit string) bool {
	switch lit {
	case "==", "!=", "<", ">", "<=", ">=":
		return true
	default:
		return false
	}
}

func isTermOp(lit string) bool {
	return lit == "*" || lit == "/"
}

// ParseExpr parses src as a single expression.
func ParseExpr(src string) (ast.Expr, error) {
	p := New(Tokenize(src))
	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errorf("unexpected token after expression")
	}
	return e, nil
}

func (p *Parser) parseExpression() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for t := p.peek(); t.Kind == KindOp && isExprOp(t.Lit); t = p.peek() {
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: t.Lit, Left: left, Right: right}
	}
	return left, nil
}

// parseCondition is the for-loop test: terms joined by relational operators
// only.
func (p *Parser) parseCondition() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for t := p.peek(); t.Kind == KindOp && isRelOp(t.Lit); t = p.peek() {
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: t.Lit, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for t := p.peek(); t.Kind == KindOp && isTermOp(t.Lit); t = p.peek() {
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: t.Lit, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	if p.atEOF() {
		return nil, p.errorf("expected expression")
	}
	t := p.peek()
	switch t.Kind {
	case KindNumber:
		v, err := strconv.ParseInt(t.Lit, 10, 64)
		if err != nil {
			return nil, p.errorf("integer literal out of range")
		}
		p.next()
		return ast.IntLit{Value: v}, nil
	case KindID:
		p.next()
		if !p.peekLit("(") {
			return ast.Ident{Name: t.Lit}, nil
		}
		p.next()
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return ast.CallExpr{Name: t.Lit, Args: args}, nil
	case KindLParen:
		p.next()
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(KindRParen, ")"); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, p.errorf("unexpected token")
}

// parseArgs runs after "(" and consumes the closing ")".
func (p *Parser) parseArgs() ([]ast.Expr, error) {
	args := []ast.Expr{}
	if p.peekLit(")") {
		p.next()
		return args, nil
	}
	for {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if !p.peekLit(",") {
			break
		}
		p.next()
	}
	if _, err := p.expect(KindRParen, ")"); err != nil {
		return nil, err
	}
	return args, nil
}
