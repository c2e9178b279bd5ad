package parser

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

type Kind int

const (
	KindEOF Kind = iota
	KindNumber
	KindID
	KindOp
	KindLParen
	KindRParen
	KindLBrace
	KindRBrace
	KindSemicolon
	KindComma
	KindColon
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindNumber:
		return "NUMBER"
	case KindID:
		return "ID"
	case KindOp:
		return "OP"
	case KindLParen:
		return "LPAREN"
	case KindRParen:
		return "RPAREN"
	case KindLBrace:
		return "LBRACE"
	case KindRBrace:
		return "RBRACE"
	case KindSemicolon:
		return "SEMICOLON"
	case KindComma:
		return "COMMA"
	case KindColon:
		return "COLON"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is one lexeme. Keywords are KindID tokens; the parser tells them
// apart by Lit.
type Token struct {
	Kind Kind
	Lit  string
	Line int
	Col  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q %d:%d", t.Kind, t.Lit, t.Line, t.Col)
}

type tokenSpec struct {
	name    string
	pattern string
	kind    Kind
	skip    bool
}

// Order is significant: the first alternative that matches at a position
// wins, so COMMENT must precede OP.
var tokenSpecs = []tokenSpec{
	{name: "COMMENT", pattern: `//.*`, skip: true},
	{name: "NUMBER", pattern: `\d+`, kind: KindNumber},
	{name: "ID", pattern: `[a-zA-Z_]\w*`, kind: KindID},
	{name: "OP", pattern: `[+\-*/=<>!]=?|==`, kind: KindOp},
	{name: "LPAREN", pattern: `\(`, kind: KindLParen},
	{name: "RPAREN", pattern: `\)`, kind: KindRParen},
	{name: "LBRACE", pattern: `\{`, kind: KindLBrace},
	{name: "RBRACE", pattern: `\}`, kind: KindRBrace},
	{name: "SEMICOLON", pattern: `;`, kind: KindSemicolon},
	{name: "COMMA", pattern: `,`, kind: KindComma},
	{name: "COLON", pattern: `:`, kind: KindColon},
	{name: "WS", pattern: `\s+`, skip: true},
}

var tokenRE = compileTokenRE()

func compileTokenRE() *regexp.Regexp {
	pattern := ""
	for i, spec := range tokenSpecs {
		if i > 0 {
			pattern += "|"
		}
		pattern += "(?P<" + spec.name + ">" + spec.pattern + ")"
	}
	return regexp.MustCompile(pattern)
}

// Tokenize never fails. Characters no alternative matches are dropped.
func Tokenize(src string) []Token {
	matches := tokenRE.FindAllStringSubmatchIndex(src, -1)
	toks := make([]Token, 0, len(matches))
	pos := cursor{line: 1, col: 1}
	for _, m := range matches {
		spec, ok := matchedSpec(m)
		if !ok || spec.skip {
			continue
		}
		pos.advance(src, m[0])
		toks = append(toks, Token{Kind: spec.kind, Lit: src[m[0]:m[1]], Line: pos.line, Col: pos.col})
	}
	return toks
}

func matchedSpec(m []int) (tokenSpec, bool) {
	for i, spec := range tokenSpecs {
		if m[2*(i+1)] >= 0 {
			return spec, true
		}
	}
	return tokenSpec{}, false
}

// cursor tracks the 1-based line and rune column of byte offset off. It only
// moves forward, so each byte of src is scanned once.
type cursor struct {
	off  int
	line int
	col  int
}

func (c *cursor) advance(src string, to int) {
	for c.off < to {
		r, size := utf8.DecodeRuneInString(src[c.off:])
		if r == '\n' {
			c.line++
			c.col = 1
		} else {
			c.col++
		}
		c.off += size
	}
}
