package parser

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func kindsAndLits(toks []Token) ([]Kind, []string) {
	kinds := make([]Kind, 0, len(toks))
	lits := make([]string, 0, len(toks))
	for _, t := range toks {
		kinds = append(kinds, t.Kind)
		lits = append(lits, t.Lit)
	}
	return kinds, lits
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []Kind
		lits  []string
	}{
		{
			name:  "declaration",
			src:   "int a = 10;",
			kinds: []Kind{KindID, KindID, KindOp, KindNumber, KindSemicolon},
			lits:  []string{"int", "a", "=", "10", ";"},
		},
		{
			name:  "relational operators",
			src:   "a<=b>=c==d!=e<f>g",
			kinds: []Kind{KindID, KindOp, KindID, KindOp, KindID, KindOp, KindID, KindOp, KindID, KindOp, KindID, KindOp, KindID},
			lits:  []string{"a", "<=", "b", ">=", "c", "==", "d", "!=", "e", "<", "f", ">", "g"},
		},
		{
			name:  "comment wins over division",
			src:   "a / b // c / d\ne",
			kinds: []Kind{KindID, KindOp, KindID, KindID},
			lits:  []string{"a", "/", "b", "e"},
		},
		{
			name:  "lone bang is an operator",
			src:   "a ! b",
			kinds: []Kind{KindID, KindOp, KindID},
			lits:  []string{"a", "!", "b"},
		},
		{
			name:  "punctuation",
			src:   "f(a, b){}:",
			kinds: []Kind{KindID, KindLParen, KindID, KindComma, KindID, KindRParen, KindLBrace, KindRBrace, KindColon},
			lits:  []string{"f", "(", "a", ",", "b", ")", "{", "}", ":"},
		},
		{
			name:  "unknown characters dropped",
			src:   "a @ $ b",
			kinds: []Kind{KindID, KindID},
			lits:  []string{"a", "b"},
		},
		{
			name:  "number then identifier",
			src:   "12abc _x1",
			kinds: []Kind{KindNumber, KindID, KindID},
			lits:  []string{"12", "abc", "_x1"},
		},
		{
			name:  "empty",
			src:   "  \n\t// only a comment",
			kinds: []Kind{},
			lits:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kinds, lits := kindsAndLits(Tokenize(tt.src))
			if !reflect.DeepEqual(kinds, tt.kinds) {
				t.Fatalf("kinds: expected %v, got %v", tt.kinds, kinds)
			}
			if !reflect.DeepEqual(lits, tt.lits) {
				t.Fatalf("lits: expected %q, got %q", tt.lits, lits)
			}
		})
	}
}

func TestTokenPositions(t *testing.T) {
	toks := Tokenize("int a;\n  print(a);")
	want := [][2]int{{1, 1}, {1, 5}, {1, 6}, {2, 3}, {2, 8}, {2, 9}, {2, 10}, {2, 11}}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(toks))
	}
	for i, tok := range toks {
		if tok.Line != want[i][0] || tok.Col != want[i][1] {
			t.Fatalf("token %d %q: expected %d:%d, got %d:%d", i, tok.Lit, want[i][0], want[i][1], tok.Line, tok.Col)
		}
	}
}

func TestTokenColumnsCountRunes(t *testing.T) {
	toks := Tokenize("é x")
	if len(toks) != 1 || toks[0].Lit != "x" || toks[0].Col != 3 {
		t.Fatalf("unexpected tokens: %v", toks)
	}
}

func TestTokenPositionsOnLongLine(t *testing.T) {
	const n = 20000
	src := strings.Repeat("print(1); ", n) + "\né x"
	start := time.Now()
	toks := Tokenize(src)
	elapsed := time.Since(start)
	if len(toks) != 5*n+1 {
		t.Fatalf("expected %d tokens, got %d", 5*n+1, len(toks))
	}
	last := toks[5*n-1]
	if last.Lit != ";" || last.Line != 1 || last.Col != 10*(n-1)+9 {
		t.Fatalf("unexpected last token on line 1: %v", last)
	}
	if x := toks[5*n]; x.Lit != "x" || x.Line != 2 || x.Col != 3 {
		t.Fatalf("unexpected token on line 2: %v", x)
	}
	// 200KB on one line used to take seconds.
	if elapsed > 2*time.Second {
		t.Fatalf("tokenizing %d bytes took %v", len(src), elapsed)
	}
}
