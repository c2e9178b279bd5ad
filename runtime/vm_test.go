package mruntime

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"fortio.org/log"

	"github.com/gosuda/minic/ast"
)

type strayStmt struct{ ast.PrintStmt }

type strayExpr struct{ ast.IntLit }

func prog(stmts ...ast.Statement) *ast.Program {
	return &ast.Program{Body: stmts}
}

func printStmt(e ast.Expr) ast.PrintStmt { return ast.PrintStmt{Expr: e} }

func lit(v int64) ast.IntLit { return ast.IntLit{Value: v} }

func texts(out []Output) []string {
	s := make([]string, 0, len(out))
	for _, o := range out {
		s = append(s, o.Text)
	}
	return s
}

func TestValueString(t *testing.T) {
	if Int(-3).String() != "-3" || Bool(true).String() != "true" || Bool(false).String() != "false" {
		t.Fatalf("unexpected value rendering")
	}
	if Bool(true).Int64() != 1 || Bool(false).Int64() != 0 {
		t.Fatalf("booleans must count as 0/1")
	}
	if Int(0).Truthy() || !Int(-1).Truthy() || Bool(false).Truthy() {
		t.Fatalf("unexpected truthiness")
	}
}

func TestFloorDiv(t *testing.T) {
	cases := [][3]int64{
		{7, 2, 3}, {-7, 2, -4}, {7, -2, -4}, {-7, -2, 3}, {-6, 3, -2}, {0, 5, 0},
	}
	for _, c := range cases {
		if got := floorDiv(c[0], c[1]); got != c[2] {
			t.Fatalf("%d / %d: expected %d, got %d", c[0], c[1], c[2], got)
		}
	}
}

func TestUnknownNodes(t *testing.T) {
	tests := []struct {
		name string
		p    *ast.Program
	}{
		{"statement", prog(strayStmt{})},
		{"expression", prog(printStmt(strayExpr{}))},
		{"operator", prog(printStmt(ast.BinaryExpr{Op: "%", Left: lit(1), Right: lit(2)}))},
	}
	for _, tt := range tests {
		vm, err := New(tt.p)
		if err != nil {
			t.Fatalf("new vm: %v", err)
		}
		if _, err := vm.Run(); !errors.Is(err, ErrUnknownNodeKind) {
			t.Fatalf("%s: expected unknown node kind, got %v", tt.name, err)
		}
	}
}

func TestEnqueueInput(t *testing.T) {
	p := prog(
		ast.InputStmt{Target: "a"},
		printStmt(ast.Ident{Name: "a"}),
		ast.InputStmt{},
		printStmt(ast.CallExpr{Name: "input"}),
	)
	vm, err := New(p)
	if err != nil {
		t.Fatalf("new vm: %v", err)
	}
	vm.EnqueueInput("41", "skip-me-not", "7")
	_, err = vm.Run()
	if !errors.Is(err, ErrInputFormat) {
		t.Fatalf("bare input should read and reject a non-integer line, got %v", err)
	}

	vm.Reset()
	vm.EnqueueInput("41", "0", "7")
	out, err := vm.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := strings.Join(texts(out), ","); got != "41,7" {
		t.Fatalf("unexpected output: %s", got)
	}
}

func TestQueuedInputBeforeProvider(t *testing.T) {
	calls := 0
	vm, err := New(prog(
		printStmt(ast.CallExpr{Name: "input"}),
		printStmt(ast.CallExpr{Name: "input"}),
	), WithInputProvider(func(req InputRequest) (string, error) {
		calls++
		return " -5 ", nil
	}))
	if err != nil {
		t.Fatalf("new vm: %v", err)
	}
	vm.EnqueueInput("1")
	out, err := vm.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := strings.Join(texts(out), ","); got != "1,-5" || calls != 1 {
		t.Fatalf("unexpected output %s after %d provider calls", got, calls)
	}
}

func TestInputProviderEOF(t *testing.T) {
	vm, _ := New(prog(ast.InputStmt{Target: "x"}), WithInputProvider(func(InputRequest) (string, error) {
		return "", io.EOF
	}))
	_, err := vm.Run()
	if !errors.Is(err, ErrInputFormat) || err.Error() != "no more input" {
		t.Fatalf("expected no more input, got %v", err)
	}
}

func TestLineReader(t *testing.T) {
	read := LineReader(strings.NewReader("1\r\n2\n3"))
	for _, want := range []string{"1", "2", "3"} {
		got, err := read(InputRequest{})
		if err != nil || got != want {
			t.Fatalf("expected %q, got %q (%v)", want, got, err)
		}
	}
	if _, err := read(InputRequest{}); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestBareInputNoop(t *testing.T) {
	vm, _ := New(prog(ast.InputStmt{}, printStmt(lit(1))), WithBareInput(BareInputNoop))
	out, err := vm.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("unexpected output: %v", texts(out))
	}
}

func TestStackExhausted(t *testing.T) {
	rec := ast.FuncDef{
		Name:   "down",
		Params: []string{"n"},
		Body:   []ast.Statement{},
		Return: ast.CallExpr{Name: "down", Args: []ast.Expr{ast.Ident{Name: "n"}}},
	}
	vm, _ := New(prog(rec, ast.CallStmt{Name: "down", Args: []ast.Expr{lit(0)}}), WithMaxDepth(50))
	_, err := vm.Run()
	if !errors.Is(err, ErrStackExhausted) {
		t.Fatalf("expected stack exhausted, got %v", err)
	}
	if KindOf(err) != StackExhausted {
		t.Fatalf("unexpected kind %q", KindOf(err))
	}
}

func TestExecKeepsState(t *testing.T) {
	vm, _ := New(&ast.Program{})
	if _, err := vm.Exec(prog(
		ast.VarDecl{Name: "a", Value: lit(2)},
		ast.FuncDef{Name: "twice", Params: []string{"x"}, Body: []ast.Statement{}, Return: ast.BinaryExpr{Op: "*", Left: ast.Ident{Name: "x"}, Right: lit(2)}},
	)); err != nil {
		t.Fatalf("first exec: %v", err)
	}
	out, err := vm.Exec(prog(printStmt(ast.CallExpr{Name: "twice", Args: []ast.Expr{ast.Ident{Name: "a"}}})))
	if err != nil {
		t.Fatalf("second exec: %v", err)
	}
	if len(out) != 1 || out[0].Text != "4" {
		t.Fatalf("unexpected output: %v", texts(out))
	}
	if names := vm.Functions(); len(names) != 1 || names[0] != "twice" {
		t.Fatalf("unexpected functions: %v", names)
	}

	vm.Reset()
	if _, ok := vm.Global("a"); ok {
		t.Fatalf("reset should drop globals")
	}
	if _, ok := vm.Function("twice"); ok {
		t.Fatalf("reset should drop functions")
	}
}

func TestErrorStopsOutput(t *testing.T) {
	var hooked []string
	vm, _ := New(prog(
		printStmt(lit(1)),
		printStmt(ast.BinaryExpr{Op: "/", Left: lit(1), Right: lit(0)}),
		printStmt(lit(2)),
	), WithOutputHook(func(o Output) { hooked = append(hooked, o.Text) }))
	out, err := vm.Run()
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
	if out != nil || len(hooked) != 1 || hooked[0] != "1" {
		t.Fatalf("unexpected output %v / %v", texts(out), hooked)
	}
}

func TestHookedOutputIsNotCollected(t *testing.T) {
	loop := ast.ForStmt{
		Init: ast.VarDecl{Name: "i", Value: lit(0)},
		Cond: ast.BinaryExpr{Op: "<", Left: ast.Ident{Name: "i"}, Right: lit(1000)},
		Post: ast.AssignStmt{Name: "i", Value: ast.BinaryExpr{Op: "+", Left: ast.Ident{Name: "i"}, Right: lit(1)}},
		Body: []ast.Statement{printStmt(ast.Ident{Name: "i"})},
	}
	hooked := 0
	vm, _ := New(prog(loop), WithOutputHook(func(Output) { hooked++ }))
	out, err := vm.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != nil || hooked != 1000 || len(vm.outputs) != 0 {
		t.Fatalf("hooked run kept %d outputs (returned %d), streamed %d", len(vm.outputs), len(out), hooked)
	}

	vm.SetOutputHook(nil)
	out, err = vm.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(out) != 1000 || out[999].Text != "999" || len(vm.outputs) != 0 {
		t.Fatalf("unexpected collected output: %d", len(out))
	}
}

func TestInputTargetFromAssignment(t *testing.T) {
	var targets []string
	vm, _ := New(prog(
		ast.VarDecl{Name: "y", Value: ast.CallExpr{Name: "input"}},
		ast.AssignStmt{Name: "x", Value: ast.CallExpr{Name: "input"}},
		ast.AssignStmt{Name: "z", Value: ast.BinaryExpr{Op: "+", Left: ast.CallExpr{Name: "input"}, Right: lit(1)}},
		printStmt(ast.CallExpr{Name: "input"}),
	), WithInputProvider(func(req InputRequest) (string, error) {
		targets = append(targets, req.Target)
		return "3", nil
	}))
	if _, err := vm.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := strings.Join(targets, ","); got != "y,x,," {
		t.Fatalf("unexpected targets %q", got)
	}
	if v, _ := vm.Global("z"); v.Int64() != 4 {
		t.Fatalf("unexpected z: %v", v)
	}
}

func TestRunLogsOnlyWhenVerbose(t *testing.T) {
	prev := log.SetLogLevelQuiet(log.Info)
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer func() {
		log.SetOutput(os.Stderr)
		log.SetLogLevelQuiet(prev)
	}()

	vm, _ := New(prog(printStmt(lit(1))))
	if _, err := vm.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	vm, _ = New(prog(printStmt(ast.Ident{Name: "nope"})))
	if _, err := vm.Run(); err == nil {
		t.Fatalf("expected an error")
	}
	if buf.Len() != 0 {
		t.Fatalf("runs logged at info level: %q", buf.String())
	}
}

func TestArgumentsEvaluatedInCallerFrame(t *testing.T) {
	// inner's parameter shares a name with outer's local.
	p := prog(
		ast.FuncDef{Name: "inner", Params: []string{"v"}, Body: []ast.Statement{}, Return: ast.Ident{Name: "v"}},
		ast.FuncDef{
			Name:   "outer",
			Params: []string{"v"},
			Body:   []ast.Statement{ast.VarDecl{Name: "w", Value: ast.BinaryExpr{Op: "+", Left: ast.Ident{Name: "v"}, Right: lit(1)}}},
			Return: ast.CallExpr{Name: "inner", Args: []ast.Expr{ast.Ident{Name: "w"}}},
		},
		printStmt(ast.CallExpr{Name: "outer", Args: []ast.Expr{lit(10)}}),
	)
	vm, _ := New(p)
	out, err := vm.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(out) != 1 || out[0].Text != "11" {
		t.Fatalf("unexpected output: %v", texts(out))
	}
	if len(vm.Globals()) != 0 {
		t.Fatalf("calls must not touch globals: %v", vm.Globals())
	}
}

func TestErrorKinds(t *testing.T) {
	err := errorf(ArityMismatch, "f expects %d arguments, got %d", 1, 2)
	if !errors.Is(err, ErrArityMismatch) || errors.Is(err, ErrUndefinedName) {
		t.Fatalf("sentinel matching failed for %v", err)
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatalf("plain errors have no kind")
	}
	if (&Error{Kind: InputFormat}).Error() != "InputFormatError" {
		t.Fatalf("empty message should fall back to the kind")
	}
}
