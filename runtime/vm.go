package mruntime

import (
	"fmt"
	"sort"

	"fortio.org/log"
	"github.com/google/uuid"

	"github.com/gosuda/minic/ast"
)

// DefaultMaxDepth bounds nested calls so that runaway recursion fails with
// StackExhausted instead of killing the process on Go stack overflow.
const DefaultMaxDepth = 10000

type Output struct {
	Text    string
	NewLine bool
}

type BareInputMode int

const (
	// BareInputDiscard makes `input();` read one integer and drop it.
	BareInputDiscard BareInputMode = iota
	// BareInputNoop makes `input();` do nothing.
	BareInputNoop
)

type VM struct {
	program       *ast.Program
	globals       map[string]Value
	functions     map[string]ast.FuncDef
	frame         *frame
	depth         int
	maxDepth      int
	bareInput     BareInputMode
	outputs       []Output
	outputHook    func(Output)
	inputProvider InputProvider
	queue         []string
	runID         string
}

// frame is the flat local mapping of one call. It has no parent link.
type frame struct {
	fn     string
	locals map[string]Value
}

type Option func(*VM)

// WithMaxDepth sets the call depth guard; n <= 0 disables it.
func WithMaxDepth(n int) Option {
	return func(vm *VM) { vm.maxDepth = n }
}

func WithBareInput(mode BareInputMode) Option {
	return func(vm *VM) { vm.bareInput = mode }
}

func WithOutputHook(hook func(Output)) Option {
	return func(vm *VM) { vm.outputHook = hook }
}

func WithInputProvider(p InputProvider) Option {
	return func(vm *VM) { vm.inputProvider = p }
}

func New(program *ast.Program, opts ...Option) (*VM, error) {
	if program == nil {
		return nil, fmt.Errorf("nil program")
	}
	vm := &VM{
		program:   program,
		globals:   map[string]Value{},
		functions: map[string]ast.FuncDef{},
		maxDepth:  DefaultMaxDepth,
		bareInput: BareInputDiscard,
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm, nil
}

func (vm *VM) SetOutputHook(hook func(Output)) {
	vm.outputHook = hook
}

func (vm *VM) SetInputProvider(p InputProvider) {
	vm.inputProvider = p
}

// Run executes the program given to New against the VM's environment. Without
// an output hook it returns everything printed up to the first error; with a
// hook the output is only streamed and the returned slice is nil.
func (vm *VM) Run() ([]Output, error) {
	return vm.Exec(vm.program)
}

// Exec runs program on the current globals and function table, so state
// carries over between calls.
func (vm *VM) Exec(program *ast.Program) (out []Output, err error) {
	vm.outputs = nil
	vm.frame = nil
	vm.depth = 0
	vm.runID = uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			err = errorf(Internal, "internal error: %v", r)
		}
		out = vm.outputs
		vm.outputs = nil
		vm.frame = nil
		vm.depth = 0
		if err != nil {
			log.LogVf("run %s failed (%s): %v", vm.runID, KindOf(err), err)
			return
		}
		log.LogVf("run %s finished", vm.runID)
	}()
	if program == nil {
		return nil, errorf(Internal, "nil program")
	}
	log.LogVf("run %s: %d top level statements", vm.runID, len(program.Body))
	err = vm.execBlock(program.Body)
	return nil, err
}

// Reset drops every global and function definition.
func (vm *VM) Reset() {
	vm.globals = map[string]Value{}
	vm.functions = map[string]ast.FuncDef{}
	vm.queue = nil
}

func (vm *VM) Globals() map[string]Value {
	cp := make(map[string]Value, len(vm.globals))
	for k, v := range vm.globals {
		cp[k] = v
	}
	return cp
}

func (vm *VM) Global(name string) (Value, bool) {
	v, ok := vm.globals[name]
	return v, ok
}

// Functions returns the defined function names in sorted order.
func (vm *VM) Functions() []string {
	names := make([]string, 0, len(vm.functions))
	for name := range vm.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (vm *VM) Function(name string) (ast.FuncDef, bool) {
	fn, ok := vm.functions[name]
	return fn, ok
}

// emit streams out through the hook, or collects it for Exec's result when
// there is none.
func (vm *VM) emit(out Output) {
	if vm.outputHook != nil {
		vm.outputHook(out)
		return
	}
	vm.outputs = append(vm.outputs, out)
}

func (vm *VM) execBlock(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := vm.execStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) execStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case ast.VarDecl:
		v := Int(0)
		if s.Value != nil {
			var err error
			v, err = vm.evalInto(s.Name, s.Value)
			if err != nil {
				return err
			}
		}
		vm.setVar(s.Name, v)
		return nil
	case ast.AssignStmt:
		v, err := vm.evalInto(s.Name, s.Value)
		if err != nil {
			return err
		}
		vm.setVar(s.Name, v)
		return nil
	case ast.IfStmt:
		cond, err := vm.evalExpr(s.Cond)
		if err != nil {
			return err
		}
		if cond.Truthy() {
			return vm.execBlock(s.Then)
		}
		return vm.execBlock(s.Else)
	case ast.ForStmt:
		return vm.execFor(s)
	case ast.FuncDef:
		log.LogVf("define %s(%d)", s.Name, len(s.Params))
		vm.functions[s.Name] = s
		return nil
	case ast.CallStmt:
		_, err := vm.callFunction(s.Name, s.Args)
		return err
	case ast.PrintStmt:
		v, err := vm.evalExpr(s.Expr)
		if err != nil {
			return err
		}
		vm.emit(Output{Text: v.String(), NewLine: true})
		return nil
	case ast.InputStmt:
		return vm.execInput(s)
	default:
		return errorf(UnknownNodeKind, "unknown statement %T", stmt)
	}
}

// evalInto evaluates the value bound to name. A direct input() call carries
// name in its request so front ends can say what is being read.
func (vm *VM) evalInto(name string, e ast.Expr) (Value, error) {
	if call, ok := e.(ast.CallExpr); ok && call.Name == "input" {
		return vm.readInteger(InputRequest{Target: name})
	}
	return vm.evalExpr(e)
}

func (vm *VM) execFor(s ast.ForStmt) error {
	if err := vm.execStatement(s.Init); err != nil {
		return err
	}
	for {
		cond, err := vm.evalExpr(s.Cond)
		if err != nil {
			return err
		}
		if !cond.Truthy() {
			return nil
		}
		if err := vm.execBlock(s.Body); err != nil {
			return err
		}
		if err := vm.execStatement(s.Post); err != nil {
			return err
		}
	}
}

func (vm *VM) execInput(s ast.InputStmt) error {
	if s.Target == "" && vm.bareInput == BareInputNoop {
		return nil
	}
	v, err := vm.readInteger(InputRequest{Target: s.Target})
	if err != nil {
		return err
	}
	if s.Target != "" {
		vm.setVar(s.Target, v)
	}
	return nil
}

func (vm *VM) callFunction(name string, args []ast.Expr) (Value, error) {
	fn, ok := vm.functions[name]
	if !ok {
		return Value{}, errorf(UndefinedFunction, "function not defined: %s", name)
	}
	if len(args) != len(fn.Params) {
		return Value{}, errorf(ArityMismatch, "%s expects %d arguments, got %d", name, len(fn.Params), len(args))
	}
	fr := &frame{fn: name, locals: make(map[string]Value, len(fn.Params))}
	for i, arg := range args {
		v, err := vm.evalExpr(arg)
		if err != nil {
			return Value{}, err
		}
		fr.locals[fn.Params[i]] = v
	}
	if vm.maxDepth > 0 && vm.depth >= vm.maxDepth {
		return Value{}, errorf(StackExhausted, "call depth exceeded %d in %s", vm.maxDepth, name)
	}

	caller := vm.frame
	vm.frame = fr
	vm.depth++
	defer func() {
		vm.frame = caller
		vm.depth--
	}()
	log.LogVf("call %s depth=%d", name, vm.depth)

	if err := vm.execBlock(fn.Body); err != nil {
		return Value{}, err
	}
	if fn.Return == nil {
		return Value{}, errorf(MissingReturnValue, "function %s has no return value", name)
	}
	return vm.evalExpr(fn.Return)
}

// setVar writes into the active frame only: the call frame inside a
// function, the globals at top level.
func (vm *VM) setVar(name string, v Value) {
	if vm.frame != nil {
		vm.frame.locals[name] = v
		return
	}
	vm.globals[name] = v
}

func (vm *VM) getVar(name string) (Value, error) {
	if vm.frame != nil {
		if v, ok := vm.frame.locals[name]; ok {
			return v, nil
		}
	}
	if v, ok := vm.globals[name]; ok {
		return v, nil
	}
	return Value{}, errorf(UndefinedName, "variable not defined: %s", name)
}
