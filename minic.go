package minic

import (
	"fmt"
	"io"

	"github.com/gosuda/minic/ast"
	"github.com/gosuda/minic/parser"
	mruntime "github.com/gosuda/minic/runtime"
)

// Tokenize returns the token stream the parser sees.
func Tokenize(src string) []parser.Token {
	return parser.Tokenize(src)
}

// Parse only returns the AST program for tooling use.
func Parse(src string) (*ast.Program, error) {
	return parser.ParseSource(src)
}

// Compile parses src and builds a VM ready to Run.
func Compile(src string, opts ...mruntime.Option) (*mruntime.VM, error) {
	program, err := parser.ParseSource(src)
	if err != nil {
		return nil, err
	}
	return mruntime.New(program, opts...)
}

// RunOptions configures RunWith. Input, when set, serves input() and takes
// precedence over Stdin; share one provider to read a stream across runs.
// Report writes the diagnostic for a failed run; when nil it writes
// "Error: <message>".
type RunOptions struct {
	Stdin  io.Reader
	Input  mruntime.InputProvider
	Stdout io.Writer
	Report func(w io.Writer, err error)
	VM     []mruntime.Option
}

// Run parses and executes src, streaming printed lines to stdout and reading
// input() lines from stdin. Any failure stops the run and is reported as a
// single "Error: ..." line on stdout; the error is also returned.
func Run(src string, stdin io.Reader, stdout io.Writer, opts ...mruntime.Option) error {
	return RunWith(src, RunOptions{Stdin: stdin, Stdout: stdout, VM: opts})
}

func RunWith(src string, ro RunOptions) (err error) {
	stdout := ro.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	report := ro.Report
	if report == nil {
		report = func(w io.Writer, err error) {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
	}
	defer func() {
		if r := recover(); r != nil {
			err = &mruntime.Error{Kind: mruntime.Internal, Msg: fmt.Sprintf("internal error: %v", r)}
		}
		if err != nil {
			report(stdout, err)
		}
	}()

	var writeErr error
	opts := []mruntime.Option{
		mruntime.WithOutputHook(func(out mruntime.Output) {
			if writeErr != nil {
				return
			}
			if out.NewLine {
				_, writeErr = fmt.Fprintln(stdout, out.Text)
			} else {
				_, writeErr = fmt.Fprint(stdout, out.Text)
			}
		}),
	}
	switch {
	case ro.Input != nil:
		opts = append(opts, mruntime.WithInputProvider(ro.Input))
	case ro.Stdin != nil:
		opts = append(opts, mruntime.WithInputProvider(mruntime.LineReader(ro.Stdin)))
	}
	opts = append(opts, ro.VM...)

	vm, err := Compile(src, opts...)
	if err != nil {
		return err
	}
	if _, err := vm.Run(); err != nil {
		return err
	}
	if writeErr != nil {
		return fmt.Errorf("write output: %w", writeErr)
	}
	return nil
}
