package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"fortio.org/log"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/gosuda/minic/ast"
	"github.com/gosuda/minic/internal/diag"
	"github.com/gosuda/minic/parser"
	mruntime "github.com/gosuda/minic/runtime"
)

const replHelp = `REPL commands:
  :globals  List global variables
  :funcs    List defined functions
  :reset    Forget all variables and functions
  :quit     Exit the REPL
`

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL(stdout io.Writer) error {
	fmt.Fprintln(stdout, "minic REPL. Ctrl+C cancels input, Ctrl+D exits. Type :help for commands.")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.REPL.HistoryFile
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		} else {
			log.Warnf("cannot save history to %s: %v", histPath, err)
		}
	}()

	vm, err := mruntime.New(&ast.Program{}, cfg.RuntimeOptions()...)
	if err != nil {
		return err
	}
	vm.SetOutputHook(func(out mruntime.Output) {
		if out.NewLine {
			fmt.Fprintln(stdout, out.Text)
			return
		}
		fmt.Fprint(stdout, out.Text)
	})
	vm.SetInputProvider(func(req mruntime.InputRequest) (string, error) {
		prompt := "input? "
		if req.Target != "" {
			prompt = req.Target + "? "
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", io.EOF
		}
		return line, err
	})
	color := diag.ColorEnabled(cfg.UI.Color, os.Stderr)

	for {
		code, ok := readSnippet(ln, cfg.REPL.Prompt, cfg.REPL.Continuation)
		if !ok {
			fmt.Fprintln(stdout)
			return nil
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if quit := replCommand(stdout, vm, trimmed); quit {
				return nil
			}
			continue
		}

		prog, err := parser.ParseSource(code)
		if err != nil {
			fmt.Fprint(os.Stderr, diag.Render(err, code, diag.Options{Color: color, Snippet: true}))
			continue
		}
		if _, err := vm.Exec(prog); err != nil {
			fmt.Fprintln(os.Stderr, diag.Line(err, color))
		}
	}
}

// readSnippet keeps prompting while the collected source only fails because
// it ended too early.
func readSnippet(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending snippet.
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, perr := parser.ParseSource(src); perr != nil && parser.IsIncomplete(perr) && strings.TrimSpace(line) != "" {
			continue
		}
		return src, true
	}
}

func replCommand(w io.Writer, vm *mruntime.VM, cmd string) (quit bool) {
	switch strings.ToLower(cmd) {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprint(w, replHelp)
	case ":globals":
		globals := vm.Globals()
		names := make([]string, 0, len(globals))
		for name := range globals {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "%s = %s\n", name, globals[name])
		}
	case ":funcs":
		for _, name := range vm.Functions() {
			fn, _ := vm.Function(name)
			suffix := ""
			if fn.Return == nil {
				suffix = " (no return)"
			}
			fmt.Fprintf(w, "%s(%s)%s\n", name, strings.Join(fn.Params, ", "), suffix)
		}
	case ":reset":
		vm.Reset()
		fmt.Fprintln(w, "state cleared")
	default:
		fmt.Fprintf(w, "unknown command %s. Type :help for commands.\n", cmd)
	}
	return false
}
