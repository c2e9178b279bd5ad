package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gosuda/minic"
	"github.com/gosuda/minic/internal/diag"
	mruntime "github.com/gosuda/minic/runtime"
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run a program file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFile(args[0])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load program: %w", err)
	}
	return runSource(string(b), mruntime.LineReader(os.Stdin), os.Stdout)
}

func runSource(src string, input mruntime.InputProvider, stdout *os.File) error {
	opts := diag.Options{
		Color:   diag.ColorEnabled(cfg.UI.Color, stdout),
		Snippet: cfg.UI.Snippets,
	}
	err := minic.RunWith(src, minic.RunOptions{
		Input:  input,
		Stdout: stdout,
		VM:     cfg.RuntimeOptions(),
		Report: func(w io.Writer, err error) {
			fmt.Fprint(w, diag.Render(err, src, opts))
		},
	})
	if err != nil {
		return errReported
	}
	return nil
}
