package main

import (
	"fmt"
	"os"

	"github.com/goforj/godump"
	"github.com/spf13/cobra"

	"github.com/gosuda/minic"
	"github.com/gosuda/minic/internal/diag"
)

var astCmd = &cobra.Command{
	Use:   "ast FILE",
	Short: "Dump the syntax tree of a program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("load program: %w", err)
		}
		prog, err := minic.Parse(string(src))
		if err != nil {
			fmt.Fprint(os.Stderr, diag.Render(err, string(src), diag.Options{
				Color:   diag.ColorEnabled(cfg.UI.Color, os.Stderr),
				Snippet: true,
			}))
			return errReported
		}
		godump.Dump(prog)
		return nil
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "List the tokens of a program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("load program: %w", err)
		}
		for _, t := range minic.Tokenize(string(src)) {
			fmt.Printf("%4d:%-3d %-9s %s\n", t.Line, t.Col, t.Kind, t.Lit)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(astCmd, tokensCmd)
}
