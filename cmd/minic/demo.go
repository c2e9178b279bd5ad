package main

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	mruntime "github.com/gosuda/minic/runtime"
)

//go:embed demos/*.mc
var demoFS embed.FS

var demoCmd = &cobra.Command{
	Use:   "demo [NAME...]",
	Short: "Run the bundled demonstration programs",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := demoNames()
		if err != nil {
			return err
		}
		if len(args) > 0 {
			names = args
		}
		return runDemos(names, mruntime.LineReader(os.Stdin), os.Stdout)
	},
}

// runDemos runs each named demo in order. All of them read input() from the
// same provider, so lines buffered by one run stay available to the next.
func runDemos(names []string, input mruntime.InputProvider, stdout *os.File) error {
	failed := false
	for _, name := range names {
		src, err := demoFS.ReadFile(path.Join("demos", name+".mc"))
		if err != nil {
			return fmt.Errorf("unknown demo %q", name)
		}
		fmt.Fprintf(stdout, "== %s ==\n", name)
		if err := runSource(string(src), input, stdout); err != nil {
			failed = true
		}
		fmt.Fprintln(stdout)
	}
	if failed {
		return errReported
	}
	return nil
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func demoNames() ([]string, error) {
	entries, err := demoFS.ReadDir("demos")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".mc"))
	}
	sort.Strings(names)
	return names, nil
}
