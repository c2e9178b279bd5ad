// Package diag renders run failures for people: the one line "Error: ..."
// diagnostic, and optionally a caret snippet pointing into the source.
package diag

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/gosuda/minic/parser"
)

var (
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	caretStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	gutter     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type Options struct {
	Color   bool
	Snippet bool
}

// ColorEnabled resolves a ui.color setting against the file the diagnostic
// is written to.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return f != nil && term.IsTerminal(int(f.Fd()))
	}
}

// Line is the single diagnostic line for err, without a trailing newline.
func Line(err error, color bool) string {
	prefix := "Error:"
	if color {
		prefix = errStyle.Render(prefix)
	}
	return prefix + " " + err.Error()
}

// Render returns the diagnostic line, followed by a snippet of src around the
// offending token when requested and the error carries a position.
func Render(err error, src string, opts Options) string {
	var b strings.Builder
	b.WriteString(Line(err, opts.Color))
	b.WriteByte('\n')
	if !opts.Snippet {
		return b.String()
	}
	var se *parser.SyntaxError
	if !errors.As(err, &se) {
		return b.String()
	}
	line, col := se.Position()
	if se.AtEOF {
		line, col = endPosition(src)
	}
	b.WriteString(snippet(src, line, col, opts.Color))
	return b.String()
}

func endPosition(src string) (int, int) {
	lines := strings.Split(src, "\n")
	last := lines[len(lines)-1]
	return len(lines), len([]rune(last)) + 1
}

// snippet shows at most one line of context on each side of line and puts a
// caret under col. Both are 1-based and clamped to the source.
func snippet(src string, line, col int, color bool) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}
	num := func(n int) string {
		s := fmt.Sprintf("%4d | ", n)
		if color {
			return gutter.Render(s)
		}
		return s
	}

	var b strings.Builder
	if line > 1 {
		b.WriteString(num(line-1) + lines[line-2] + "\n")
	}
	b.WriteString(num(line) + lines[line-1] + "\n")
	caret := strings.Repeat(" ", col-1) + "^"
	if color {
		caret = caretStyle.Render(caret)
	}
	pad := "     | "
	if color {
		pad = gutter.Render(pad)
	}
	b.WriteString(pad + caret + "\n")
	if line < len(lines) {
		b.WriteString(num(line+1) + lines[line] + "\n")
	}
	return b.String()
}
