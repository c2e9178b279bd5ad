package parser

import (
	"errors"
	"fmt"
)

// SyntaxError reports a malformed token sequence. AtEOF is set when the
// parser ran out of tokens; Token is meaningful only otherwise.
type SyntaxError struct {
	Token Token
	AtEOF bool
	Msg   string
}

func (e *SyntaxError) Error() string {
	if e.AtEOF {
		return fmt.Sprintf("syntax error at end of input: %s", e.Msg)
	}
	return fmt.Sprintf("syntax error at %d:%d near %q: %s", e.Token.Line, e.Token.Col, e.Token.Lit, e.Msg)
}

// Position returns the 1-based line and column of the offending token, or
// zeros for errors at end of input.
func (e *SyntaxError) Position() (int, int) {
	if e.AtEOF {
		return 0, 0
	}
	return e.Token.Line, e.Token.Col
}

// IsIncomplete reports whether err is a syntax error raised because input
// ended early, i.e. more source could still make the program valid.
func IsIncomplete(err error) bool {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.AtEOF
	}
	return false
}
