package syntax

import "fmt"

// Parse error messages. Structural errors point at the opening token that
// was never closed or the token that cannot be satisfied; lexing errors
// point at the offending character.
const (
	errUnknownEscape      = "Unknown escaped character"
	errUnterminatedEscape = "Unterminated escaped character"
	errMalformed          = "Malformed regular expression"
	errDangling           = "Dangling control meta character"
	errUnbalancedClose    = "Unbalanced closing character"
	errMalformedRange     = "Malformed range"
)

// ParseError describes a pattern rejected by Parse.
//
// Offset is the zero-based byte offset into the original pattern suitable
// for caret-style diagnostics. Rest is the unparsed pattern suffix starting
// at Offset.
type ParseError struct {
	Offset  int
	Message string
	Rest    string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d (remaining %q)", e.Message, e.Offset, e.Rest)
}

// newError builds a ParseError for the given pattern and offset.
func newError(pattern string, off int, msg string) *ParseError {
	rest := ""
	if off >= 0 && off <= len(pattern) {
		rest = pattern[off:]
	}
	return &ParseError{Offset: off, Message: msg, Rest: rest}
}
