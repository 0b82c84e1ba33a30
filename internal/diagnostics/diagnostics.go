// Package diagnostics defines the structured, position-anchored errors
// reported while parsing type paths and ingesting type substitutions.
// Errors carry a stable code so callers (and tests) can match on the
// kind of failure instead of the message text.
package diagnostics

import "fmt"

// ErrorCode identifies a class of diagnostic.
type ErrorCode string

const (
	// Type path parsing errors (T).
	ErrT001 ErrorCode = "T001" // unexpected character
	ErrT002 ErrorCode = "T002" // expected identifier
	ErrT003 ErrorCode = "T003" // unterminated generic argument list

	// Substitution errors (S).
	ErrS001 ErrorCode = "S001" // substitute target is not absolute
	ErrS002 ErrorCode = "S002" // namespace segment carries generics
	ErrS003 ErrorCode = "S003" // empty source or target path
	ErrS004 ErrorCode = "S004" // unresolved generic parameter
)

// Pos is a position within the offending source text.
// Paths are single-line, so Line is 1 except for anchors that were
// re-based into a larger document by the caller.
type Pos struct {
	Line   int
	Column int
}

// DiagnosticError is an error anchored at a syntactic position.
type DiagnosticError struct {
	Code    ErrorCode
	Pos     Pos
	Message string
}

// NewError creates a diagnostic with the given code and anchor.
func NewError(code ErrorCode, pos Pos, format string, args ...any) *DiagnosticError {
	return &DiagnosticError{
		Code:    code,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("%s: %s (line %d, column %d)", e.Code, e.Message, e.Pos.Line, e.Pos.Column)
}
