package stp

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a ParseError. It is a string so packages that reuse
// the scanner can define kinds of their own.
type ErrorKind string

const (
	MalformedSectionMarker ErrorKind = "MalformedSectionMarker"
	MissingHeader          ErrorKind = "MissingHeader"
	InvalidHeader          ErrorKind = "InvalidHeader"
	DuplicateHeader        ErrorKind = "DuplicateHeader"
	InvalidEdgeRecord      ErrorKind = "InvalidEdgeRecord"
	InvalidTerminalRecord  ErrorKind = "InvalidTerminalRecord"
	EdgeCountMismatch      ErrorKind = "EdgeCountMismatch"
	TerminalCountMismatch  ErrorKind = "TerminalCountMismatch"
	UnterminatedSection    ErrorKind = "UnterminatedSection"
	MissingSection         ErrorKind = "MissingSection"
	DuplicateSection       ErrorKind = "DuplicateSection"
	OutOfRangeReference    ErrorKind = "OutOfRangeReference"
	UnsupportedDirective   ErrorKind = "UnsupportedDirective"
	UnexpectedRecord       ErrorKind = "UnexpectedRecord"
	RejectedEdge           ErrorKind = "RejectedEdge"
)

// Sentinels for errors.Is. A *ParseError matches the sentinel of its kind.
var (
	ErrMalformedSectionMarker = &ParseError{Kind: MalformedSectionMarker}
	ErrMissingHeader          = &ParseError{Kind: MissingHeader}
	ErrInvalidHeader          = &ParseError{Kind: InvalidHeader}
	ErrDuplicateHeader        = &ParseError{Kind: DuplicateHeader}
	ErrInvalidEdgeRecord      = &ParseError{Kind: InvalidEdgeRecord}
	ErrInvalidTerminalRecord  = &ParseError{Kind: InvalidTerminalRecord}
	ErrEdgeCountMismatch      = &ParseError{Kind: EdgeCountMismatch}
	ErrTerminalCountMismatch  = &ParseError{Kind: TerminalCountMismatch}
	ErrUnterminatedSection    = &ParseError{Kind: UnterminatedSection}
	ErrMissingSection         = &ParseError{Kind: MissingSection}
	ErrDuplicateSection       = &ParseError{Kind: DuplicateSection}
	ErrOutOfRangeReference    = &ParseError{Kind: OutOfRangeReference}
	ErrUnsupportedDirective   = &ParseError{Kind: UnsupportedDirective}
	ErrUnexpectedRecord       = &ParseError{Kind: UnexpectedRecord}
	ErrRejectedEdge           = &ParseError{Kind: RejectedEdge}
)

// ParseError describes the first fatal problem found in an STP source.
type ParseError struct {
	Kind    ErrorKind
	Line    int    // 1-based line number, 0 when the error is not tied to a line
	Text    string // raw text of the offending line
	Field   string // offending field within the record, if any
	Section string // section the error belongs to, if any
	Message string

	// Declared and Actual are set for count mismatches.
	Declared int
	Actual   int

	// Ref is the offending node id for OutOfRangeReference.
	Ref int

	Cause error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Text != "" {
		fmt.Fprintf(&b, " (text: %q)", e.Text)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Cause }

// Is reports whether target is a *ParseError of the same kind. It lets callers
// write errors.Is(err, stp.ErrEdgeCountMismatch).
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// errorAt builds a ParseError anchored at the given line.
func errorAt(kind ErrorKind, ln Line, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:    kind,
		Line:    ln.Number,
		Text:    ln.Raw,
		Message: fmt.Sprintf(format, args...),
	}
}
