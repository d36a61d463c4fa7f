package netlist

import "fmt"

// SyntaxError reports a line that does not match any classified shape or
// the grammar for its device prefix. Parsing stops at the first one.
type SyntaxError struct {
	Line int    // 1-based physical line number
	Text string // offending logical line
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
	}
	return fmt.Sprintf("%s: %q", e.Msg, e.Text)
}

func syntaxErr(line int, text, format string, args ...any) *SyntaxError {
	return &SyntaxError{Line: line, Text: text, Msg: fmt.Sprintf(format, args...)}
}

// StructuralError reports a malformed document shape: an unterminated
// scope or block, a continuation with no preceding line, a missing .end.
type StructuralError struct {
	Line int
	Msg  string
}

func (e *StructuralError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

func structuralErr(line int, format string, args ...any) *StructuralError {
	return &StructuralError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
