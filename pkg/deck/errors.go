// Package deck is the mutable document model over a parsed netlist:
// path-addressed reads and writes, copy-on-write subcircuit instancing,
// the update journal, and span-preserving serialization.
package deck

import (
	"errors"
	"fmt"
)

type RefErrorKind int

const (
	// NotFound: unknown component, parameter, definition or directive.
	NotFound RefErrorKind = iota
	// NotAContainer: a path segment descends into a non-instance.
	NotAContainer
	// ReadOnly: mutation against a library-sourced or read-only scope.
	ReadOnly
	// Unsupported: operation does not apply to the device family.
	Unsupported
)

func (k RefErrorKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case NotAContainer:
		return "not a container"
	case ReadOnly:
		return "read only"
	case Unsupported:
		return "unsupported"
	}
	return "unknown"
}

// ReferenceError is a per-call, caller-recoverable failure. It never
// corrupts document state and nothing is journaled for the failed call.
type ReferenceError struct {
	Kind RefErrorKind
	Path string
	Msg  string
}

func (e *ReferenceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Path, e.Msg, e.Kind)
	}
	return fmt.Sprintf("%s (%s)", e.Msg, e.Kind)
}

func refErr(kind RefErrorKind, path, format string, args ...any) *ReferenceError {
	return &ReferenceError{Kind: kind, Path: path, Msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a ReferenceError of the given kind.
func IsKind(err error, kind RefErrorKind) bool {
	var re *ReferenceError
	return errors.As(err, &re) && re.Kind == kind
}
