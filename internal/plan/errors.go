package plan

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies pipeline failures so callers can react without string
// matching. Every error produced by the goal-to-plan pipeline carries one.
type Kind string

const (
	KindInvalidInput      Kind = "invalid_input"
	KindConfig            Kind = "config"
	KindAuth              Kind = "auth"
	KindTransport         Kind = "transport"
	KindUpstream          Kind = "upstream"
	KindMalformedResponse Kind = "malformed_response"
	KindSchemaViolation   Kind = "schema_violation"
	KindCyclicDependency  Kind = "cyclic_dependency"
)

// Error is a pipeline failure with enough context for a one-line
// user-facing message: the offending field and element index for schema
// problems, the participating ids for cycles, and the raw model output
// where it helps debugging.
type Error struct {
	Kind  Kind
	Msg   string
	Field string // offending field, if any
	Index int    // offending element index, -1 if not applicable
	Cycle []int  // participating task ids for cyclic_dependency
	Raw   string // raw model output, kept for display on parse failures
	Err   error  // wrapped cause
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %q", e.Field)
		if e.Index >= 0 {
			fmt.Fprintf(&b, ", task %d", e.Index)
		}
		b.WriteString(")")
	} else if e.Index >= 0 {
		fmt.Fprintf(&b, " (task %d)", e.Index)
	}
	if len(e.Cycle) > 0 {
		fmt.Fprintf(&b, " %v", e.Cycle)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf constructs a pipeline error with no field/index context.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Index: -1, Msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err (or anything it wraps) is a pipeline error of
// the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

// KindOf returns the kind of a pipeline error, or "" for foreign errors.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
