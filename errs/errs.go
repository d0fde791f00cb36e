// Package errs defines the small error taxonomy the scan converter can
// return. A fill either succeeds or fails outright; there is no partial
// recovery, so callers only need to distinguish a handful of kinds.
package errs

import "fmt"

// Kind classifies why a fill operation failed.
type Kind int

const (
	// VMerror means an allocation failed (pool and heap both exhausted,
	// or the host allocator returned an error).
	VMerror Kind = iota
	// RangeCheck means a curve or edge was degenerate in a way the
	// flattener could not handle (e.g. a zero-length control polygon
	// that still claims to be a curve).
	RangeCheck
	// Unregistered means an internal invariant was violated; this
	// indicates a bug in the scan converter itself, not bad input.
	Unregistered
	// Fatal means a back-end device returned an unrecoverable error.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case VMerror:
		return "VMerror"
	case RangeCheck:
		return "rangecheck"
	case Unregistered:
		return "unregistered"
	case Fatal:
		return "Fatal"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by the package. Wrap a cause
// with Wrap, or construct one directly with New.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an *Error with no wrapped cause.
func New(kind Kind, op string) error {
	return &Error{Kind: kind, Op: op}
}

// Wrap attaches an operation name and kind to an underlying error. Wrap
// returns nil if err is nil, so it is safe to use unconditionally at a
// return statement.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
