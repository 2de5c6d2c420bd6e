package retrieval

import (
	"errors"
	"fmt"
)

// Kind classifies a retrieval failure so callers can branch with errors.As
// instead of string matching. No file in the pack defines a per-arm status
// taxonomy of this shape; it is introduced here because §7's propagation
// policy (only InvalidArgument fails the whole request) requires one.
type Kind int

const (
	// KindInvalidArgument means a caller-supplied constraint was violated.
	// It fails the whole request at planning time.
	KindInvalidArgument Kind = iota
	// KindDatabaseError means the store returned an error from a specific
	// call. Attributed to the responsible arm; other arms continue.
	KindDatabaseError
	// KindTimeout means a deadline fired. Attributed to the arm; partial
	// results already accumulated are retained.
	KindTimeout
	// KindEmbeddingError means the embedding provider failed. The vector
	// arm is skipped, not failed.
	KindEmbeddingError
	// KindUnreachable means a Shortest-Path traversal could not reach its
	// target within max_depth. Not an error for the overall response.
	KindUnreachable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindDatabaseError:
		return "DatabaseError"
	case KindTimeout:
		return "Timeout"
	case KindEmbeddingError:
		return "EmbeddingError"
	case KindUnreachable:
		return "Unreachable"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying cause with a Kind so it can be attributed to the
// arm that produced it and matched with errors.As.
type Error struct {
	Kind Kind
	Op   string // e.g. "graph.Collect", "vector.search", "planner.validate"
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports a match for any target *Error of the same Kind, so
// errors.Is(err, UnreachableError("")) works without per-kind sentinel
// values; callers typically use errors.As with Kind instead, but this keeps
// errors.Is usable for the common cases.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// InvalidArgument builds a KindInvalidArgument error.
func InvalidArgument(op string, format string, args ...any) *Error {
	return newError(KindInvalidArgument, op, fmt.Errorf(format, args...))
}

// DatabaseError builds a KindDatabaseError error.
func DatabaseError(op string, err error) *Error {
	return newError(KindDatabaseError, op, err)
}

// TimeoutError builds a KindTimeout error.
func TimeoutError(op string, err error) *Error {
	return newError(KindTimeout, op, err)
}

// EmbeddingError builds a KindEmbeddingError error.
func EmbeddingError(op string, err error) *Error {
	return newError(KindEmbeddingError, op, err)
}

// UnreachableError builds a KindUnreachable error; not a failure, used to
// carry the "Ran(unreachable)" status through the normal error-return path
// internally before being translated to an ArmStatus.
func UnreachableError(op string) *Error {
	return newError(KindUnreachable, op, fmt.Errorf("target not reachable within max_depth"))
}

// KindOf extracts the Kind of err if it (or something it wraps) is a
// *Error, and ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
