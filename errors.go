package graft

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying the taxonomy from spec.md §7. Wrap with
// fmt.Errorf("%w: ...", ErrX) so callers can errors.Is against these.
var (
	// ErrInvalidArgument covers a non-node/non-range value passed where a
	// node is required, an overlapping-node swap, a move without
	// before/after, an out-of-range reorder permutation, or before/after
	// supplied together.
	ErrInvalidArgument = errors.New("graft: invalid argument")

	// ErrMissingPrecondition covers an Inserter primitive invoked before
	// an insertion point is set, or RewriteWithTree called with no parser
	// supplied or inferable.
	ErrMissingPrecondition = errors.New("graft: missing precondition")
)

// invalidArgf wraps ErrInvalidArgument with a formatted message.
func invalidArgf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}

// missingPreconditionf wraps ErrMissingPrecondition with a formatted message.
func missingPreconditionf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMissingPrecondition}, args...)...)
}

// InvalidArgumentf builds an ErrInvalidArgument-wrapping error for use by
// packages outside graft's own root package (edit, transform, insert,
// queryedit, refactor all import this rather than duplicating the
// sentinel).
func InvalidArgumentf(format string, args ...any) error {
	return invalidArgf(format, args...)
}

// MissingPreconditionf builds an ErrMissingPrecondition-wrapping error for
// use by graft's subpackages.
func MissingPreconditionf(format string, args ...any) error {
	return missingPreconditionf(format, args...)
}
