package mesh

import "fmt"

// TraversalError carries the offending handle for a failed traversal step
// (spec §7). The handle is formatted into the message via %v/%s so callers
// that only care about the message can treat it as a plain error, while
// callers that want the handle back can type-assert to *TraversalError.
type TraversalError struct {
	Reason string
	Handle fmt.Stringer
}

func (e *TraversalError) Error() string {
	if e.Handle == nil {
		return "mesh: traversal error: " + e.Reason
	}
	return fmt.Sprintf("mesh: traversal error: %s (at %s)", e.Reason, e.Handle)
}

func newTraversalError(reason string, h fmt.Stringer) error {
	return &TraversalError{Reason: reason, Handle: h}
}

// TopologyError signals a precondition violation in an edit operation or
// construction routine (spec §7).
type TopologyError struct {
	Reason string
}

func (e *TopologyError) Error() string { return "mesh: topology error: " + e.Reason }

func newTopologyError(format string, args ...interface{}) error {
	return &TopologyError{Reason: fmt.Sprintf(format, args...)}
}

// SelectionError signals a parse failure or undefined group reference in a
// selection expression (spec §7, §4.B.5).
type SelectionError struct {
	Reason string
}

func (e *SelectionError) Error() string { return "mesh: selection error: " + e.Reason }

func newSelectionError(format string, args ...interface{}) error {
	return &SelectionError{Reason: fmt.Sprintf(format, args...)}
}

var errBadLoop = &TraversalError{Reason: "bad loop: MAX_LOOP exceeded, connectivity is likely corrupt"}
