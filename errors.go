package rtree

import "fmt"

// PreconditionError marks a contract violation: a bug in the caller, not a
// recoverable runtime condition. Operations that hit one of these abort
// immediately via panic rather than returning an error, so that partial
// mutations are never observed by other readers.
type PreconditionError struct {
	Op      string // operation that detected the violation, e.g. "Insert"
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("rtree: precondition violated in %s: %s", e.Op, e.Message)
}

// fail panics with a PreconditionError. Used at every precondition boundary
// listed in spec §7: wrong dimension, bad min/max config, freed-id access,
// Bounds() on the undefined MBR, NodeID() of Root, Data id fed to an
// internal-node accessor.
func fail(op, format string, args ...interface{}) {
	panic(&PreconditionError{Op: op, Message: fmt.Sprintf(format, args...)})
}
