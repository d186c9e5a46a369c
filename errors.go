package pimalign

import "fmt"

// BatchPreconditionError marks a caller-bug class of failure (spec.md
// section 7): something the balancer must reject before dispatch
// because the tile has no capacity to recover from it. These are
// always fatal to the batch that triggered them, never to the process.
type BatchPreconditionError struct {
	Reason string
}

func (e *BatchPreconditionError) Error() string {
	return fmt.Sprintf("pimalign: batch precondition violated: %s", e.Reason)
}

// NewBatchPreconditionError builds a BatchPreconditionError with a
// descriptive, printf-formatted reason.
func NewBatchPreconditionError(format string, args ...interface{}) error {
	return &BatchPreconditionError{Reason: fmt.Sprintf(format, args...)}
}
