package access

import (
	"errors"
	"fmt"
)

// ErrUsage matches every *UsageError via errors.Is.
var ErrUsage = errors.New("builder misuse")

// UsageError is the panic value for calls that break the builder's
// creation-order contract. A buffer is never produced from such a sequence.
type UsageError struct {
	Op     string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

func usage(op, reason string) {
	panic(&UsageError{Op: op, Reason: reason})
}
