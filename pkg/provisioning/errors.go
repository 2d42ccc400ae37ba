package provisioning

import (
	"errors"
	"fmt"
)

// ErrPrecondition matches every PreconditionError with errors.Is.
var ErrPrecondition = errors.New("template precondition failed")

// PreconditionError is a fault in the template itself. It is never retried; the template
// has to be fixed.
type PreconditionError struct {
	Region string
	Group  string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot provision group %s in region %s: %s", e.Group, e.Region, e.Reason)
}

func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}
