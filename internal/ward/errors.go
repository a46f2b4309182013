package ward

import (
	"errors"
	"fmt"
)

// ErrNoSuchBed marks an operation addressed to a bed id outside 1..N.
var ErrNoSuchBed = errors.New("no such bed")

// ErrInvalidAdmission marks admission input with missing required fields.
var ErrInvalidAdmission = errors.New("invalid admission")

// InvalidStateError reports an operation attempted against a bed whose
// current status does not satisfy the operation's precondition. The
// collection is untouched when it is returned.
type InvalidStateError struct {
	Op     string
	BedID  int
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s bed %d: %s", e.Op, e.BedID, e.Reason)
}

// IsInvalidState reports whether err is a precondition violation.
func IsInvalidState(err error) bool {
	var ise *InvalidStateError
	return errors.As(err, &ise)
}
