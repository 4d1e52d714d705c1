package typesystem

import "fmt"

// InternalError signals a defect in the checker itself (a broken invariant),
// never a problem in the analysed program. It is not a diagnostic.
type InternalError struct {
	Op     string
	Detail string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error in %s: %s", e.Op, e.Detail)
}

func NewInternalError(op, format string, args ...interface{}) *InternalError {
	return &InternalError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
