package errors

import "fmt"

// TypeError reports an argument that does not have the shape an operation
// requires, e.g. a rule descriptor that is not a mapping.
type TypeError struct {
	msg string
}

func (e *TypeError) Error() string {
	return e.msg
}

func NewTypeError(format string, args ...interface{}) error {
	return &TypeError{fmt.Sprintf(format, args...)}
}
