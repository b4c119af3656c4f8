package errors

import "fmt"

// NotFoundError is returned when the server has no resource at Path.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("'%s' not found", e.Path)
}

func NewNotFoundError(path string) error {
	return &NotFoundError{Path: path}
}
