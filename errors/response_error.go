package errors

import "fmt"

// ResponseError is returned by the API client when the server answers with a
// non-successful status code. Body holds the raw response payload.
type ResponseError struct {
	StatusCode int
	Path       string
	Body       []byte
}

func (e *ResponseError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("request to '%s' failed with status %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("request to '%s' failed with status %d: %s", e.Path, e.StatusCode, e.Body)
}

func NewResponseError(statusCode int, path string, body []byte) error {
	return &ResponseError{StatusCode: statusCode, Path: path, Body: body}
}
