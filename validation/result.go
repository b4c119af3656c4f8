package validation

import "strings"

// Message describes one failed check together with the value that failed it.
type Message struct {
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Result is the outcome of validating a single value. Status is true iff
// Messages is empty.
type Result struct {
	Status   bool      `json:"status"`
	Messages []Message `json:"messages"`
}

func newResult() Result {
	return Result{Status: true, Messages: make([]Message, 0)}
}

func (r *Result) fail(message string, value interface{}) {
	r.Status = false
	r.Messages = append(r.Messages, Message{Message: message, Value: value})
}

// Err returns nil for a passing result and a *ResultError otherwise.
func (r Result) Err() error {
	if r.Status {
		return nil
	}
	return &ResultError{Messages: r.Messages}
}

type ResultError struct {
	Messages []Message
}

func (e *ResultError) Error() string {
	msgs := make([]string, 0, len(e.Messages))
	for _, m := range e.Messages {
		msgs = append(msgs, m.Message)
	}
	return strings.Join(msgs, "; ")
}
