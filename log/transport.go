package log

import (
	"net/http"
	"time"

	"go.uber.org/atomic"
)

// LoggingTransport logs every outgoing request with its status and duration.
type LoggingTransport struct {
	next    http.RoundTripper
	logger  Logger
	counter atomic.Uint64
}

func NewLoggingTransport(next http.RoundTripper, logger Logger) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &LoggingTransport{next: next, logger: logger}
}

// Requests returns the number of requests sent through the transport.
func (t *LoggingTransport) Requests() uint64 {
	return t.counter.Load()
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := t.counter.Inc()
	start := time.Now()

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.logger.Error("request failed",
			"request", id,
			"method", req.Method,
			"url", req.URL.Redacted(),
			"error", err)
		return nil, err
	}

	t.logger.Info("request",
		"request", id,
		"method", req.Method,
		"url", req.URL.Redacted(),
		"status", resp.StatusCode,
		"duration", time.Since(start))
	return resp, nil
}
