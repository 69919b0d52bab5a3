package domain

import "time"

// Envelope is the uniform wrapper every downstream caller of the
// integration layer receives. Cached is true iff Data came from the cache
// store rather than a fresh upstream call.
//
// Invariant: Success=false implies Data is nil and Message is set.
type Envelope[T any] struct {
	Success   bool      `json:"success"`
	Data      *T        `json:"data,omitempty"`
	Code      string    `json:"errorCode,omitempty"`
	Message   string    `json:"message,omitempty"`
	Cached    bool      `json:"cached"`
	Timestamp time.Time `json:"timestamp"`
}

// OK builds a success envelope around data.
func OK[T any](data *T, cached bool) Envelope[T] {
	return Envelope[T]{
		Success:   true,
		Data:      data,
		Cached:    cached,
		Timestamp: time.Now().UTC(),
	}
}

// Fail builds a failure envelope with an optional classification code.
// The code is empty when the upstream itself reported the failure (a 2xx
// response whose own success flag was false).
func Fail[T any](code, message string) Envelope[T] {
	return Envelope[T]{
		Success:   false,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
