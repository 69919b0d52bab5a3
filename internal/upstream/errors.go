package upstream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"syscall"
)

// Code is the closed taxonomy of normalized upstream failures. These codes
// and their sanitized messages are part of the envelope contract with
// downstream callers; raw upstream detail is only ever logged.
type Code string

const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeBadRequest   Code = "BAD_REQUEST"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeServerError  Code = "SERVER_ERROR"
	CodeAPIError     Code = "API_ERROR"
	CodeTimeout      Code = "TIMEOUT"
	CodeUnavailable  Code = "UNAVAILABLE"
	CodeUnknown      Code = "UNKNOWN_ERROR"
)

// Classification is a normalized upstream failure: a stable code plus a
// user-facing message that never contains raw upstream content.
type Classification struct {
	Code    Code
	Message string
}

// Classifier maps heterogeneous upstream failures (HTTP status, network
// errors, timeouts) onto the Classification taxonomy. Every classification
// is logged with full context before the sanitized result is returned.
type Classifier struct {
	logger *slog.Logger
}

// NewClassifier builds a Classifier logging through the given logger.
func NewClassifier(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{logger: logger}
}

// Classify normalizes err. The context label names what was being fetched
// (e.g. "form data") and identifier is the lookup key, both for logging and
// the generic API_ERROR message.
func (c *Classifier) Classify(ctx context.Context, err error, contextLabel, identifier string) Classification {
	cls := classify(err, contextLabel)

	logAttrs := []any{
		"code", string(cls.Code),
		"context", contextLabel,
		"identifier", identifier,
		"error", err.Error(),
	}
	var se *StatusError
	if errors.As(err, &se) {
		logAttrs = append(logAttrs, "upstream_status", se.Status, "upstream_body", string(se.Body))
	}
	c.logger.ErrorContext(ctx, "upstream call failed", logAttrs...)

	return cls
}

// classify is the pure mapping table, evaluated in order, first match wins.
func classify(err error, contextLabel string) Classification {
	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.Status == 404:
			return Classification{CodeNotFound, orDefault(se.Message, "No record found for the given details.")}
		case se.Status == 400:
			return Classification{CodeBadRequest, orDefault(se.Message, "Invalid request parameters.")}
		case se.Status == 401 || se.Status == 403:
			return Classification{CodeUnauthorized, "Access denied to upstream service."}
		case se.Status >= 500:
			return Classification{CodeServerError, "Upstream server error. Please try again later."}
		default:
			return Classification{CodeAPIError, orDefault(se.Message, fmt.Sprintf("Failed to fetch %s.", contextLabel))}
		}
	}

	if isTimeout(err) {
		return Classification{CodeTimeout, "Request timed out. Please try again."}
	}
	if isUnavailable(err) {
		return Classification{CodeUnavailable, "Upstream service is currently unavailable. Please try again later."}
	}
	return Classification{CodeUnknown, "An unexpected error occurred. Please try again."}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isUnavailable(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func orDefault(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
