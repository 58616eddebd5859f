package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorCategory is the normalized failure taxonomy for model calls.
type ErrorCategory string

const (
	ErrorTimeout        ErrorCategory = "timeout"
	ErrorAuthentication ErrorCategory = "authentication"
	ErrorRateLimited    ErrorCategory = "rate_limited"
	ErrorProviderOutage ErrorCategory = "provider_outage"
	ErrorBadRequest     ErrorCategory = "bad_request"
	ErrorBadData        ErrorCategory = "bad_data"
	ErrorInternal       ErrorCategory = "internal"
)

// ProviderError wraps a failed call with its category.
type ProviderError struct {
	Category   ErrorCategory
	StatusCode int
	Message    string
	Underlying error
	Retryable  bool
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("openai [%s]: %s: %v", e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("openai [%s]: %s", e.Category, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Underlying }

func newProviderError(category ErrorCategory, status int, message string, underlying error) *ProviderError {
	return &ProviderError{
		Category:   category,
		StatusCode: status,
		Message:    message,
		Underlying: underlying,
		Retryable:  category == ErrorRateLimited || category == ErrorProviderOutage,
	}
}

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// GetCategory extracts the category of err, ErrorInternal if unknown.
func GetCategory(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ErrorInternal
}

func classifyStatus(status int, body []byte) *ProviderError {
	msg := fmt.Sprintf("status %d: %s", status, truncate(body, 512))
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return newProviderError(ErrorAuthentication, status, msg, nil)
	case status == http.StatusTooManyRequests:
		return newProviderError(ErrorRateLimited, status, msg, nil)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return newProviderError(ErrorTimeout, status, msg, nil)
	case status >= 500:
		return newProviderError(ErrorProviderOutage, status, msg, nil)
	default:
		return newProviderError(ErrorBadRequest, status, msg, nil)
	}
}

func classifyTransport(err error) *ProviderError {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return newProviderError(ErrorTimeout, 0, "request deadline exceeded", err)
	case errors.Is(err, context.Canceled):
		return newProviderError(ErrorTimeout, 0, "request cancelled", err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return newProviderError(ErrorTimeout, 0, "request timed out", err)
	default:
		return newProviderError(ErrorProviderOutage, 0, "request failed", err)
	}
}

func truncate(b []byte, limit int) string {
	if len(b) <= limit {
		return string(b)
	}
	return string(b[:limit]) + "... (truncated)"
}
