package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Category is the failure class of a call to an external model or embedding API.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryDailyQuota
	CategoryRateLimited
	CategoryAuth
	CategoryTimeout
	CategoryConnection
	CategoryModelNotFound
)

func (c Category) String() string {
	switch c {
	case CategoryDailyQuota:
		return "daily_quota"
	case CategoryRateLimited:
		return "rate_limited"
	case CategoryAuth:
		return "auth"
	case CategoryTimeout:
		return "timeout"
	case CategoryConnection:
		return "connection"
	case CategoryModelNotFound:
		return "model_not_found"
	default:
		return "unknown"
	}
}

// Error is returned by provider clients instead of bare fmt errors so callers can
// branch on Category without inspecting vendor text.
type Error struct {
	Provider   string
	StatusCode int
	Category   Category
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error: status %d, body: %s", e.Provider, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FromResponse builds an Error from a non-2xx HTTP response.
func FromResponse(provider string, statusCode int, body []byte) *Error {
	msg := string(body)
	return &Error{
		Provider:   provider,
		StatusCode: statusCode,
		Category:   Classify(statusCode, msg),
		Message:    msg,
	}
}

// FromTransport wraps an error raised before any response was read.
func FromTransport(provider string, err error) *Error {
	category := CategoryConnection
	if isTimeout(err) {
		category = CategoryTimeout
	}
	return &Error{
		Provider: provider,
		Category: category,
		Err:      err,
	}
}

// Classify maps a status code and response text to a Category. Status codes win
// over text; text is only consulted for statuses that don't decide on their own.
func Classify(statusCode int, text string) Category {
	lower := strings.ToLower(text)

	switch {
	case statusCode == http.StatusTooManyRequests || mentionsQuota(lower):
		if isDaily(lower) {
			return CategoryDailyQuota
		}
		return CategoryRateLimited
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return CategoryAuth
	case statusCode == http.StatusNotFound:
		return CategoryModelNotFound
	case statusCode == http.StatusRequestTimeout || statusCode == http.StatusGatewayTimeout:
		return CategoryTimeout
	}

	if strings.Contains(lower, "api key") || strings.Contains(lower, "authentication") {
		return CategoryAuth
	}
	return CategoryUnknown
}

// CategoryOf reports the category of err. Typed errors carry their own; anything
// else (wrapped SDK errors, plain strings) is classified from its text using the
// same precedence the user-facing messages follow.
func CategoryOf(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	var upErr *Error
	if errors.As(err, &upErr) {
		return upErr.Category
	}
	if isTimeout(err) {
		return CategoryTimeout
	}

	raw := err.Error()
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(raw, "429") || mentionsQuota(lower) || strings.Contains(lower, "rate"):
		if isDaily(lower) {
			return CategoryDailyQuota
		}
		return CategoryRateLimited
	case strings.Contains(raw, "401") || strings.Contains(raw, "403") ||
		strings.Contains(lower, "api key") || strings.Contains(lower, "authentication"):
		return CategoryAuth
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "timed out"):
		return CategoryTimeout
	case strings.Contains(lower, "connection") || strings.Contains(lower, "network"):
		return CategoryConnection
	case strings.Contains(raw, "404") || strings.Contains(lower, "not found"):
		return CategoryModelNotFound
	}
	return CategoryUnknown
}

// IsRateLimited reports whether err is worth retrying after a backoff.
func IsRateLimited(err error) bool {
	c := CategoryOf(err)
	return c == CategoryRateLimited || c == CategoryDailyQuota
}

func mentionsQuota(lower string) bool {
	return strings.Contains(lower, "quota") ||
		strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "resource_exhausted")
}

func isDaily(lower string) bool {
	return strings.Contains(lower, "daily") ||
		strings.Contains(lower, "limit: 0") ||
		strings.Contains(lower, "per day")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
