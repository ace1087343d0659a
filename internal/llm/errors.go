package llm

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors classifying generation failures. Callers branch with
// errors.Is; typed errors below carry the remote details.
var (
	ErrAuthentication   = errors.New("authentication rejected")
	ErrRateLimited      = errors.New("rate limited")
	ErrTransientNetwork = errors.New("transient network failure")
	ErrUpstream         = errors.New("upstream error")
)

// RateLimitError signals provider quota exhaustion. RetryAfter is the
// server-specified delay, zero when the provider did not send one.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// UpstreamError carries the remote status and message verbatim for display.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: http status %d: %s", e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }
