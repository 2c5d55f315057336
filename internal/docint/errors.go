package docint

import (
	"fmt"
	"time"
)

// ConfigError indicates missing or malformed client configuration. It is
// always raised before any network call is attempted.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "docint configuration: " + e.Reason
}

// UpstreamError indicates the analysis service rejected a request or reported
// that the analyze operation failed.
type UpstreamError struct {
	StatusCode int
	Code       string
	Detail     string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := "analysis service error"
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// TimeoutError indicates the polling bound was exceeded (or the caller's
// context expired) before the operation reached a terminal status. The
// operation itself may still complete on the service side; the client simply
// stopped waiting.
type TimeoutError struct {
	Polls   int
	Elapsed time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("analysis timed out after %d polls (%s)", e.Polls, e.Elapsed.Round(time.Millisecond))
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}
