package docint_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"invex/internal/docint"
)

func TestConfigError_Error(t *testing.T) {
	err := &docint.ConfigError{Reason: "endpoint is not set"}
	assert.Equal(t, "docint configuration: endpoint is not set", err.Error())
}

func TestUpstreamError_Error(t *testing.T) {
	err := &docint.UpstreamError{StatusCode: 400, Code: "InvalidRequest", Detail: "bad document"}
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "InvalidRequest")
	assert.Contains(t, err.Error(), "bad document")
}

func TestUpstreamError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &docint.UpstreamError{Detail: "submitting document", Err: inner}
	assert.True(t, errors.Is(err, inner))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestTimeoutError_Error(t *testing.T) {
	err := &docint.TimeoutError{Polls: 60, Elapsed: 60 * time.Second}
	assert.Contains(t, err.Error(), "60 polls")
}

func TestTimeoutError_UnwrapContextError(t *testing.T) {
	err := &docint.TimeoutError{Polls: 3, Elapsed: time.Second, Err: context.DeadlineExceeded}
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
