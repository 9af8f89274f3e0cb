package httpclient

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryStopsOnSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return &StatusError{Code: http.StatusBadGateway}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryDoesNotRepeatPermanentErrors(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return &StatusError{Code: http.StatusUnauthorized}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryGivesUp(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return context.DeadlineExceeded
	})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, 3, calls)
}

func TestRetryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Millisecond, func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetriable(t *testing.T) {
	assert.True(t, IsRetriable(&StatusError{Code: http.StatusServiceUnavailable}))
	assert.True(t, IsRetriable(&StatusError{Code: http.StatusTooManyRequests}))
	assert.False(t, IsRetriable(&StatusError{Code: http.StatusForbidden}))
	assert.False(t, IsRetriable(errors.New("boom")))
}
