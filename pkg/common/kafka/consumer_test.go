package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/biosmart-lab/informatics/pkg/common/models"
	"github.com/stretchr/testify/assert"
)

func TestHandleWithRetryRecovers(t *testing.T) {
	calls := 0
	handler := func(context.Context, models.Event) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}

	err := handleWithRetry(context.Background(), handler, models.Event{ID: "e1"}, 3, time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestHandleWithRetryGivesUp(t *testing.T) {
	calls := 0
	boom := errors.New("poison message")
	handler := func(context.Context, models.Event) error {
		calls++
		return boom
	}

	err := handleWithRetry(context.Background(), handler, models.Event{ID: "e2"}, 3, time.Millisecond)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestHandleWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	handler := func(context.Context, models.Event) error {
		calls++
		cancel()
		return errors.New("failed")
	}

	err := handleWithRetry(ctx, handler, models.Event{ID: "e3"}, 5, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestNextBackoff(t *testing.T) {
	assert.Equal(t, 400*time.Millisecond, nextBackoff(200*time.Millisecond, maxFetchBackoff))
	assert.Equal(t, maxFetchBackoff, nextBackoff(4*time.Second, maxFetchBackoff))
}

func TestSleep(t *testing.T) {
	assert.True(t, sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleep(ctx, time.Hour))
}
