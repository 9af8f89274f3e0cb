package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/biosmart-lab/informatics/pkg/common/logger"
	"github.com/biosmart-lab/informatics/pkg/common/models"
	"github.com/segmentio/kafka-go"
)

const (
	defaultHandlerAttempts = 3
	defaultRetryDelay      = 200 * time.Millisecond
	maxFetchBackoff        = 5 * time.Second
)

type Consumer struct {
	reader          *kafka.Reader
	handlerAttempts int
	retryDelay      time.Duration
}

type EventHandler func(ctx context.Context, event models.Event) error

func NewConsumer(brokers []string, topic string, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})

	return &Consumer{
		reader:          reader,
		handlerAttempts: defaultHandlerAttempts,
		retryDelay:      defaultRetryDelay,
	}
}

// Consume blocks until ctx is cancelled. A handler error is retried with
// backoff; once attempts run out the message is logged, committed and
// skipped. Group offsets only move forward, so an uncommitted message would
// be passed over by the next commit anyway. Undecodable messages are
// skipped the same way.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	fetchBackoff := c.retryDelay
	for {
		message, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			logger.Log.WithError(err).WithField("retry_in", fetchBackoff.String()).Error("Failed to fetch message")
			if !sleep(ctx, fetchBackoff) {
				return ctx.Err()
			}
			fetchBackoff = nextBackoff(fetchBackoff, maxFetchBackoff)
			continue
		}
		fetchBackoff = c.retryDelay

		var event models.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			logger.Log.WithError(err).WithField("offset", message.Offset).Warn("Skipping undecodable event")
			c.commit(ctx, message)
			continue
		}

		if err := handleWithRetry(ctx, handler, event, c.handlerAttempts, c.retryDelay); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Log.WithError(err).WithFields(map[string]interface{}{
				"event_id": event.ID,
				"offset":   message.Offset,
			}).Error("Dropping event after failed attempts")
		}
		c.commit(ctx, message)
	}
}

func (c *Consumer) commit(ctx context.Context, message kafka.Message) {
	if err := c.reader.CommitMessages(ctx, message); err != nil {
		logger.Log.WithError(err).WithField("offset", message.Offset).Error("Failed to commit message")
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// handleWithRetry runs handler up to attempts times, doubling delay between
// tries. It returns the last handler error, or ctx.Err() if ctx ends first.
func handleWithRetry(ctx context.Context, handler EventHandler, event models.Event, attempts int, delay time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = handler(ctx, event); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"event_id": event.ID,
			"attempt":  i + 1,
		}).Warn("Event handler failed, retrying")
		if !sleep(ctx, delay) {
			return ctx.Err()
		}
		delay = nextBackoff(delay, maxFetchBackoff)
	}
	return err
}

func nextBackoff(d, limit time.Duration) time.Duration {
	d *= 2
	if d > limit {
		return limit
	}
	return d
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
