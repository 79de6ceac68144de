package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"minhasfinancas/internal/core"
)

// messageReader is the part of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const maxHandleAttempts = 3

type Consumer struct {
	reader     messageReader
	retryDelay time.Duration
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		retryDelay: time.Second,
	}
}

// ConsumeEntryEvents hands each event to handler and commits its offset on
// success. Committing an offset acknowledges everything before it, so a
// failing message is retried in place; after maxHandleAttempts the consumer
// stops with the offset uncommitted and the group redelivers it on restart.
// Undecodable messages are committed and skipped.
func (c *Consumer) ConsumeEntryEvents(ctx context.Context, handler func(context.Context, core.EntryEvent) error) error {
	slog.InfoContext(ctx, "Started consuming entry events", "transport", "kafka")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
				return ctx.Err()
			}
			return fmt.Errorf("fetch kafka message: %w", err)
		}

		ev, err := core.EntryEventFromJSON(msg.Value)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to unmarshal event",
				"error", err, "partition", msg.Partition, "offset", msg.Offset)
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return fmt.Errorf("commit kafka message: %w", err)
			}
			continue
		}

		if err := c.handle(ctx, handler, ev, msg.Offset); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit kafka message: %w", err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, handler func(context.Context, core.EntryEvent) error, ev core.EntryEvent, offset int64) error {
	for attempt := 1; ; attempt++ {
		err := handler(ctx, ev)
		if err == nil {
			return nil
		}
		slog.ErrorContext(ctx, "Failed to handle event",
			"error", err,
			"event_id", ev.ID,
			"entry_id", ev.EntryID,
			"offset", offset,
			"attempt", attempt)
		if attempt == maxHandleAttempts {
			return fmt.Errorf("handle event %s at offset %d: %w", ev.ID, offset, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
