// Package consumers contains Kafka consumers for background processing tasks.
package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/bell24h/supplierrisk/internal/config"
	"github.com/bell24h/supplierrisk/internal/domain/models"
	"github.com/bell24h/supplierrisk/pkg/constants"
	apperrors "github.com/bell24h/supplierrisk/pkg/errors"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

const (
	initialRetryBackoff = 200 * time.Millisecond
	maxRetryBackoff     = 30 * time.Second
)

// SupplierUpdater persists a refreshed supplier record.
type SupplierUpdater interface {
	UpsertSupplier(ctx context.Context, profile *models.SupplierProfile) error
}

// messageReader is the subset of *kafka.Reader used by the consumer.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ResultRecorder counts consumed messages.
type ResultRecorder interface {
	RecordSupplierUpdate(success bool)
}

// SupplierUpdateConsumer listens for supplier profile updates published by the marketplace
// and writes them to the supplier store.
type SupplierUpdateConsumer struct {
	reader     messageReader
	updater    SupplierUpdater
	metrics    ResultRecorder
	logger     logger.Logger
	minBackoff time.Duration
	maxBackoff time.Duration
}

// NewSupplierUpdateConsumer creates a consumer on the supplier updates topic.
func NewSupplierUpdateConsumer(cfg config.KafkaConfig, updater SupplierUpdater, metrics ResultRecorder, log logger.Logger) *SupplierUpdateConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.SupplierUpdatesTopic,
		GroupID:        cfg.GroupID, // all instances share the group
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})
	return newSupplierUpdateConsumer(reader, updater, metrics, log)
}

func newSupplierUpdateConsumer(r messageReader, updater SupplierUpdater, metrics ResultRecorder, log logger.Logger) *SupplierUpdateConsumer {
	return &SupplierUpdateConsumer{
		reader:     r,
		updater:    updater,
		metrics:    metrics,
		logger:     log.WithComponent("SupplierUpdateConsumer"),
		minBackoff: initialRetryBackoff,
		maxBackoff: maxRetryBackoff,
	}
}

// Start runs the consumer loop until ctx is cancelled. It is a blocking call.
func (c *SupplierUpdateConsumer) Start(ctx context.Context) error {
	c.logger.Info(ctx, "starting supplier update consumer")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.logger.Info(context.Background(), "stopping supplier update consumer")
				return nil
			}
			c.logger.Error(ctx, "failed to fetch message from kafka", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		if !c.process(ctx, msg) {
			// cancelled mid-retry; the uncommitted message is fetched again on restart
			c.logger.Info(context.Background(), "stopping supplier update consumer")
			return nil
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error(ctx, "failed to commit kafka message", err)
		}
	}
}

// process applies msg, retrying transient failures in place with exponential backoff.
// Offsets are committed in order, so moving past a failed message would lose it.
// It reports false only when ctx is cancelled before the message is settled.
func (c *SupplierUpdateConsumer) process(ctx context.Context, msg kafka.Message) bool {
	backoff := c.minBackoff
	for attempt := 1; ; attempt++ {
		err := c.handleMessage(ctx, msg)
		if err == nil {
			c.record(true)
			return true
		}
		c.record(false)

		var perr *poisonError
		if errors.As(err, &perr) || apperrors.IsClientError(err) {
			// a poison pill is committed so it is not redelivered forever
			c.logger.Error(ctx, "discarding unprocessable supplier update", err,
				logger.Int("partition", msg.Partition),
				logger.Int("offset", int(msg.Offset)),
			)
			return true
		}

		c.logger.Error(ctx, "failed to apply supplier update, retrying", err,
			logger.Int("attempt", attempt),
			logger.Duration("backoff", backoff),
		)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > c.maxBackoff {
			backoff = c.maxBackoff
		}
	}
}

// Close releases the Kafka reader.
func (c *SupplierUpdateConsumer) Close() error {
	return c.reader.Close()
}

func (c *SupplierUpdateConsumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	var event models.SupplierUpdatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return &poisonError{message: "invalid supplier update payload", underlying: err}
	}
	if event.EventType != "" && event.EventType != constants.EventTypeSupplierUpdated {
		return &poisonError{message: "unexpected event type " + event.EventType}
	}
	if event.Supplier.ID == "" {
		return &poisonError{message: "supplier update missing supplier id"}
	}

	c.logger.Debug(ctx, "applying supplier update", logger.String("supplier_id", event.Supplier.ID))
	return c.updater.UpsertSupplier(ctx, &event.Supplier)
}

func (c *SupplierUpdateConsumer) record(success bool) {
	if c.metrics != nil {
		c.metrics.RecordSupplierUpdate(success)
	}
}

// poisonError marks a message that can never be processed.
type poisonError struct {
	message    string
	underlying error
}

func (e *poisonError) Error() string {
	if e.underlying != nil {
		return e.message + ": " + e.underlying.Error()
	}
	return e.message
}
