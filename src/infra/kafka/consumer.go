package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
)

const (
	flushInterval = 2 * time.Second
	backoff       = 5 * time.Second
)

// Message is one record, keyed by hostname for scan results.
type Message struct {
	Key   string
	Value []byte

	source *sarama.ConsumerMessage
}

// Handler processes one batch. A batch that returns an error is handed over
// again until it succeeds or the session ends, and stays unmarked until then.
type Handler func(ctx context.Context, messages []Message) error

// BatchConsumer reads a topic through a consumer group and hands it to a
// Handler in batches of up to batchSize messages.
type BatchConsumer struct {
	logger    *slog.Logger
	group     sarama.ConsumerGroup
	batchSize int
}

func NewBatchConsumer(logger *slog.Logger, brokers []string, groupID string, batchSize int) (*BatchConsumer, error) {
	group, err := sarama.NewConsumerGroup(brokers, groupID, consumerConfig(batchSize))
	if err != nil {
		return nil, fmt.Errorf("kafka.NewBatchConsumer - group %s: %w", groupID, err)
	}

	logger.Info("Kafka consumer group ready", "brokers", brokers, "group_id", groupID, "batch_size", batchSize)
	return &BatchConsumer{logger: logger, group: group, batchSize: batchSize}, nil
}

// Run blocks until ctx is done, rejoining the group after every rebalance.
func (c *BatchConsumer) Run(ctx context.Context, topic string, handler Handler) error {
	claims := &batchHandler{logger: c.logger, handle: handler, batchSize: c.batchSize, retryDelay: backoff}

	for ctx.Err() == nil {
		err := c.group.Consume(ctx, []string{topic}, claims)
		switch {
		case errors.Is(err, sarama.ErrClosedConsumerGroup):
			return nil
		case err != nil:
			c.logger.Error("Consume failed, retrying", "topic", topic, "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(backoff):
			}
		}
	}

	c.logger.Info("Kafka consumer stopped", "topic", topic)
	return nil
}

func (c *BatchConsumer) Close() error {
	return c.group.Close()
}

type batchHandler struct {
	logger     *slog.Logger
	handle     Handler
	batchSize  int
	retryDelay time.Duration
}

func (h *batchHandler) Setup(session sarama.ConsumerGroupSession) error {
	h.logger.Debug("Partitions assigned", "claims", session.Claims())
	return nil
}

func (h *batchHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim flushes when the batch is full, when flushInterval passes,
// and once more when the claim ends. A batch that cannot be written stops
// the claim before anything after it is marked.
func (h *batchHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	batch := make([]Message, 0, h.batchSize)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	flush := func() bool {
		ok := h.flush(session, batch)
		batch = batch[:0]
		return ok
	}

	for {
		select {
		case record, ok := <-claim.Messages():
			if !ok {
				flush()
				return nil
			}
			batch = append(batch, Message{Key: string(record.Key), Value: record.Value, source: record})
			if len(batch) >= h.batchSize && !flush() {
				return nil
			}
		case <-ticker.C:
			if !flush() {
				return nil
			}
		case <-session.Context().Done():
			flush()
			return nil
		}
	}
}

// flush hands the batch to the handler, retrying until it succeeds or the
// session ends, and marks it only on success. It reports false when the
// batch was left unmarked.
func (h *batchHandler) flush(session sarama.ConsumerGroupSession, batch []Message) bool {
	if len(batch) == 0 {
		return true
	}

	for attempt := 1; ; attempt++ {
		err := h.handle(session.Context(), batch)
		if err == nil {
			break
		}

		h.logger.Error("Batch handler failed, retrying", "count", len(batch), "attempt", attempt, "error", err)
		select {
		case <-session.Context().Done():
			h.logger.Warn("Session ended with an unwritten batch, it will be redelivered", "count", len(batch))
			return false
		case <-time.After(h.retryDelay):
		}
	}

	for _, msg := range batch {
		if msg.source != nil {
			session.MarkMessage(msg.source, "")
		}
	}
	return true
}
