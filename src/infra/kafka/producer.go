package kafka

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"
)

// Producer publishes batches synchronously.
type Producer struct {
	logger   *slog.Logger
	producer sarama.SyncProducer
}

func NewProducer(logger *slog.Logger, brokers []string) (*Producer, error) {
	producer, err := sarama.NewSyncProducer(brokers, producerConfig())
	if err != nil {
		return nil, fmt.Errorf("kafka.NewProducer - %w", err)
	}
	return &Producer{logger: logger, producer: producer}, nil
}

// Publish sends messages to topic. Partial failures report how many of the
// batch were lost along with the first cause.
func (p *Producer) Publish(topic string, messages []Message) error {
	if len(messages) == 0 {
		return nil
	}

	records := make([]*sarama.ProducerMessage, 0, len(messages))
	for _, msg := range messages {
		records = append(records, &sarama.ProducerMessage{
			Topic: topic,
			Key:   sarama.StringEncoder(msg.Key),
			Value: sarama.ByteEncoder(msg.Value),
		})
	}

	err := p.producer.SendMessages(records)
	var failed sarama.ProducerErrors
	if errors.As(err, &failed) && len(failed) > 0 {
		return fmt.Errorf("Producer.Publish - %d of %d messages failed: %w", len(failed), len(messages), failed[0].Err)
	}
	if err != nil {
		return fmt.Errorf("Producer.Publish - %w", err)
	}

	p.logger.Debug("Batch published", "topic", topic, "count", len(messages))
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
