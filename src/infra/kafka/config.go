package kafka

import (
	"strings"
	"time"

	"github.com/IBM/sarama"
)

// Brokers splits a comma separated broker list.
func Brokers(csv string) []string {
	var brokers []string
	for _, broker := range strings.Split(csv, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

func newConfig(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Version = sarama.V2_8_0_0
	return cfg
}

func consumerConfig(batchSize int) *sarama.Config {
	cfg := newConfig("domaintracker-consumer")
	cfg.ChannelBufferSize = batchSize * 2
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Offsets.AutoCommit.Interval = time.Second
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategySticky()}
	cfg.Consumer.Group.Session.Timeout = 30 * time.Second
	cfg.Consumer.Group.Heartbeat.Interval = 10 * time.Second
	// a batch write can hold a partition for the whole transaction
	cfg.Consumer.MaxProcessingTime = time.Minute
	return cfg
}

func producerConfig() *sarama.Config {
	cfg := newConfig("domaintracker-producer")
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	return cfg
}
