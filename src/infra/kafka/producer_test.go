package kafka

import (
	"errors"
	"io"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Producer", func() {
	var (
		broker   *mocks.SyncProducer
		producer *Producer
		batch    []Message
	)

	BeforeEach(func() {
		broker = mocks.NewSyncProducer(GinkgoT(), nil)
		producer = &Producer{logger: slog.New(slog.NewTextHandler(io.Discard, nil)), producer: broker}
		batch = []Message{
			{Key: "canada.ca", Value: []byte(`{"domain":"canada.ca"}`)},
			{Key: "tbs-sct.gc.ca", Value: []byte(`{"domain":"tbs-sct.gc.ca"}`)},
		}
	})

	AfterEach(func() {
		Expect(broker.Close()).To(Succeed())
	})

	When("the broker accepts every message", func() {
		It("should publish the batch", func() {
			// ARRANGE
			broker.ExpectSendMessageAndSucceed()
			broker.ExpectSendMessageAndSucceed()

			// ACT
			err := producer.Publish("scan-results", batch)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
		})
	})

	When("the broker rejects a message", func() {
		It("should return the broker error", func() {
			// ARRANGE
			broker.ExpectSendMessageAndSucceed()
			broker.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

			// ACT
			err := producer.Publish("scan-results", batch)

			// ASSERT
			Expect(err).To(MatchError(ContainSubstring("Producer.Publish")))
			Expect(errors.Is(err, sarama.ErrOutOfBrokers)).To(BeTrue())
		})
	})

	When("the batch is empty", func() {
		It("should not contact the broker", func() {
			// ACT
			err := producer.Publish("scan-results", nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
		})
	})
})

var _ = DescribeTable("Brokers",
	func(csv string, expected []string) {
		Expect(Brokers(csv)).To(Equal(expected))
	},
	Entry("single broker", "localhost:9092", []string{"localhost:9092"}),
	Entry("trims whitespace", "kafka-1:9092, kafka-2:9092", []string{"kafka-1:9092", "kafka-2:9092"}),
	Entry("skips empty entries", "kafka-1:9092,,", []string{"kafka-1:9092"}),
	Entry("empty list", "", []string(nil)),
)
