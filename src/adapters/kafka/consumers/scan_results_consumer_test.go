package consumers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"domaintracker/src/adapters/kafka/consumers"
	"domaintracker/src/domain"
	"domaintracker/src/infra/kafka"
	"domaintracker/src/test_artefacts/comparer"
)

type fakeScanWriter struct {
	requests []domain.IngestScansRequest
	err      error
}

func (f *fakeScanWriter) IngestScans(_ context.Context, request domain.IngestScansRequest) error {
	f.requests = append(f.requests, request)
	return f.err
}

func message(value string) kafka.Message {
	return kafka.Message{Key: "k", Value: []byte(value)}
}

var _ = Describe("ScanResultsConsumer", func() {
	var (
		writer   *fakeScanWriter
		logs     *bytes.Buffer
		consumer *consumers.ScanResultsConsumer
		ctx      context.Context
	)

	BeforeEach(func() {
		writer = &fakeScanWriter{}
		logs = &bytes.Buffer{}
		consumer = consumers.NewScanResultsConsumer(slog.New(slog.NewJSONHandler(logs, nil)), writer)
		ctx = context.Background()
	})

	When("the batch holds valid scans", func() {
		It("should ingest them as one request with normalized domains", func() {
			// ARRANGE
			messages := []kafka.Message{
				message(`{"domain":" Canada.CA. ","type":"DMARC","timestamp":"2024-05-01T12:00:00-04:00","status":"pass","data":{"record":"v=DMARC1; p=reject"},"positiveTags":["dmarc23"]}`),
				message(`{"domain":"mail.gc.ca","type":"dkim","timestamp":"2024-05-01T16:00:00Z","status":"fail","results":[{"selector":"selector1"}],"negativeTags":["dkim7"]}`),
			}

			// ACT
			err := consumer.HandleMessages(ctx, messages)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(writer.requests).To(HaveLen(1))
			Expect(writer.requests[0].BatchID).NotTo(BeEmpty())
			Expect(writer.requests[0].Scans).To(BeComparableTo([]domain.ScanRecord{
				{
					Domain:       "canada.ca",
					Type:         domain.ScanDmarc,
					Timestamp:    time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC),
					Status:       "pass",
					Properties:   json.RawMessage(`{"record":"v=DMARC1; p=reject"}`),
					PositiveTags: []string{"dmarc23"},
				},
				{
					Domain:       "mail.gc.ca",
					Type:         domain.ScanDkim,
					Timestamp:    time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC),
					Status:       "fail",
					SubResults:   []json.RawMessage{json.RawMessage(`{"selector":"selector1"}`)},
					NegativeTags: []string{"dkim7"},
				},
			}, comparer.ScanRecord()))
		})
	})

	When("some messages are invalid", func() {
		It("should skip them and keep the rest", func() {
			// ARRANGE
			messages := []kafka.Message{
				message(`not json`),
				message(`{"domain":"com","type":"spf","timestamp":"2024-05-01T12:00:00Z"}`),
				message(`{"domain":"canada.ca","type":"https","timestamp":"2024-05-01T12:00:00Z"}`),
				message(`{"domain":"canada.ca","type":"spf"}`),
				message(`{"domain":"canada.ca","type":"ssl","timestamp":"2024-05-01T12:00:00Z","status":"pass"}`),
			}

			// ACT
			err := consumer.HandleMessages(ctx, messages)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(writer.requests).To(HaveLen(1))
			Expect(writer.requests[0].Scans).To(HaveLen(1))
			Expect(writer.requests[0].Scans[0].Type).To(Equal(domain.ScanSsl))
			Expect(logs.String()).To(ContainSubstring(`"reason":"malformed"`))
			Expect(logs.String()).To(ContainSubstring(`"reason":"invalid"`))
		})
	})

	DescribeTable("rejecting payloads of the wrong shape",
		func(payload string) {
			// ARRANGE
			messages := []kafka.Message{
				message(payload),
				message(`{"domain":"canada.ca","type":"spf","timestamp":"2024-05-01T12:00:00Z","status":"pass"}`),
			}

			// ACT
			err := consumer.HandleMessages(ctx, messages)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(writer.requests).To(HaveLen(1))
			Expect(writer.requests[0].Scans).To(HaveLen(1))
			Expect(writer.requests[0].Scans[0].Type).To(Equal(domain.ScanSpf))
			Expect(logs.String()).To(ContainSubstring(`"reason":"invalid"`))
		},
		Entry("null data", `{"domain":"canada.ca","type":"dmarc","timestamp":"2024-05-01T12:00:00Z","data":null}`),
		Entry("array data", `{"domain":"canada.ca","type":"dmarc","timestamp":"2024-05-01T12:00:00Z","data":[1]}`),
		Entry("string data", `{"domain":"canada.ca","type":"ssl","timestamp":"2024-05-01T12:00:00Z","data":"x"}`),
		Entry("results on a dmarc scan", `{"domain":"canada.ca","type":"dmarc","timestamp":"2024-05-01T12:00:00Z","results":[{"selector":"s1"}]}`),
		Entry("results on an spf scan", `{"domain":"canada.ca","type":"spf","timestamp":"2024-05-01T12:00:00Z","results":[{"selector":"s1"}]}`),
		Entry("a dkim result that is not an object", `{"domain":"canada.ca","type":"dkim","timestamp":"2024-05-01T12:00:00Z","results":[null]}`),
	)

	When("no message is valid", func() {
		It("should not open a write", func() {
			// ACT
			err := consumer.HandleMessages(ctx, []kafka.Message{message(`{}`)})

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(writer.requests).To(BeEmpty())
		})
	})

	When("the write fails", func() {
		It("should fail the batch so it is redelivered", func() {
			// ARRANGE
			writer.err = errors.New("deadlock detected")

			// ACT
			err := consumer.HandleMessages(ctx, []kafka.Message{
				message(`{"domain":"canada.ca","type":"spf","timestamp":"2024-05-01T12:00:00Z","status":"info"}`),
			})

			// ASSERT
			Expect(err).To(MatchError(ContainSubstring("deadlock detected")))
		})
	})
})
