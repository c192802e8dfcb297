package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"domaintracker/src/domain"
	"domaintracker/src/infra/kafka"
	"domaintracker/src/infra/metrics"
)

var (
	errUnknownType = errors.New("unknown scan type")
	errNoTimestamp = errors.New("timestamp is required")
	errNotObject   = errors.New("must be a JSON object")
	errSubResults  = errors.New("results are only accepted on dkim scans")
)

// ScanResultMessage is the JSON payload of one scan published by the
// scanners.
type ScanResultMessage struct {
	Domain       string            `json:"domain"`
	Type         string            `json:"type"`
	Timestamp    time.Time         `json:"timestamp"`
	Status       string            `json:"status"`
	Data         json.RawMessage   `json:"data"`
	PositiveTags []string          `json:"positiveTags"`
	NeutralTags  []string          `json:"neutralTags"`
	NegativeTags []string          `json:"negativeTags"`
	Results      []json.RawMessage `json:"results"`
}

type ScanWriter interface {
	IngestScans(ctx context.Context, request domain.IngestScansRequest) error
}

type ScanResultsConsumer struct {
	logger     *slog.Logger
	scanWriter ScanWriter
}

func NewScanResultsConsumer(logger *slog.Logger, scanWriter ScanWriter) *ScanResultsConsumer {
	return &ScanResultsConsumer{
		logger:     logger,
		scanWriter: scanWriter,
	}
}

// Start consumes topic until ctx is cancelled.
func (c *ScanResultsConsumer) Start(ctx context.Context, source *kafka.BatchConsumer, topic string) error {
	c.logger.Info("Starting scan results consumer", "topic", topic)
	return source.Run(ctx, topic, c.HandleMessages)
}

// HandleMessages writes the valid scans of a batch in one transaction.
// Malformed messages are logged and dropped; a write failure fails the
// whole batch.
func (c *ScanResultsConsumer) HandleMessages(ctx context.Context, messages []kafka.Message) error {
	if len(messages) == 0 {
		return nil
	}

	request := domain.IngestScansRequest{BatchID: uuid.NewString()}

	for _, msg := range messages {
		var message ScanResultMessage
		if err := json.Unmarshal(msg.Value, &message); err != nil {
			c.reject(msg, "malformed", err)
			continue
		}

		scan, err := toScanRecord(message)
		if err != nil {
			c.reject(msg, "invalid", err)
			continue
		}

		request.Scans = append(request.Scans, scan)
	}

	if len(request.Scans) == 0 {
		return nil
	}

	if err := c.scanWriter.IngestScans(ctx, request); err != nil {
		c.logger.Error("Failed to ingest scan results",
			"batch_id", request.BatchID,
			"count", len(request.Scans),
			"error", err)
		return fmt.Errorf("ScanResultsConsumer.HandleMessages - failed to ingest batch %s: %w", request.BatchID, err)
	}

	for _, scan := range request.Scans {
		metrics.ScansIngested.WithLabelValues(string(scan.Type)).Inc()
	}

	c.logger.Info("Successfully processed scan results batch",
		"batch_id", request.BatchID,
		"messages", len(messages),
		"scans", len(request.Scans))

	return nil
}

func (c *ScanResultsConsumer) reject(msg kafka.Message, reason string, err error) {
	metrics.ScansRejected.WithLabelValues(reason).Inc()
	c.logger.Warn("Skipping scan result message",
		"reason", reason,
		"key", msg.Key,
		"error", err)
}

func toScanRecord(message ScanResultMessage) (domain.ScanRecord, error) {
	hostname, err := domain.NormalizeHostname(message.Domain)
	if err != nil {
		return domain.ScanRecord{}, err
	}

	scanType := domain.ScanType(strings.ToLower(message.Type))
	if !scanType.Valid() {
		return domain.ScanRecord{}, fmt.Errorf("%w: %q", errUnknownType, message.Type)
	}

	if message.Timestamp.IsZero() {
		return domain.ScanRecord{}, errNoTimestamp
	}

	if len(message.Data) > 0 && !isObject(message.Data) {
		return domain.ScanRecord{}, fmt.Errorf("data %w", errNotObject)
	}

	if len(message.Results) > 0 && scanType != domain.ScanDkim {
		return domain.ScanRecord{}, fmt.Errorf("%w, got %s", errSubResults, scanType)
	}
	for i, result := range message.Results {
		if !isObject(result) {
			return domain.ScanRecord{}, fmt.Errorf("results[%d] %w", i, errNotObject)
		}
	}

	return domain.ScanRecord{
		Domain:       hostname,
		Type:         scanType,
		Timestamp:    message.Timestamp.UTC(),
		Status:       message.Status,
		Properties:   message.Data,
		SubResults:   message.Results,
		PositiveTags: message.PositiveTags,
		NeutralTags:  message.NeutralTags,
		NegativeTags: message.NegativeTags,
	}, nil
}

func isObject(raw json.RawMessage) bool {
	var object map[string]json.RawMessage
	return json.Unmarshal(raw, &object) == nil && object != nil
}
