//go:build datagen_scan_results
// +build datagen_scan_results

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"domaintracker/src/adapters/kafka/consumers"
	"domaintracker/src/domain"
	"domaintracker/src/infra/kafka"

	"github.com/go-faker/faker/v4"
)

var scanTypes = []domain.ScanType{domain.ScanDkim, domain.ScanDmarc, domain.ScanSpf, domain.ScanSsl}

// generateDomains builds a fixed pool so repeated scans land on the same
// domains.
func generateDomains(count int) []string {
	hostnames := make([]string, count)
	for i := range hostnames {
		hostnames[i] = fmt.Sprintf("%s.%s", strings.ToLower(faker.Word()), faker.DomainName())
	}
	return hostnames
}

func generateScan(hostname string, scanType domain.ScanType, timestamp time.Time, invalidRate float64) consumers.ScanResultMessage {
	msg := consumers.ScanResultMessage{
		Domain:       hostname,
		Type:         string(scanType),
		Timestamp:    timestamp,
		Status:       []string{"pass", "fail", "info"}[rand.Intn(3)],
		PositiveTags: []string{fmt.Sprintf("%s%d", scanType, rand.Intn(20)+1)},
		NegativeTags: []string{},
	}

	var data map[string]any
	switch scanType {
	case domain.ScanDkim:
		msg.Results = []json.RawMessage{mustJSON(map[string]any{
			"selector":     "selector1",
			"record":       "v=DKIM1; k=rsa; p=" + faker.Password(),
			"keyLength":    "2048",
			"positiveTags": []string{"dkim7"},
		})}
	case domain.ScanDmarc:
		data = map[string]any{"record": "v=DMARC1; p=none", "pPolicy": "none", "spPolicy": "none", "pct": 100}
	case domain.ScanSpf:
		data = map[string]any{"record": "v=spf1 -all", "lookups": rand.Intn(10), "spfDefault": "fail"}
	case domain.ScanSsl:
		data = map[string]any{"heartbleedVulnerable": rand.Intn(20) == 0, "supportsEcdhKeyExchange": true}
	}
	if data != nil {
		msg.Data = mustJSON(data)
	}

	if rand.Float64() < invalidRate {
		msg.Domain = "localhost"
	}

	return msg
}

func mustJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Fatalf("Failed to marshal payload: %v", err)
	}
	return raw
}

func main() {
	totalMessages := flag.Int("count", 1000, "Total number of scan messages to generate. Use -1 for infinite.")
	batchSize := flag.Int("batch-size", 100, "Number of messages per batch")
	numDomains := flag.Int("domains", 200, "Size of the domain pool")
	topic := flag.String("topic", "", "Kafka topic to send messages to (required)")
	brokers := flag.String("brokers", "", "Kafka brokers (comma-separated) (required)")
	delayMs := flag.Int("delay-ms", 100, "Delay in milliseconds between batches")
	invalidRate := flag.Float64("invalid-rate", 0.01, "Probability of a message with an unusable domain (0.0-1.0)")
	flag.Parse()

	if *topic == "" {
		log.Fatal("The 'topic' flag is required")
	}
	if *brokers == "" {
		log.Fatal("The 'brokers' flag is required")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	producer, err := kafka.NewProducer(logger, kafka.Brokers(*brokers))
	if err != nil {
		log.Fatalf("Failed to create Kafka producer: %v", err)
	}
	defer producer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, stopping...")
		cancel()
	}()

	hostnames := generateDomains(*numDomains)
	isInfinite := *totalMessages == -1
	messagesSent := 0
	startTime := time.Now()

	for isInfinite || messagesSent < *totalMessages {
		select {
		case <-ctx.Done():
			log.Println("Shutdown requested, stopping message generation")
			return
		default:
		}

		currentBatchSize := *batchSize
		if !isInfinite && *totalMessages-messagesSent < currentBatchSize {
			currentBatchSize = *totalMessages - messagesSent
		}

		now := time.Now().UTC()
		kafkaMessages := make([]kafka.Message, 0, currentBatchSize)
		for i := 0; i < currentBatchSize; i++ {
			hostname := hostnames[rand.Intn(len(hostnames))]
			scan := generateScan(hostname, scanTypes[rand.Intn(len(scanTypes))], now, *invalidRate)

			value, err := json.Marshal(scan)
			if err != nil {
				log.Printf("Failed to marshal message: %v", err)
				continue
			}
			kafkaMessages = append(kafkaMessages, kafka.Message{Key: hostname, Value: value})
		}

		if err := producer.Publish(*topic, kafkaMessages); err != nil {
			log.Printf("Failed to send batch: %v", err)
			continue
		}
		messagesSent += len(kafkaMessages)

		if messagesSent%1000 == 0 || (!isInfinite && messagesSent >= *totalMessages) {
			elapsed := time.Since(startTime)
			log.Printf("Sent %d messages (%.1f msg/sec)", messagesSent, float64(messagesSent)/elapsed.Seconds())
		}

		if *delayMs > 0 {
			time.Sleep(time.Duration(*delayMs) * time.Millisecond)
		}
	}

	log.Printf("Completed: %d scan messages in %v", messagesSent, time.Since(startTime).Round(time.Millisecond))
}
