// Package kafka publishes aggregate rows to a Kafka topic so downstream
// dashboards can refresh without polling the processed files.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/accident-data-prep/internal/config"
	"github.com/couchcryptid/accident-data-prep/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// AggregateMessage is the JSON payload published for one aggregate bucket.
type AggregateMessage struct {
	Aggregate   string    `json:"aggregate"`
	Value       string    `json:"value"`
	Count       int       `json:"count"`
	AvgSeverity *float64  `json:"avg_severity,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Publisher produces one message per aggregate row. It implements
// pipeline.Loader.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

func (p *Publisher) Name() string { return "kafka" }

// Load publishes every aggregate row in a single WriteMessages call.
func (p *Publisher) Load(ctx context.Context, ds domain.Dataset) error {
	msgs := messagesForDataset(ds)
	if len(msgs) == 0 {
		return nil
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish aggregates: %w", err)
	}
	p.logger.Info("aggregates published", "messages", len(msgs))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// messagesForDataset serializes each aggregate bucket to a Kafka message.
// Keys combine the aggregate name and bucket value so downstream compacted
// topics retain the latest count per bucket.
func messagesForDataset(ds domain.Dataset) []kafkago.Message {
	var msgs []kafkago.Message
	for _, agg := range ds.Aggregates {
		for _, row := range agg.Rows {
			payload, err := json.Marshal(AggregateMessage{
				Aggregate:   agg.Name,
				Value:       row.Value,
				Count:       row.Count,
				AvgSeverity: row.AvgSeverity,
				GeneratedAt: ds.GeneratedAt,
			})
			if err != nil {
				// Marshalling plain strings and numbers cannot fail; skip
				// rather than abort if it somehow does.
				continue
			}
			msgs = append(msgs, kafkago.Message{
				Key:   []byte(agg.Name + "|" + row.Value),
				Value: payload,
				Headers: []kafkago.Header{
					{Key: "aggregate", Value: []byte(agg.Name)},
					{Key: "generated_at", Value: []byte(ds.GeneratedAt.Format(time.RFC3339))},
				},
			})
		}
	}
	return msgs
}
