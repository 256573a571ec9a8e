package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/flood-flow-dashboard/internal/config"
	"github.com/couchcryptid/flood-flow-dashboard/internal/domain"
)

// messageWriter is the subset of *kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer produces per-structure statistics messages to a Kafka topic.
// It implements dashboard.StatsPublisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured statistics topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaStatsTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishStatistics writes one message per structure in a single
// WriteMessages call. Keys are structure names, so a structure's snapshots
// land on one partition.
func (w *Writer) PublishStatistics(ctx context.Context, stats domain.Statistics, origin string) error {
	if len(stats.Structures) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(stats.Structures))
	for i := range stats.Structures {
		msg, err := serializeToMessage(stats.Structures[i], origin, stats.ComputedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write statistics messages: %w", err)
	}
	w.logger.Debug("statistics messages written", "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one structure's statistics into a Kafka message.
func serializeToMessage(st domain.StructureStats, origin string, computedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize statistics for %s: %w", st.Structure, err)
	}
	return kafkago.Message{
		Key:   []byte(st.Structure),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "origin", Value: []byte(origin)},
			{Key: "computed_at", Value: []byte(computedAt.Format(time.RFC3339))},
		},
	}, nil
}
