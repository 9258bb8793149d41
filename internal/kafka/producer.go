package kafka

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/obstacle-ladder/internal/config"
	"github.com/obstacle-ladder/internal/domain"
)

// RunSummary is the message published after a successful ladder run
type RunSummary struct {
	RunID         string    `json:"run_id"`
	ComputedAt    time.Time `json:"computed_at"`
	Players       int       `json:"players"`
	Maps          int       `json:"maps"`
	MapsSkipped   int       `json:"maps_skipped"`
	RecordsScored int       `json:"records_scored"`
	DurationMs    int64     `json:"duration_ms"`
}

// Producer publishes run summaries to Kafka for downstream tooling
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewProducer creates a new run-summary producer
func NewProducer(cfg *config.KafkaConfig, logger *slog.Logger) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("creating producer: %w", err)
	}

	return &Producer{
		producer: producer,
		topic:    cfg.Topic,
		logger:   logger,
	}, nil
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.producer.Close()
}

// PublishRunSummary publishes a summary of a completed ladder run
func (p *Producer) PublishRunSummary(ladder *domain.Ladder) error {
	summary := RunSummary{
		RunID:         ladder.RunID,
		ComputedAt:    ladder.ComputedAt.UTC(),
		Players:       len(ladder.Players),
		Maps:          len(ladder.Maps),
		MapsSkipped:   ladder.MapsSkipped,
		RecordsScored: ladder.RecordsScored,
		DurationMs:    ladder.Duration.Milliseconds(),
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshaling run summary: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ladder.RunID),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("publishing run summary: %w", err)
	}

	p.logger.Debug("run summary published",
		"run_id", ladder.RunID,
		"partition", partition,
		"offset", offset,
	)
	return nil
}
