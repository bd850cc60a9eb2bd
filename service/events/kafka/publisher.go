// Package kafka publishes notification mirrors to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/oskern/bankos/model"
	"github.com/oskern/bankos/service/events"
	"github.com/segmentio/kafka-go"
)

// DefaultTopic receives notification mirrors unless configured otherwise.
const DefaultTopic = "bankos.notifications"

// Config holds the broker connection settings.
type Config struct {
	Brokers []string `json:"brokers" yaml:"brokers"`
	Topic   string   `json:"topic" yaml:"topic"`
}

// Publisher writes one Kafka message per notification, keyed by account id
// so per-account ordering survives partitioning.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher for the given brokers and topic.
func NewPublisher(config Config) *Publisher {
	topic := config.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(config.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Publish delivers a single notification
func (p *Publisher) Publish(ctx context.Context, notification model.Notification) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(notification.AccountID, 10)),
		Value: data,
	})
}

// Close releases the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// ensure Publisher implements events.Publisher interface
var _ events.Publisher = (*Publisher)(nil)
