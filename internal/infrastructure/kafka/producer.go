package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// HeaderEventType carries the event type so consumers can skip payloads
// they do not handle without decoding them.
const HeaderEventType = "event-type"

type Config struct {
	Brokers []string
	Topic   string
	GroupID string
	// StartOffset is "earliest" or "latest".
	StartOffset string
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(cfg Config) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		MaxAttempts:            5,
		ReadTimeout:            10 * time.Second,
		WriteTimeout:           10 * time.Second,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}

	return &Producer{writer: w}
}

// SendMessage writes one message synchronously. Messages with the same key
// land on the same partition, so events of one checkout stay ordered.
func (p *Producer) SendMessage(ctx context.Context, key, value []byte, eventType string) error {
	msg := kafka.Message{Key: key, Value: value}
	if eventType != "" {
		msg.Headers = []kafka.Header{{Key: HeaderEventType, Value: []byte(eventType)}}
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message to %s: %w", p.writer.Topic, err)
	}
	return nil
}

func (p *Producer) Topic() string {
	return p.writer.Topic
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
