// Package events publishes storefront domain events to the event stream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicUserEvents  = "user_events"
	TopicCartEvents  = "cart_events"
	TopicOrderEvents = "order_events"
)

// Publisher delivers one JSON event to a topic. Delivery failures must never
// affect the operation that triggered the event.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(address []string) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(address...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		Async:        false,
	}
	return &Producer{writer: w}
}

func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: delivery failed: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Nop discards every event; used when no broker is configured.
type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, interface{}) error { return nil }

func (Nop) Close() error { return nil }
