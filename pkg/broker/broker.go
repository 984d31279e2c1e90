// Package broker mirrors domain events to Kafka so downstream systems
// (accounting, analytics) can follow orders without polling the API.
// With no KAFKA_BROKERS configured a no-op publisher is used.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/shashiranjanraj/galeria/pkg/logger"
)

const (
	TopicOrders       = "galeria.orders"
	TopicCustomOrders = "galeria.custom-orders"
)

// Envelope is the JSON value written for every event.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// Publisher writes events keyed by aggregate id (order number, request number)
// so all events of one aggregate land on the same partition.
type Publisher interface {
	Publish(ctx context.Context, topic, key, eventType string, data any) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

type kafkaPublisher struct {
	w   messageWriter
	now func() time.Time
}

// New returns a Kafka publisher, or a no-op one when brokers is empty.
func New(brokers []string) Publisher {
	if len(brokers) == 0 {
		return Nop{}
	}
	logger.Info("broker: kafka publisher enabled", "brokers", brokers)
	return &kafkaPublisher{
		w: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(brokers...),
			Balancer:               &kafkaGo.Hash{},
			RequiredAcks:           kafkaGo.RequireAll,
			BatchTimeout:           50 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
		now: time.Now,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, topic, key, eventType string, data any) error {
	payload, err := json.Marshal(Envelope{Type: eventType, OccurredAt: p.now().UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("broker: marshal %s: %w", eventType, err)
	}
	err = p.w.WriteMessages(ctx, kafkaGo.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
		Headers: []kafkaGo.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("broker: publish %s to %s: %w", eventType, topic, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error { return p.w.Close() }

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, string, any) error { return nil }
func (Nop) Close() error                                               { return nil }

// Consume reads topic as part of groupID until ctx is cancelled, handing
// each envelope to handler. Used by `galeria events:tail`.
func Consume(ctx context.Context, brokers []string, topic, groupID string, handler func(context.Context, Envelope, kafkaGo.Message) error) error {
	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	defer reader.Close()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("broker: consumer shutting down", "topic", topic)
				return nil
			}
			return fmt.Errorf("broker: read %s: %w", topic, err)
		}

		var env Envelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			logger.Warn("broker: skipping malformed message", "topic", topic, "offset", msg.Offset, "error", err)
			continue
		}
		if err := handler(ctx, env, msg); err != nil {
			logger.Error("broker: handler failed", "topic", topic, "type", env.Type, "error", err)
		}
	}
}
