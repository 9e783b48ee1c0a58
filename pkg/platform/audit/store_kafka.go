package audit

import (
	"context"
	"encoding/json"
	"fmt"
)

// MessageProducer is the minimal producer surface the Kafka sink needs.
type MessageProducer interface {
	ProduceJSON(ctx context.Context, topic string, key []byte, value []byte) error
}

// KafkaStore appends audit events to a Kafka topic. The topic is an
// append-only log, matching the audit store contract.
type KafkaStore struct {
	producer MessageProducer
	topic    string
}

// NewKafkaStore constructs a Kafka-backed audit sink.
func NewKafkaStore(producer MessageProducer, topic string) *KafkaStore {
	return &KafkaStore{producer: producer, topic: topic}
}

// Append publishes the event as JSON, keyed by actor for per-actor ordering.
func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	if err := s.producer.ProduceJSON(ctx, s.topic, []byte(event.Actor.String()), value); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}
