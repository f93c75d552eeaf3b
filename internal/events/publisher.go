// Package events publishes workout lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/mapty/internal/models"
	"github.com/segmentio/kafka-go"
)

// TypeWorkoutLogged is the event type for a newly persisted workout.
const TypeWorkoutLogged = "workout.logged"

// WorkoutLogged is the payload published after a workout is saved.
type WorkoutLogged struct {
	Type       string        `json:"type"`
	OccurredAt time.Time     `json:"occurred_at"`
	Workout    models.Record `json:"workout"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishWorkoutLogged(ctx context.Context, w models.Workout) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) PublishWorkoutLogged(context.Context, models.Workout) error { return nil }
func (Nop) Close() error                                               { return nil }

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes events as JSON messages keyed by workout id.
type Kafka struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafka creates a publisher writing to topic on the given brokers.
func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
		},
		now: time.Now,
	}
}

func (k *Kafka) PublishWorkoutLogged(ctx context.Context, w models.Workout) error {
	payload, err := json.Marshal(WorkoutLogged{
		Type:       TypeWorkoutLogged,
		OccurredAt: k.now().UTC(),
		Workout:    models.ToRecord(w),
	})
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", TypeWorkoutLogged, err)
	}

	msg := kafka.Message{
		Key:   []byte(w.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(TypeWorkoutLogged)},
			{Key: "workout_kind", Value: []byte(w.Kind)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing %s: %w", TypeWorkoutLogged, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (k *Kafka) Close() error {
	return k.writer.Close()
}
