package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/claude/mapty/internal/models"
	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

// TestKafkaPublishWorkoutLogged verifies the message key, headers and payload.
func TestKafkaPublishWorkoutLogged(t *testing.T) {
	fw := &fakeWriter{}
	at := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	k := &Kafka{writer: fw, now: func() time.Time { return at }}

	w := models.NewRunning("1714989600", at, 5, 30, 178, models.Position{Lat: 1, Lng: 2})
	if err := k.PublishWorkoutLogged(context.Background(), w); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(fw.msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(fw.msgs))
	}
	msg := fw.msgs[0]
	if string(msg.Key) != "1714989600" {
		t.Errorf("key = %q, want workout id", msg.Key)
	}
	if len(msg.Headers) != 2 || string(msg.Headers[1].Value) != "running" {
		t.Errorf("headers = %+v", msg.Headers)
	}

	var ev WorkoutLogged
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if ev.Type != TypeWorkoutLogged || !ev.OccurredAt.Equal(at) {
		t.Errorf("event = %+v", ev)
	}
	if ev.Workout.PaceMinPerKm == nil || *ev.Workout.PaceMinPerKm != 6 {
		t.Errorf("payload pace = %v, want 6", ev.Workout.PaceMinPerKm)
	}
}

// TestKafkaPublishError verifies writer failures are returned wrapped.
func TestKafkaPublishError(t *testing.T) {
	boom := errors.New("broker down")
	k := &Kafka{writer: &fakeWriter{err: boom}, now: time.Now}
	err := k.PublishWorkoutLogged(context.Background(), models.Workout{ID: "1"})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped broker error", err)
	}
}
