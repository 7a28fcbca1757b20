package relay

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/avenside/inkpost-be/internal/events"
	"github.com/avenside/inkpost-be/internal/models"
)

type mockWriter struct {
	messages []kafka.Message
	err      error
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockWriter) Close() error { return nil }

func TestRelayForwardsBothTopics(t *testing.T) {
	writer := &mockWriter{}
	bus := events.NewBus()
	NewKafkaRelay(writer).Register(bus)

	ctx := context.Background()
	if err := bus.Publish(ctx, events.UserSaved{User: models.User{ID: "u1", Username: "alice"}, Created: true, At: time.Now()}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := bus.Publish(ctx, events.PostDeleting{Post: models.Post{ID: "p1", Title: "Hello World"}, At: time.Now()}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if len(writer.messages) != 2 {
		t.Fatalf("expected 2 relayed messages, got %d", len(writer.messages))
	}

	var env struct {
		Topic string `json:"topic"`
	}
	if err := json.Unmarshal(writer.messages[0].Value, &env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if env.Topic != "user.saved" {
		t.Errorf("unexpected envelope topic %q", env.Topic)
	}
	if string(writer.messages[1].Key) != "post.deleting" {
		t.Errorf("unexpected message key %q", writer.messages[1].Key)
	}
}

func TestRelaySwallowsBrokerErrors(t *testing.T) {
	writer := &mockWriter{err: errors.New("broker down")}
	rly := NewKafkaRelay(writer)

	err := rly.Handle(context.Background(), events.UserSaved{User: models.User{ID: "u1"}, Created: true})
	if err != nil {
		t.Fatalf("relay failures must not abort the publishing operation, got %v", err)
	}
}
