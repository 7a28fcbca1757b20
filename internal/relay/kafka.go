package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/avenside/inkpost-be/internal/events"
)

// Writer is the subset of the kafka-go producer the relay needs. It is
// an interface so tests can substitute an in-memory writer.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewWriter creates a kafka-go writer for the given brokers and topic.
func NewWriter(brokers []string, topic string) Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
	}
}

// KafkaRelay forwards lifecycle events to a Kafka topic for downstream
// consumers. Forwarding is best effort: a broker failure is logged and
// dropped, never surfaced to the operation that raised the event.
type KafkaRelay struct {
	writer Writer
}

// NewKafkaRelay creates a relay producing through the given writer.
func NewKafkaRelay(writer Writer) *KafkaRelay {
	return &KafkaRelay{writer: writer}
}

type envelope struct {
	Topic string      `json:"topic"`
	At    time.Time   `json:"at"`
	Body  interface{} `json:"body"`
}

// Handle implements events.Handler for any topic.
func (r *KafkaRelay) Handle(ctx context.Context, event events.Event) error {
	env := envelope{Topic: string(event.Topic()), Body: event}
	switch e := event.(type) {
	case events.UserSaved:
		env.At = e.At
	case events.PostDeleting:
		env.At = e.At
	}

	data, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("topic", string(event.Topic())).Msg("Failed to encode event for relay")
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(event.Topic()),
		Value: data,
	}
	if err := r.writer.WriteMessages(ctx, msg); err != nil {
		log.Error().Err(err).Str("topic", string(event.Topic())).Msg("Failed to relay event to kafka")
	}
	return nil
}

// Register binds the relay to both lifecycle topics.
func (r *KafkaRelay) Register(bus *events.Bus) {
	bus.Subscribe(events.TopicUserSaved, r.Handle)
	bus.Subscribe(events.TopicPostDeleting, r.Handle)
}

// Close releases the underlying writer.
func (r *KafkaRelay) Close() error {
	return r.writer.Close()
}
