package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/avenside/inkpost-be/internal/events"
	"github.com/avenside/inkpost-be/internal/websocket"
)

// Broadcaster pushes lifecycle events to connected websocket clients as
// a live activity feed. Delivery is fire-and-forget.
type Broadcaster struct {
	hub *websocket.Hub
}

// NewBroadcaster creates a Broadcaster attached to the given hub.
func NewBroadcaster(hub *websocket.Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

type activityPayload struct {
	Topic    string    `json:"topic"`
	Subject  string    `json:"subject"`
	Username string    `json:"username,omitempty"`
	Title    string    `json:"title,omitempty"`
	Created  bool      `json:"created,omitempty"`
	At       time.Time `json:"at"`
}

// Handle implements events.Handler for both lifecycle topics.
func (b *Broadcaster) Handle(_ context.Context, event events.Event) error {
	payload := activityPayload{Topic: string(event.Topic())}
	switch e := event.(type) {
	case events.UserSaved:
		payload.Subject = e.User.ID
		payload.Username = e.User.Username
		payload.Created = e.Created
		payload.At = e.At
	case events.PostDeleting:
		payload.Subject = e.Post.ID
		payload.Title = e.Post.Title
		payload.At = e.At
	default:
		return nil
	}

	data, err := json.Marshal(websocket.Message{Action: "activity", Payload: payload})
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode activity broadcast")
		return nil
	}
	b.hub.Broadcast <- data
	return nil
}
