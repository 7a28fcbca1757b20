package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/avenside/inkpost-be/internal/events"
	"github.com/avenside/inkpost-be/internal/services"
)

// ActivityRecorder mirrors lifecycle events into the persistent activity
// log. Recording is best effort: a database failure here is logged and
// dropped so it cannot abort the operation that raised the event.
type ActivityRecorder struct {
	activity services.ActivityServiceProvider
}

// NewActivityRecorder creates an ActivityRecorder backed by the given service.
func NewActivityRecorder(activity services.ActivityServiceProvider) *ActivityRecorder {
	return &ActivityRecorder{activity: activity}
}

// Handle implements events.Handler for both lifecycle topics.
func (r *ActivityRecorder) Handle(_ context.Context, event events.Event) error {
	var err error
	switch e := event.(type) {
	case events.UserSaved:
		if e.Created {
			err = r.activity.RecordActivity("user.registered", "info",
				fmt.Sprintf("User %s registered", e.User.Username), &e.User.ID)
		} else {
			err = r.activity.RecordActivity("user.updated", "info",
				fmt.Sprintf("User %s updated their profile", e.User.Username), &e.User.ID)
		}
	case events.PostDeleting:
		err = r.activity.RecordActivity("post.deleting", "info",
			fmt.Sprintf("Post %q is being deleted", e.Post.Title), &e.Post.ID)
	}

	if err != nil {
		log.Error().Err(err).Str("topic", string(event.Topic())).Msg("Failed to record activity")
	}
	return nil
}
