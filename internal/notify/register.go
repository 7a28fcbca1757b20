package notify

import "github.com/avenside/inkpost-be/internal/events"

// Register binds every notification handler to its topic on the bus.
// All bindings live here so the full set is visible in one place; the
// subscription order matters, because a handler error stops dispatch.
// The welcome mailer runs first on user.saved so that a mail failure is
// what the registration caller sees.
func Register(bus *events.Bus, welcome *WelcomeMailer, notice *DeletionNotice, recorder *ActivityRecorder, broadcaster *Broadcaster) {
	bus.Subscribe(events.TopicUserSaved, welcome.Handle)
	bus.Subscribe(events.TopicUserSaved, recorder.Handle)
	bus.Subscribe(events.TopicUserSaved, broadcaster.Handle)

	bus.Subscribe(events.TopicPostDeleting, notice.Handle)
	bus.Subscribe(events.TopicPostDeleting, recorder.Handle)
	bus.Subscribe(events.TopicPostDeleting, broadcaster.Handle)
}
