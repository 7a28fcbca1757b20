package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/avenside/inkpost-be/internal/events"
	"github.com/avenside/inkpost-be/internal/mail"
	"github.com/avenside/inkpost-be/internal/metrics"
)

// WelcomeMailer sends a welcome mail to every newly registered user. It
// reacts only to saves with Created set; updates are ignored. A transport
// failure is returned to the publisher rather than swallowed, so the
// registration call observes it.
type WelcomeMailer struct {
	mailer mail.Mailer
	from   string
}

// NewWelcomeMailer creates a WelcomeMailer sending from the given address.
func NewWelcomeMailer(mailer mail.Mailer, from string) *WelcomeMailer {
	return &WelcomeMailer{mailer: mailer, from: from}
}

// Handle implements events.Handler for the user.saved topic.
func (w *WelcomeMailer) Handle(ctx context.Context, event events.Event) error {
	saved, ok := event.(events.UserSaved)
	if !ok || !saved.Created {
		return nil
	}

	msg := mail.Message{
		Subject: "Welcome to our site!",
		Body:    fmt.Sprintf("Thank you for registering, %s!", saved.User.Username),
		From:    w.from,
		To:      []string{saved.User.Email},
	}
	if err := w.mailer.Send(ctx, msg); err != nil {
		log.Error().Err(err).Str("recipient", saved.User.Email).Msg("Failed to send welcome mail")
		return err
	}

	metrics.WelcomeMailsSent.Inc()
	log.Info().Str("recipient", saved.User.Email).Msg("Welcome mail sent")
	return nil
}
