package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/avenside/inkpost-be/internal/metrics"
)

// Message is a single outbound mail.
type Message struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// Mailer delivers messages to an external transport. Implementations do
// not retry: a failed Send is reported to the caller and nothing else.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	client *gomail.Client
}

// NewSMTPMailer creates a mailer for the given relay. Username and
// password may be empty for an unauthenticated relay.
func NewSMTPMailer(host string, port int, username, password string) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(username),
			gomail.WithPassword(password),
		)
	}

	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return &SMTPMailer{client: client}, nil
}

// Send delivers a single message, dialing the relay per call.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	out := gomail.NewMsg()
	if err := out.From(msg.From); err != nil {
		return fmt.Errorf("invalid from address %q: %w", msg.From, err)
	}
	if err := out.To(msg.To...); err != nil {
		return fmt.Errorf("invalid recipient list: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(gomail.TypeTextPlain, msg.Body)

	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		metrics.MailFailures.Inc()
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
