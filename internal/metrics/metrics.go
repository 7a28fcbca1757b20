package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkpost_events_published_total",
			Help: "Total number of lifecycle events published on the bus",
		},
		[]string{"topic"},
	)

	HandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkpost_event_handler_errors_total",
			Help: "Total number of event handler failures by topic",
		},
		[]string{"topic"},
	)

	WelcomeMailsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inkpost_welcome_mails_sent_total",
			Help: "Total number of welcome mails successfully handed to the transport",
		},
	)

	MailFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inkpost_mail_failures_total",
			Help: "Total number of mail transport failures",
		},
	)
)
