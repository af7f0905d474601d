package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesProcessed The total number of processed messages (counter)
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processed_total",
			Help:      "The total number of processed messages",
		},
		[]string{"topic", "handler"},
	)

	// MessagesProcessingFailed total number of message processing failures (counter)
	MessagesProcessingFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processing_failed_total",
			Help:      "The total number of message processing failures",
		},
		[]string{"topic", "handler"},
	)

	// MessagesProcessingDuration The total time spent processing messages (summary with quantiles 0.5, 0.9, and 0.99)
	MessagesProcessingDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace:  "messages",
			Name:       "processing_duration_seconds",
			Help:       "The total time spent processing messages",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"topic", "handler"},
	)

	// TicketsIssued counts tickets created by completed purchases
	TicketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tickets",
			Name:      "issued_total",
			Help:      "The total number of issued tickets",
		},
		[]string{"ticket_type"},
	)

	// TicketsValidated counts tickets consumed at the venue gate
	TicketsValidated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tickets",
			Name:      "validated_total",
			Help:      "The total number of validated tickets",
		},
	)

	// PaymentsInitiated counts gateway transactions started
	PaymentsInitiated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "payments",
			Name:      "initiated_total",
			Help:      "The total number of initiated payment transactions",
		},
	)

	// PaymentsConfirmed counts gateway callbacks that issued tickets
	PaymentsConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "payments",
			Name:      "confirmed_total",
			Help:      "The total number of confirmed payment transactions",
		},
	)
)
