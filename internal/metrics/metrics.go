package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Attempt outcomes recorded by the completion client.
const (
	OutcomeSuccess      = "success"
	OutcomeHTTPError    = "http_error"
	OutcomeTransport    = "transport_error"
	OutcomeEmptyChoices = "empty_choices"
	OutcomeBadBody      = "bad_body"
)

// Intent parse outcomes.
const (
	ParseValid      = "valid"
	ParseNotJSON    = "not_json"
	ParseInvalid    = "invalid_shape"
	ParseEmptyInput = "empty_input"
)

var (
	CompletionAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_completion_attempts_total",
			Help: "Completion attempts per model and outcome",
		},
		[]string{"model", "outcome"},
	)

	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_completion_attempt_duration_seconds",
			Help:    "Duration of a single completion attempt",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"model"},
	)

	CompletionExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_completion_exhausted_total",
			Help: "Calls where every configured model failed",
		},
	)

	IntentsParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_intents_parsed_total",
			Help: "Parsed agent responses by resulting intent and parse outcome",
		},
		[]string{"intent", "outcome"},
	)

	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_chat_requests_total",
			Help: "Chat requests handled per transport and status",
		},
		[]string{"transport", "status"},
	)
)
