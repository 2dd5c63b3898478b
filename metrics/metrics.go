package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"go-infobot"
)

const namespace = "infobot"

// Metrics holds every collector the bot exports
type Metrics struct {
	// Chat commands by command name and outcome
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Outbound calls to the rate feed and the news API
	UpstreamRequestsTotal *prometheus.CounterVec
	UpstreamDuration      *prometheus.HistogramVec
}

// New registers the collectors with reg. Use prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CommandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Chat commands handled, by command and outcome",
		}, []string{"command", "outcome"}),
		CommandDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Time spent handling a chat command",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
		UpstreamRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Requests to upstream data sources, by source and outcome",
		}, []string{"source", "outcome"}),
		UpstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of upstream data source requests",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"source"}),
	}
}

// Outcome maps an error onto a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, infobot.ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, infobot.ErrMalformedDocument):
		return "malformed_document"
	case errors.Is(err, infobot.ErrUnknownCurrency):
		return "unknown_currency"
	case errors.Is(err, infobot.ErrNoResults):
		return "no_results"
	case errors.Is(err, infobot.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, infobot.ErrInvalidArity):
		return "invalid_arity"
	default:
		return "error"
	}
}
