package cbr

import (
	"context"
	"time"

	"go-infobot"
	"go-infobot/metrics"
)

const source = "cbr"

type instrumentingService struct {
	metrics *metrics.Metrics
	next    Service
}

// NewInstrumentingService counts and times every FetchRates call.
func NewInstrumentingService(m *metrics.Metrics, s Service) Service {
	return &instrumentingService{
		metrics: m,
		next:    s,
	}
}

func (s *instrumentingService) FetchRates(ctx context.Context) (table infobot.RateTable, err error) {
	defer func(begin time.Time) {
		s.metrics.UpstreamRequestsTotal.WithLabelValues(source, metrics.Outcome(err)).Inc()
		s.metrics.UpstreamDuration.WithLabelValues(source).Observe(time.Since(begin).Seconds())
	}(time.Now())
	return s.next.FetchRates(ctx)
}
