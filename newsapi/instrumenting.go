package newsapi

import (
	"context"
	"time"

	"go-infobot"
	"go-infobot/metrics"
)

const source = "newsapi"

type instrumentingService struct {
	metrics *metrics.Metrics
	next    Service
}

// NewInstrumentingService counts and times every FetchArticles call.
func NewInstrumentingService(m *metrics.Metrics, s Service) Service {
	return &instrumentingService{
		metrics: m,
		next:    s,
	}
}

func (s *instrumentingService) FetchArticles(ctx context.Context, query string) (articles []infobot.Article, err error) {
	defer func(begin time.Time) {
		s.metrics.UpstreamRequestsTotal.WithLabelValues(source, metrics.Outcome(err)).Inc()
		s.metrics.UpstreamDuration.WithLabelValues(source).Observe(time.Since(begin).Seconds())
	}(time.Now())
	return s.next.FetchArticles(ctx, query)
}
