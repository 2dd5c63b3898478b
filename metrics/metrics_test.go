package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"go-infobot"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("http get: %w", infobot.ErrSourceUnavailable), "source_unavailable"},
		{infobot.ErrMalformedDocument, "malformed_document"},
		{&infobot.UnknownCurrencyError{Code: "XYZ"}, "unknown_currency"},
		{infobot.ErrNoResults, "no_results"},
		{infobot.ErrInvalidAmount, "invalid_amount"},
		{infobot.ErrInvalidArity, "invalid_arity"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Outcome(tt.err))
		})
	}
}

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CommandsTotal.WithLabelValues("rates", "ok").Inc()
	m.UpstreamRequestsTotal.WithLabelValues("cbr", "source_unavailable").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("rates", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("cbr", "source_unavailable")))

	count, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}
