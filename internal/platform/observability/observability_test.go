package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/apperrors"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
	portssvc "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/services"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func sampleReport() *domain.PriceReport {
	return &domain.PriceReport{
		Summary: domain.ReportSummary{
			Materials:       3,
			HomeCurrency:    2,
			ForeignCurrency: 1,
			ByCurrency: []domain.CurrencyCount{
				{CurrencyCode: "BRL", Materials: 2},
				{CurrencyCode: "USD", Materials: 1},
			},
		},
	}
}

func TestMetricsObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsObserver(reg)
	ctx := context.Background()

	m.OrdersLoaded(ctx, 10, 20)
	m.OrdersJoined(ctx, domain.JoinStats{Events: 18, UnmatchedItems: 2, Degenerate: 1})
	m.EventDropped(ctx, domain.PurchaseEvent{}, apperrors.ErrDegenerateQuantity)
	m.EventDropped(ctx, domain.PurchaseEvent{}, errors.New("other"))
	m.RateLookup(ctx, "USD", portssvc.RateOutcomeFetched)
	m.RateLookup(ctx, "USD", portssvc.RateOutcomeCached)
	m.RateLookup(ctx, "USD", portssvc.RateOutcomeCached)
	m.ReportCompleted(ctx, sampleReport())

	assert.Equal(t, 10.0, testutil.ToFloat64(m.joinRecords.WithLabelValues("headers")))
	assert.Equal(t, 20.0, testutil.ToFloat64(m.joinRecords.WithLabelValues("items")))
	assert.Equal(t, 18.0, testutil.ToFloat64(m.joinRecords.WithLabelValues("events")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dropped.WithLabelValues("degenerate_quantity")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dropped.WithLabelValues("other")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rateLookups.WithLabelValues("USD", "cached")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.lastRunTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.materials.WithLabelValues("BRL")))

	// A later run replaces the per-currency gauges.
	m.ReportCompleted(ctx, &domain.PriceReport{Summary: domain.ReportSummary{
		Materials:  1,
		ByCurrency: []domain.CurrencyCount{{CurrencyCode: "EUR", Materials: 1}},
	}})
	assert.Equal(t, 1, testutil.CollectAndCount(m.materials))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs))
}

func TestSlogObserver(t *testing.T) {
	var buf bytes.Buffer
	ctx := middleware.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	var o SlogObserver

	o.RateLookup(ctx, "USD", portssvc.RateOutcomeCached)
	assert.Empty(t, buf.String(), "cache hits are not logged")

	o.RateLookup(ctx, "USD", portssvc.RateOutcomeUnavailable)
	o.Progress(ctx, 1000, 4000)
	o.ReportCompleted(ctx, sampleReport())

	out := buf.String()
	assert.Contains(t, out, `"outcome":"unavailable"`)
	assert.Contains(t, out, `"percent":25`)
	assert.Contains(t, out, `"msg":"Report statistics"`)
	assert.Equal(t, 2, strings.Count(out, `"msg":"Materials per currency"`))
}

func TestMulti(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, b := NewMetricsObserver(reg), NewMetricsObserver(prometheus.NewRegistry())
	multi := Multi{a, b, SlogObserver{}}

	multi.RateLookup(context.Background(), "EUR", portssvc.RateOutcomeFetched)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.rateLookups.WithLabelValues("EUR", "fetched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.rateLookups.WithLabelValues("EUR", "fetched")))
}
