package observability

import (
	"context"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
	portssvc "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsObserver exports run notifications as Prometheus metrics.
type MetricsObserver struct {
	runs         prometheus.Counter
	rateLookups  *prometheus.CounterVec
	dropped      *prometheus.CounterVec
	joinRecords  *prometheus.GaugeVec
	materials    *prometheus.GaugeVec
	lastRunTotal prometheus.Gauge
}

var _ portssvc.RunObserver = (*MetricsObserver)(nil)

// NewMetricsObserver registers the report metrics with reg.
func NewMetricsObserver(reg prometheus.Registerer) *MetricsObserver {
	f := promauto.With(reg)
	return &MetricsObserver{
		runs: f.NewCounter(prometheus.CounterOpts{
			Name: "price_report_runs_total",
			Help: "Total number of completed report runs",
		}),
		rateLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "price_report_rate_lookups_total",
			Help: "Exchange rate resolutions by currency and outcome",
		}, []string{"currency", "outcome"}),
		dropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "price_report_dropped_events_total",
			Help: "Purchase events excluded from price selection",
		}, []string{"reason"}),
		joinRecords: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "price_report_join_records",
			Help: "Record counts of the last join by kind",
		}, []string{"kind"}),
		materials: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "price_report_materials",
			Help: "Materials in the last report by currency",
		}, []string{"currency"}),
		lastRunTotal: f.NewGauge(prometheus.GaugeOpts{
			Name: "price_report_last_run_materials",
			Help: "Materials in the last completed report",
		}),
	}
}

func (m *MetricsObserver) OrdersLoaded(_ context.Context, headers, items int) {
	m.joinRecords.WithLabelValues("headers").Set(float64(headers))
	m.joinRecords.WithLabelValues("items").Set(float64(items))
}

func (m *MetricsObserver) OrdersJoined(_ context.Context, stats domain.JoinStats) {
	m.joinRecords.WithLabelValues("events").Set(float64(stats.Events))
	m.joinRecords.WithLabelValues("unmatched_headers").Set(float64(stats.UnmatchedHeaders))
	m.joinRecords.WithLabelValues("unmatched_items").Set(float64(stats.UnmatchedItems))
	m.joinRecords.WithLabelValues("degenerate").Set(float64(stats.Degenerate))
}

func (m *MetricsObserver) EventDropped(_ context.Context, _ domain.PurchaseEvent, reason error) {
	m.dropped.WithLabelValues(reasonLabel(reason)).Inc()
}

func (m *MetricsObserver) MaterialsSelected(context.Context, int) {}

func (m *MetricsObserver) RateLookup(_ context.Context, currency, outcome string) {
	m.rateLookups.WithLabelValues(currency, outcome).Inc()
}

func (m *MetricsObserver) Progress(context.Context, int, int) {}

func (m *MetricsObserver) ReportCompleted(_ context.Context, report *domain.PriceReport) {
	m.runs.Inc()
	m.lastRunTotal.Set(float64(report.Summary.Materials))
	m.materials.Reset()
	for _, c := range report.Summary.ByCurrency {
		m.materials.WithLabelValues(c.CurrencyCode).Set(float64(c.Materials))
	}
}
