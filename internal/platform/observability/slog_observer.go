// Package observability turns report-run notifications into logs and Prometheus metrics.
package observability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/apperrors"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
	portssvc "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/services"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/middleware"
)

// SlogObserver logs run progress through the logger carried by the context.
type SlogObserver struct{}

var _ portssvc.RunObserver = SlogObserver{}

func (SlogObserver) OrdersLoaded(ctx context.Context, headers, items int) {
	middleware.GetLoggerFromCtx(ctx).Info("Orders loaded",
		slog.Int("headers", headers),
		slog.Int("items", items))
}

func (SlogObserver) OrdersJoined(ctx context.Context, stats domain.JoinStats) {
	middleware.GetLoggerFromCtx(ctx).Info("Orders joined",
		slog.Int("events", stats.Events),
		slog.Int("unmatched_items", stats.UnmatchedItems),
		slog.Int("unmatched_headers", stats.UnmatchedHeaders),
		slog.Int("degenerate", stats.Degenerate))
}

func (SlogObserver) EventDropped(ctx context.Context, event domain.PurchaseEvent, reason error) {
	middleware.GetLoggerFromCtx(ctx).Debug("Purchase event dropped",
		slog.String("material_id", event.MaterialID),
		slog.String("order_id", event.OrderID),
		slog.String("reason", reason.Error()))
}

func (SlogObserver) MaterialsSelected(ctx context.Context, materials int) {
	middleware.GetLoggerFromCtx(ctx).Info("Last prices selected", slog.Int("materials", materials))
}

func (SlogObserver) RateLookup(ctx context.Context, currency, outcome string) {
	if outcome == portssvc.RateOutcomeHome || outcome == portssvc.RateOutcomeCached {
		return
	}
	middleware.GetLoggerFromCtx(ctx).Info("Exchange rate lookup",
		slog.String("currency", currency),
		slog.String("outcome", outcome))
}

func (SlogObserver) Progress(ctx context.Context, done, total int) {
	pct := 100.0
	if total > 0 {
		pct = float64(done) / float64(total) * 100
	}
	middleware.GetLoggerFromCtx(ctx).Info("Conversion progress",
		slog.Int("done", done),
		slog.Int("total", total),
		slog.Float64("percent", pct))
}

// ReportCompleted logs the summary statistics, currencies by descending material count.
func (SlogObserver) ReportCompleted(ctx context.Context, report *domain.PriceReport) {
	logger := middleware.GetLoggerFromCtx(ctx)
	s := report.Summary
	logger.Info("Report statistics",
		slog.Int("materials", s.Materials),
		slog.Int("home_currency", s.HomeCurrency),
		slog.Int("foreign_currency", s.ForeignCurrency),
		slog.Int("unconverted", s.Unconverted))
	for _, c := range s.ByCurrency {
		logger.Info("Materials per currency",
			slog.String("currency", c.CurrencyCode),
			slog.Int("materials", c.Materials))
	}
}

// reasonLabel maps a drop reason to a short metric label.
func reasonLabel(reason error) string {
	switch {
	case errors.Is(reason, apperrors.ErrDegenerateQuantity):
		return "degenerate_quantity"
	default:
		return "other"
	}
}
