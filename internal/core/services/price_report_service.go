package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/apperrors"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
	portsrepo "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/repositories"
	portssvc "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/services"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/middleware"
	"github.com/google/uuid"
)

// priceReportService implements the PriceReportSvc interface
type priceReportService struct {
	BaseService
	orders       portsrepo.OrderReader
	quotations   portsrepo.QuotationReader
	writer       portsrepo.ReportWriter
	homeCurrency string
	windowDays   int
	observer     portssvc.RunObserver
	now          func() time.Time
}

// PriceReportServiceOption is a functional option for configuring the price report service
type PriceReportServiceOption func(*priceReportService)

// WithReportWriter sets where reports are written when ReportOptions.WriteOutput is set.
func WithReportWriter(writer portsrepo.ReportWriter) PriceReportServiceOption {
	return func(s *priceReportService) {
		s.writer = writer
	}
}

// WithRunObserver sets the observer notified during every run.
func WithRunObserver(observer portssvc.RunObserver) PriceReportServiceOption {
	return func(s *priceReportService) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// WithLookupWindowDays sets the rate lookup window.
func WithLookupWindowDays(days int) PriceReportServiceOption {
	return func(s *priceReportService) {
		s.windowDays = days
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) PriceReportServiceOption {
	return func(s *priceReportService) {
		s.now = now
	}
}

// NewPriceReportService creates a new price report service with the provided options
func NewPriceReportService(orders portsrepo.OrderReader, quotations portsrepo.QuotationReader, homeCurrency string, options ...PriceReportServiceOption) portssvc.PriceReportSvc {
	svc := &priceReportService{
		orders:       orders,
		quotations:   quotations,
		homeCurrency: homeCurrency,
		windowDays:   DefaultRateWindowDays,
		observer:     NopObserver{},
		now:          time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure priceReportService implements the PriceReportSvc interface
var _ portssvc.PriceReportSvc = (*priceReportService)(nil)

// Generate loads the orders, joins them, selects the last price of every material and
// converts it into the home currency. Each call owns a fresh rate cache.
func (s *priceReportService) Generate(ctx context.Context, opts portssvc.ReportOptions) (*domain.PriceReport, error) {
	runID := uuid.NewString()
	ctx = middleware.WithLogger(ctx, s.GetLogger(ctx).With(slog.String("run_id", runID)))
	generatedAt := s.now()

	home := s.homeCurrency
	if opts.HomeCurrency != "" {
		home = strings.ToUpper(strings.TrimSpace(opts.HomeCurrency))
	}

	if quote := s.quotations.QuoteCurrency(); home != quote {
		s.LogWarn(ctx, "Home currency not supported by the rate provider",
			slog.String("home_currency", home),
			slog.String("quote_currency", quote))
		return nil, fmt.Errorf("%w: home currency %s cannot be priced with rates quoted in %s",
			apperrors.ErrValidation, home, quote)
	}

	s.LogInfo(ctx, "Starting price report run", slog.String("home_currency", home))

	headers, items, err := s.orders.LoadOrders(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load orders")
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	s.observer.OrdersLoaded(ctx, len(headers), len(items))

	events, stats := JoinOrders(headers, items)
	kept, dropped := DropDegenerate(events)
	stats.Degenerate = len(dropped)
	for _, e := range dropped {
		s.LogWarn(ctx, "Dropping purchase with non-positive quantity",
			slog.String("material_id", e.MaterialID),
			slog.String("order_id", e.OrderID),
			slog.String("quantity", e.Quantity.String()))
		s.observer.EventDropped(ctx, e, apperrors.ErrDegenerateQuantity)
	}
	if stats.UnmatchedItems > 0 || stats.UnmatchedHeaders > 0 || stats.DuplicateHeaders > 0 {
		s.LogWarn(ctx, "Orders without counterpart were left out of the join",
			slog.Int("unmatched_items", stats.UnmatchedItems),
			slog.Int("unmatched_headers", stats.UnmatchedHeaders),
			slog.Int("duplicate_headers", stats.DuplicateHeaders))
	}
	s.observer.OrdersJoined(ctx, stats)

	lastPrices := SelectLastPrices(kept)
	s.observer.MaterialsSelected(ctx, len(lastPrices))

	resolver := NewRateResolver(s.quotations, NewRateCache(), home,
		WithRateWindowDays(s.windowDays),
		WithRateObserver(s.observer))
	rows, summary := NewReportBuilder(resolver, s.observer).Build(ctx, lastPrices, generatedAt)

	report := &domain.PriceReport{
		RunID:       runID,
		GeneratedAt: generatedAt,
		Rows:        rows,
		Summary:     summary,
		Join:        stats,
	}

	if opts.WriteOutput {
		if s.writer == nil {
			return nil, fmt.Errorf("%w: no report writer configured", apperrors.ErrReportWrite)
		}
		if err := s.writer.WriteReport(ctx, rows); err != nil {
			s.LogError(ctx, err, "Failed to write report", slog.String("location", s.writer.Location()))
			return nil, fmt.Errorf("failed to write report: %w", err)
		}
		s.LogInfo(ctx, "Report written", slog.String("location", s.writer.Location()))
	}

	s.observer.ReportCompleted(ctx, report)
	s.LogInfo(ctx, "Price report run completed",
		slog.Int("materials", summary.Materials),
		slog.Int("home_currency_materials", summary.HomeCurrency),
		slog.Int("foreign_currency_materials", summary.ForeignCurrency),
		slog.Int("unconverted_materials", summary.Unconverted))
	return report, nil
}
