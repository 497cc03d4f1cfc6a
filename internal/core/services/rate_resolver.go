package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/apperrors"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
	portsrepo "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/repositories"
	portssvc "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// DefaultRateWindowDays is how far past the reference date quotations are searched.
const DefaultRateWindowDays = 30

// rateResolver implements the RateResolverSvc interface
type rateResolver struct {
	BaseService
	provider     portsrepo.QuotationReader
	cache        *RateCache
	homeCurrency string
	windowDays   int
	observer     portssvc.RunObserver
}

// RateResolverOption is a functional option for configuring the rate resolver
type RateResolverOption func(*rateResolver)

// WithRateWindowDays sets the lookup window length in days.
func WithRateWindowDays(days int) RateResolverOption {
	return func(r *rateResolver) {
		if days > 0 {
			r.windowDays = days
		}
	}
}

// WithRateObserver reports every lookup outcome to observer.
func WithRateObserver(observer portssvc.RunObserver) RateResolverOption {
	return func(r *rateResolver) {
		if observer != nil {
			r.observer = observer
		}
	}
}

// NewRateResolver creates a resolver backed by provider that memoizes into cache.
func NewRateResolver(provider portsrepo.QuotationReader, cache *RateCache, homeCurrency string, options ...RateResolverOption) portssvc.RateResolverSvc {
	r := &rateResolver{
		provider:     provider,
		cache:        cache,
		homeCurrency: homeCurrency,
		windowDays:   DefaultRateWindowDays,
		observer:     NopObserver{},
	}
	for _, option := range options {
		option(r)
	}
	return r
}

var _ portssvc.RateResolverSvc = (*rateResolver)(nil)

func (r *rateResolver) HomeCurrency() string {
	return r.homeCurrency
}

// Rate resolves the home-currency multiplier of currency. See RateResolverSvc.
func (r *rateResolver) Rate(ctx context.Context, currency string, referenceDate time.Time) (decimal.Decimal, error) {
	if currency == r.homeCurrency {
		r.observer.RateLookup(ctx, currency, portssvc.RateOutcomeHome)
		return decimal.NewFromInt(1), nil
	}

	if rate, ok := r.cache.Get(currency); ok {
		r.observer.RateLookup(ctx, currency, portssvc.RateOutcomeCached)
		return rate, nil
	}

	from := truncateToDay(referenceDate)
	to := from.AddDate(0, 0, r.windowDays)

	quotations, err := r.provider.FetchQuotations(ctx, currency, from, to)
	if err != nil {
		r.observer.RateLookup(ctx, currency, portssvc.RateOutcomeUnavailable)
		r.LogWarn(ctx, "Exchange rate lookup failed",
			slog.String("currency", currency),
			slog.String("from", from.Format(domain.DateLayout)),
			slog.String("error", err.Error()))
		return decimal.Zero, fmt.Errorf("%w: %s: %v", apperrors.ErrRateUnavailable, currency, err)
	}

	latest, ok := latestQuotation(quotations)
	if !ok {
		r.observer.RateLookup(ctx, currency, portssvc.RateOutcomeUnavailable)
		r.LogWarn(ctx, "No exchange rate quotation in window",
			slog.String("currency", currency),
			slog.String("from", from.Format(domain.DateLayout)),
			slog.String("to", to.Format(domain.DateLayout)))
		return decimal.Zero, fmt.Errorf("%w: %s: no quotation between %s and %s", apperrors.ErrRateUnavailable,
			currency, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
	}

	r.cache.Put(currency, latest.SellRate)
	r.observer.RateLookup(ctx, currency, portssvc.RateOutcomeFetched)
	r.LogInfo(ctx, "Exchange rate resolved",
		slog.String("currency", currency),
		slog.String("rate", latest.SellRate.String()),
		slog.String("quoted_at", latest.QuotedAt.Format(time.RFC3339)))
	return latest.SellRate, nil
}

// latestQuotation returns the chronologically last quotation with a positive sell rate.
// Among quotations with the same timestamp the later one in the slice wins.
func latestQuotation(quotations []domain.Quotation) (domain.Quotation, bool) {
	var (
		latest domain.Quotation
		found  bool
	)
	for _, q := range quotations {
		if !q.SellRate.IsPositive() {
			continue
		}
		if !found || !q.QuotedAt.Before(latest.QuotedAt) {
			latest = q
			found = true
		}
	}
	return latest, found
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
