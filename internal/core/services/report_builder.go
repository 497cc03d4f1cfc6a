package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/apperrors"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
	portssvc "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/services"
)

// pricePlaces is the number of fractional digits kept in report prices.
const pricePlaces = 2

// progressEvery is how often, in materials, build progress is reported.
const progressEvery = 1000

// ReportBuilder converts last prices into report rows.
type ReportBuilder struct {
	BaseService
	resolver portssvc.RateResolverSvc
	observer portssvc.RunObserver
}

// NewReportBuilder creates a ReportBuilder converting through resolver.
func NewReportBuilder(resolver portssvc.RateResolverSvc, observer portssvc.RunObserver) *ReportBuilder {
	if observer == nil {
		observer = NopObserver{}
	}
	return &ReportBuilder{resolver: resolver, observer: observer}
}

// Build converts every last price into the home currency and returns the rows sorted by
// material id together with their summary. generatedAt is recorded as the rate date of
// converted rows. Unavailable rates never fail the build: the row keeps its original price
// and no rate date.
func (b *ReportBuilder) Build(ctx context.Context, lastPrices map[string]domain.MaterialLastPrice, generatedAt time.Time) ([]domain.MaterialReport, domain.ReportSummary) {
	materialIDs := make([]string, 0, len(lastPrices))
	for id := range lastPrices {
		materialIDs = append(materialIDs, id)
	}
	sort.Slice(materialIDs, func(i, j int) bool {
		return domain.CompareIDs(materialIDs[i], materialIDs[j]) < 0
	})

	home := b.resolver.HomeCurrency()
	rateDate := truncateToDay(generatedAt)
	rows := make([]domain.MaterialReport, 0, len(materialIDs))
	total := len(materialIDs)

	for i, id := range materialIDs {
		lp := lastPrices[id]
		row := domain.MaterialReport{
			MaterialID:    lp.MaterialID,
			PriceHome:     lp.UnitPrice.Round(pricePlaces),
			PriceOriginal: lp.UnitPrice.Round(pricePlaces),
			CurrencyCode:  lp.CurrencyCode,
			PurchaseDate:  lp.OrderDate,
			OrderID:       lp.OrderID,
		}

		if lp.CurrencyCode != home {
			rate, err := b.resolver.Rate(ctx, lp.CurrencyCode, lp.OrderDate)
			switch {
			case err == nil:
				row.PriceHome = lp.UnitPrice.Mul(rate).Round(pricePlaces)
				d := rateDate
				row.RateDate = &d
				row.Converted = true
			case errors.Is(err, apperrors.ErrRateUnavailable):
				b.LogDebug(ctx, "Keeping unconverted price",
					slog.String("material_id", lp.MaterialID),
					slog.String("currency", lp.CurrencyCode))
			default:
				b.LogError(ctx, err, "Unexpected exchange rate error, keeping unconverted price",
					slog.String("material_id", lp.MaterialID),
					slog.String("currency", lp.CurrencyCode))
			}
		}

		rows = append(rows, row)

		if done := i + 1; done%progressEvery == 0 || done == total {
			b.observer.Progress(ctx, done, total)
		}
	}

	return rows, Summarize(rows, home)
}

// Summarize counts report rows per currency. ByCurrency is sorted by descending material
// count, ties by currency code.
func Summarize(rows []domain.MaterialReport, homeCurrency string) domain.ReportSummary {
	summary := domain.ReportSummary{Materials: len(rows)}
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.CurrencyCode]++
		if r.CurrencyCode == homeCurrency {
			summary.HomeCurrency++
			continue
		}
		summary.ForeignCurrency++
		if !r.Converted {
			summary.Unconverted++
		}
	}

	summary.ByCurrency = make([]domain.CurrencyCount, 0, len(counts))
	for code, n := range counts {
		summary.ByCurrency = append(summary.ByCurrency, domain.CurrencyCount{CurrencyCode: code, Materials: n})
	}
	sort.Slice(summary.ByCurrency, func(i, j int) bool {
		a, b := summary.ByCurrency[i], summary.ByCurrency[j]
		if a.Materials != b.Materials {
			return a.Materials > b.Materials
		}
		return a.CurrencyCode < b.CurrencyCode
	})
	return summary
}
