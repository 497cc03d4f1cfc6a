package services

import (
	"context"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
)

// Rate lookup outcomes reported to a RunObserver.
const (
	RateOutcomeHome        = "home"
	RateOutcomeCached      = "cached"
	RateOutcomeFetched     = "fetched"
	RateOutcomeUnavailable = "unavailable"
)

// RunObserver receives progress and diagnostics of a report run.
// Implementations must not fail the run; they only observe it.
type RunObserver interface {
	OrdersLoaded(ctx context.Context, headers, items int)
	OrdersJoined(ctx context.Context, stats domain.JoinStats)
	EventDropped(ctx context.Context, event domain.PurchaseEvent, reason error)
	MaterialsSelected(ctx context.Context, materials int)
	RateLookup(ctx context.Context, currency, outcome string)
	Progress(ctx context.Context, done, total int)
	ReportCompleted(ctx context.Context, report *domain.PriceReport)
}
