package observability

import (
	"context"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
	portssvc "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/services"
)

// Multi fans every notification out to several observers, in order.
type Multi []portssvc.RunObserver

var _ portssvc.RunObserver = Multi(nil)

func (m Multi) OrdersLoaded(ctx context.Context, headers, items int) {
	for _, o := range m {
		o.OrdersLoaded(ctx, headers, items)
	}
}

func (m Multi) OrdersJoined(ctx context.Context, stats domain.JoinStats) {
	for _, o := range m {
		o.OrdersJoined(ctx, stats)
	}
}

func (m Multi) EventDropped(ctx context.Context, event domain.PurchaseEvent, reason error) {
	for _, o := range m {
		o.EventDropped(ctx, event, reason)
	}
}

func (m Multi) MaterialsSelected(ctx context.Context, materials int) {
	for _, o := range m {
		o.MaterialsSelected(ctx, materials)
	}
}

func (m Multi) RateLookup(ctx context.Context, currency, outcome string) {
	for _, o := range m {
		o.RateLookup(ctx, currency, outcome)
	}
}

func (m Multi) Progress(ctx context.Context, done, total int) {
	for _, o := range m {
		o.Progress(ctx, done, total)
	}
}

func (m Multi) ReportCompleted(ctx context.Context, report *domain.PriceReport) {
	for _, o := range m {
		o.ReportCompleted(ctx, report)
	}
}
