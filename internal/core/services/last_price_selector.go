package services

import (
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
)

// SelectLastPrices picks, for every material, its most recent purchase.
// "Most recent" is the maximum under PurchaseEvent.Before (order date, then order id), so
// the result does not depend on the order of events.
func SelectLastPrices(events []domain.PurchaseEvent) map[string]domain.MaterialLastPrice {
	latest := make(map[string]domain.PurchaseEvent)
	for _, e := range events {
		current, ok := latest[e.MaterialID]
		if !ok || current.Before(e) {
			latest[e.MaterialID] = e
		}
	}

	out := make(map[string]domain.MaterialLastPrice, len(latest))
	for materialID, e := range latest {
		out[materialID] = domain.MaterialLastPrice{
			MaterialID:   materialID,
			UnitPrice:    e.UnitPrice,
			CurrencyCode: e.CurrencyCode,
			OrderDate:    e.OrderDate,
			OrderID:      e.OrderID,
		}
	}
	return out
}
