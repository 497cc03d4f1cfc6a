package services

import (
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
)

// JoinOrders performs an inner join of items with their headers on the order id.
// Items without a header and headers without items are dropped and only counted.
// Events keep the order of the items slice. Quantities are not validated here; see
// DropDegenerate.
func JoinOrders(headers []domain.OrderHeader, items []domain.OrderItem) ([]domain.PurchaseEvent, domain.JoinStats) {
	stats := domain.JoinStats{Headers: len(headers), Items: len(items)}

	byID := make(map[string]domain.OrderHeader, len(headers))
	for _, h := range headers {
		if _, dup := byID[h.OrderID]; dup {
			stats.DuplicateHeaders++
		}
		byID[h.OrderID] = h
	}

	matched := make(map[string]struct{}, len(byID))
	events := make([]domain.PurchaseEvent, 0, len(items))
	for _, it := range items {
		h, ok := byID[it.OrderID]
		if !ok {
			stats.UnmatchedItems++
			continue
		}
		matched[it.OrderID] = struct{}{}
		events = append(events, domain.NewPurchaseEvent(h, it))
	}

	stats.UnmatchedHeaders = len(byID) - len(matched)
	stats.Events = len(events)
	return events, stats
}

// DropDegenerate splits events into those usable for price selection and those whose
// quantity is zero or negative.
func DropDegenerate(events []domain.PurchaseEvent) (kept, dropped []domain.PurchaseEvent) {
	kept = make([]domain.PurchaseEvent, 0, len(events))
	for _, e := range events {
		if e.Degenerate() {
			dropped = append(dropped, e)
			continue
		}
		kept = append(kept, e)
	}
	return kept, dropped
}
