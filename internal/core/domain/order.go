package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderHeader is the order-level record of a purchase order.
type OrderHeader struct {
	OrderID      string    `json:"orderID"`
	OrderDate    time.Time `json:"orderDate"`
	CurrencyCode string    `json:"currencyCode"` // ISO 4217, e.g. "USD"
}

// OrderItem is a single line of a purchase order.
type OrderItem struct {
	OrderID    string          `json:"orderID"` // FK -> OrderHeader.OrderID
	MaterialID string          `json:"materialID"`
	Quantity   decimal.Decimal `json:"quantity"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

// PurchaseEvent is one matched (header, item) pair. It is never mutated after the join.
type PurchaseEvent struct {
	MaterialID   string          `json:"materialID"`
	OrderID      string          `json:"orderID"`
	OrderDate    time.Time       `json:"orderDate"`
	CurrencyCode string          `json:"currencyCode"`
	Quantity     decimal.Decimal `json:"quantity"`
	TotalValue   decimal.Decimal `json:"totalValue"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
}

// NewPurchaseEvent derives the unit price of an item joined with its header.
// A zero quantity leaves the unit price at zero; callers detect it through Degenerate.
func NewPurchaseEvent(h OrderHeader, it OrderItem) PurchaseEvent {
	unitPrice := decimal.Zero
	if !it.Quantity.IsZero() {
		unitPrice = it.TotalValue.Div(it.Quantity)
	}
	return PurchaseEvent{
		MaterialID:   it.MaterialID,
		OrderID:      h.OrderID,
		OrderDate:    h.OrderDate,
		CurrencyCode: h.CurrencyCode,
		Quantity:     it.Quantity,
		TotalValue:   it.TotalValue,
		UnitPrice:    unitPrice,
	}
}

// Degenerate reports whether the event came from an item with zero or negative quantity.
func (e PurchaseEvent) Degenerate() bool {
	return e.Quantity.LessThanOrEqual(decimal.Zero)
}

// Before reports whether e sorts strictly before other in the "last purchase" order:
// order date, then order id, then unit price, then quantity, all ascending.
func (e PurchaseEvent) Before(other PurchaseEvent) bool {
	if !e.OrderDate.Equal(other.OrderDate) {
		return e.OrderDate.Before(other.OrderDate)
	}
	if c := CompareIDs(e.OrderID, other.OrderID); c != 0 {
		return c < 0
	}
	if c := e.UnitPrice.Cmp(other.UnitPrice); c != 0 {
		return c < 0
	}
	return e.Quantity.LessThan(other.Quantity)
}

// JoinStats counts what the join kept and what it dropped.
type JoinStats struct {
	Headers          int `json:"headers"`
	Items            int `json:"items"`
	Events           int `json:"events"`
	DuplicateHeaders int `json:"duplicateHeaders"`
	UnmatchedHeaders int `json:"unmatchedHeaders"`
	UnmatchedItems   int `json:"unmatchedItems"`
	Degenerate       int `json:"degenerate"`
}
