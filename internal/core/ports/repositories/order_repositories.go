package repositories

import (
	"context"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
)

// OrderReader loads the purchase orders a report is computed from.
type OrderReader interface {
	// LoadOrders returns every order header and order item of the source.
	// It fails with apperrors.ErrMissingInput before reading anything when a required
	// input is absent.
	LoadOrders(ctx context.Context) ([]domain.OrderHeader, []domain.OrderItem, error)
}
