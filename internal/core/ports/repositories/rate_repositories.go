package repositories

import (
	"context"
	"time"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
)

// QuotationReader is the external exchange-rate provider.
type QuotationReader interface {
	// FetchQuotations returns the sell-rate quotations of currency against QuoteCurrency
	// published between from and to, inclusive.
	FetchQuotations(ctx context.Context, currency string, from, to time.Time) ([]domain.Quotation, error)

	// QuoteCurrency is the currency every returned rate is expressed in.
	QuoteCurrency() string
}
