package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateResolverSvc resolves the multiplier that converts a currency into the home currency.
type RateResolverSvc interface {
	// Rate returns the rate for currency, looking it up from referenceDate onwards when it is
	// not cached yet. Failures wrap apperrors.ErrRateUnavailable.
	Rate(ctx context.Context, currency string, referenceDate time.Time) (decimal.Decimal, error)

	// HomeCurrency is the currency every report price is normalized to.
	HomeCurrency() string
}
