package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialLastPrice is the most recent purchase of a material, in the order's currency.
type MaterialLastPrice struct {
	MaterialID   string          `json:"materialID"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	CurrencyCode string          `json:"currencyCode"`
	OrderDate    time.Time       `json:"orderDate"`
	OrderID      string          `json:"orderID"`
}

// Quotation is a single sell-rate quotation returned by the rate provider.
type Quotation struct {
	QuotedAt time.Time       `json:"quotedAt"`
	SellRate decimal.Decimal `json:"sellRate"`
}

// MaterialReport is one output row of the last-price report.
type MaterialReport struct {
	MaterialID    string          `json:"materialID"`
	PriceHome     decimal.Decimal `json:"priceHome"`     // rounded to 2 places
	PriceOriginal decimal.Decimal `json:"priceOriginal"` // rounded to 2 places
	CurrencyCode  string          `json:"currencyCode"`
	PurchaseDate  time.Time       `json:"purchaseDate"`
	OrderID       string          `json:"orderID"`
	RateDate      *time.Time      `json:"rateDate,omitempty"` // nil when no conversion happened
	// Converted is false for home-currency rows and for foreign rows whose rate was unavailable.
	Converted bool `json:"converted"`
}

// CurrencyCount is the number of report rows in one currency.
type CurrencyCount struct {
	CurrencyCode string `json:"currencyCode"`
	Materials    int    `json:"materials"`
}

// ReportSummary aggregates a built report.
type ReportSummary struct {
	Materials       int             `json:"materials"`
	HomeCurrency    int             `json:"homeCurrency"`
	ForeignCurrency int             `json:"foreignCurrency"`
	Unconverted     int             `json:"unconverted"`
	ByCurrency      []CurrencyCount `json:"byCurrency"` // descending by Materials
}

// PriceReport is the result of one pipeline run.
type PriceReport struct {
	RunID       string           `json:"runID"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Rows        []MaterialReport `json:"rows"`
	Summary     ReportSummary    `json:"summary"`
	Join        JoinStats        `json:"join"`
}
