package dto

import (
	"time"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GenerateReportRequest defines the optional body of a report generation request.
type GenerateReportRequest struct {
	HomeCurrency string `json:"homeCurrency" binding:"omitempty,len=3,alpha"`
	WriteOutput  bool   `json:"writeOutput"`
}

// MaterialPriceResponse is one report row in API responses.
// Prices are rendered with exactly two decimals, dates as YYYY-MM-DD.
type MaterialPriceResponse struct {
	MaterialID    string  `json:"materialID"`
	PriceHome     string  `json:"priceHome"`
	PriceOriginal string  `json:"priceOriginal"`
	CurrencyCode  string  `json:"currencyCode"`
	PurchaseDate  string  `json:"purchaseDate"`
	OrderID       string  `json:"orderID"`
	RateDate      *string `json:"rateDate"`
	Converted     bool    `json:"converted"`
}

// PriceReportResponse defines the structure for API responses containing a report.
type PriceReportResponse struct {
	RunID       string                  `json:"runID"`
	GeneratedAt time.Time               `json:"generatedAt"`
	Rows        []MaterialPriceResponse `json:"rows"`
	Summary     domain.ReportSummary    `json:"summary"`
	Join        domain.JoinStats        `json:"join"`
}

// ToPriceReportResponse converts a domain.PriceReport to its API representation.
func ToPriceReportResponse(report *domain.PriceReport) PriceReportResponse {
	rows := make([]MaterialPriceResponse, len(report.Rows))
	for i, r := range report.Rows {
		rows[i] = MaterialPriceResponse{
			MaterialID:    r.MaterialID,
			PriceHome:     fixed2(r.PriceHome),
			PriceOriginal: fixed2(r.PriceOriginal),
			CurrencyCode:  r.CurrencyCode,
			PurchaseDate:  r.PurchaseDate.Format(domain.DateLayout),
			OrderID:       r.OrderID,
			Converted:     r.Converted,
		}
		if r.RateDate != nil {
			d := r.RateDate.Format(domain.DateLayout)
			rows[i].RateDate = &d
		}
	}
	return PriceReportResponse{
		RunID:       report.RunID,
		GeneratedAt: report.GeneratedAt,
		Rows:        rows,
		Summary:     report.Summary,
		Join:        report.Join,
	}
}

func fixed2(d decimal.Decimal) string {
	return d.StringFixed(2)
}
