package services

import (
	"context"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
)

// ReportOptions tunes a single report run.
type ReportOptions struct {
	// HomeCurrency overrides the configured home currency when not empty.
	HomeCurrency string
	// WriteOutput persists the rows through the configured ReportWriter.
	WriteOutput bool
}

// PriceReportSvc computes the last purchase price of every material.
type PriceReportSvc interface {
	// Generate runs the whole pipeline with a fresh rate cache.
	Generate(ctx context.Context, opts ReportOptions) (*domain.PriceReport, error)
}
