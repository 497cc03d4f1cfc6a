package repositories

import (
	"context"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
)

// ReportWriter persists a finished report as a single artifact.
type ReportWriter interface {
	// WriteReport writes all rows or nothing; failures wrap apperrors.ErrReportWrite.
	WriteReport(ctx context.Context, rows []domain.MaterialReport) error

	// Location describes where the report is written (e.g. a file path).
	Location() string
}
