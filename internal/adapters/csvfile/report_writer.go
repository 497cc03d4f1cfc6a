package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/apperrors"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
	portsrepo "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/repositories"
)

// ReportColumns is the exact column order of the output file.
var ReportColumns = []string{
	"codigo_material",
	"ultimo_preco_brl",
	"ultimo_preco_original",
	"moeda_pedido",
	"data_ultima_compra",
	"codigo_pedido_referencia",
	"data_cotacao",
}

// ReportWriter writes the report as a UTF-8 CSV file.
type ReportWriter struct {
	path string
}

var _ portsrepo.ReportWriter = (*ReportWriter)(nil)

// NewReportWriter creates a writer for path.
func NewReportWriter(path string) *ReportWriter {
	return &ReportWriter{path: path}
}

func (w *ReportWriter) Location() string {
	return w.path
}

// WriteReport writes rows to a temporary file next to the destination and renames it into
// place, so the destination is either the complete new report or left untouched.
func (w *ReportWriter) WriteReport(ctx context.Context, rows []domain.MaterialReport) error {
	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrReportWrite, w.path, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	cw := csv.NewWriter(tmp)
	if err := cw.Write(ReportColumns); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrReportWrite, err)
	}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cw.Write(FormatRow(row)); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrReportWrite, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrReportWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrReportWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrReportWrite, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrReportWrite, err)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrReportWrite, w.path, err)
	}
	committed = true
	return nil
}

// FormatRow renders a report row in ReportColumns order.
func FormatRow(row domain.MaterialReport) []string {
	rateDate := ""
	if row.RateDate != nil {
		rateDate = row.RateDate.Format(domain.DateLayout)
	}
	return []string{
		row.MaterialID,
		row.PriceHome.StringFixed(2),
		row.PriceOriginal.StringFixed(2),
		row.CurrencyCode,
		row.PurchaseDate.Format(domain.DateLayout),
		row.OrderID,
		rateDate,
	}
}
