// Package csvfile reads purchase orders from and writes price reports to CSV files.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/apperrors"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
	portsrepo "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Column names of the input files.
const (
	ColOrderID    = "codigo_pedido"
	ColOrderDate  = "data_pedido"
	ColCurrency   = "moeda"
	ColMaterialID = "codigo_material"
	ColQuantity   = "item_quantidade"
	ColTotalValue = "valor_total_item_pedido"
)

const utf8BOM = "\ufeff"

type headerRow struct {
	OrderID   string `validate:"required"`
	OrderDate string `validate:"required"`
	Currency  string `validate:"required,len=3,alpha"`
}

type itemRow struct {
	OrderID    string `validate:"required"`
	MaterialID string `validate:"required"`
	Quantity   string `validate:"required,numeric"`
	TotalValue string `validate:"required,numeric"`
}

// OrderSource reads order headers and items from two CSV files.
type OrderSource struct {
	headersPath string
	itemsPath   string
	validate    *validator.Validate
}

var _ portsrepo.OrderReader = (*OrderSource)(nil)

// NewOrderSource creates a source for the given header and item files.
func NewOrderSource(headersPath, itemsPath string) *OrderSource {
	return &OrderSource{
		headersPath: headersPath,
		itemsPath:   itemsPath,
		validate:    validator.New(),
	}
}

// LoadOrders checks that both files exist before parsing either of them.
func (s *OrderSource) LoadOrders(ctx context.Context) ([]domain.OrderHeader, []domain.OrderItem, error) {
	for _, path := range []string{s.headersPath, s.itemsPath} {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrMissingInput, path)
			}
			return nil, nil, fmt.Errorf("checking %s: %w", path, err)
		}
	}

	headers, err := s.loadHeaders(ctx)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.loadItems(ctx)
	if err != nil {
		return nil, nil, err
	}
	return headers, items, nil
}

func (s *OrderSource) loadHeaders(ctx context.Context) ([]domain.OrderHeader, error) {
	var headers []domain.OrderHeader
	err := readRecords(ctx, s.headersPath, []string{ColOrderID, ColOrderDate, ColCurrency}, func(line int, rec map[string]string) error {
		row := headerRow{
			OrderID:   strings.TrimSpace(rec[ColOrderID]),
			OrderDate: strings.TrimSpace(rec[ColOrderDate]),
			Currency:  domain.NormalizeCurrency(rec[ColCurrency]),
		}
		if err := s.validate.Struct(row); err != nil {
			return rowError(s.headersPath, line, err)
		}
		date, err := domain.ParseOrderDate(row.OrderDate)
		if err != nil {
			return rowError(s.headersPath, line, err)
		}
		headers = append(headers, domain.OrderHeader{
			OrderID:      row.OrderID,
			OrderDate:    date,
			CurrencyCode: row.Currency,
		})
		return nil
	})
	return headers, err
}

func (s *OrderSource) loadItems(ctx context.Context) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := readRecords(ctx, s.itemsPath, []string{ColOrderID, ColMaterialID, ColQuantity, ColTotalValue}, func(line int, rec map[string]string) error {
		row := itemRow{
			OrderID:    strings.TrimSpace(rec[ColOrderID]),
			MaterialID: strings.TrimSpace(rec[ColMaterialID]),
			Quantity:   strings.TrimSpace(rec[ColQuantity]),
			TotalValue: strings.TrimSpace(rec[ColTotalValue]),
		}
		if err := s.validate.Struct(row); err != nil {
			return rowError(s.itemsPath, line, err)
		}
		qty, err := decimal.NewFromString(row.Quantity)
		if err != nil {
			return rowError(s.itemsPath, line, err)
		}
		total, err := decimal.NewFromString(row.TotalValue)
		if err != nil {
			return rowError(s.itemsPath, line, err)
		}
		items = append(items, domain.OrderItem{
			OrderID:    row.OrderID,
			MaterialID: row.MaterialID,
			Quantity:   qty,
			TotalValue: total,
		})
		return nil
	})
	return items, err
}

// readRecords streams the rows of a CSV file with a header line, calling fn with each row
// keyed by column name. Lines are numbered from 1, the header being line 1.
func readRecords(ctx context.Context, path string, required []string, fn func(line int, rec map[string]string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s is empty", apperrors.ErrValidation, path)
		}
		return fmt.Errorf("reading header of %s: %w", path, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("%w: %s has no %q column", apperrors.ErrValidation, path, col)
		}
	}

	rec := make(map[string]string, len(required))
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, path, err)
		}
		for _, col := range required {
			rec[col] = fields[index[col]]
		}
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}

func rowError(path string, line int, err error) error {
	return fmt.Errorf("%w: %s line %d: %v", apperrors.ErrValidation, path, line, err)
}
