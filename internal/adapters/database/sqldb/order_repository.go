// Package sqldb reads purchase orders through database/sql drivers (MySQL and SQLite).
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
	portsrepo "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/repositories"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// OrderRepository implements the OrderReader interface over a *sql.DB.
type OrderRepository struct {
	db *sql.DB
}

var _ portsrepo.OrderReader = (*OrderRepository)(nil)

// Open opens and pings a database with one of the supported drivers.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	return db, nil
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// LoadOrders reads every row of cabecalho_pedido and item_pedido.
// Dates are scanned as text so the repository works with drivers that do not map DATE
// columns to time.Time (MySQL without parseTime, untyped SQLite columns).
func (r *OrderRepository) LoadOrders(ctx context.Context) ([]domain.OrderHeader, []domain.OrderItem, error) {
	headers, err := r.loadHeaders(ctx)
	if err != nil {
		return nil, nil, err
	}
	items, err := r.loadItems(ctx)
	if err != nil {
		return nil, nil, err
	}
	return headers, items, nil
}

func (r *OrderRepository) loadHeaders(ctx context.Context) ([]domain.OrderHeader, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT codigo_pedido, data_pedido, moeda FROM cabecalho_pedido`)
	if err != nil {
		return nil, fmt.Errorf("error querying order headers: %w", err)
	}
	defer rows.Close()

	var headers []domain.OrderHeader
	for rows.Next() {
		var orderID, rawDate, currency string
		if err := rows.Scan(&orderID, &rawDate, &currency); err != nil {
			return nil, fmt.Errorf("error scanning order header: %w", err)
		}
		date, err := domain.ParseOrderDate(rawDate)
		if err != nil {
			return nil, fmt.Errorf("order header %s: %w", orderID, err)
		}
		headers = append(headers, domain.OrderHeader{
			OrderID:      strings.TrimSpace(orderID),
			OrderDate:    date,
			CurrencyCode: domain.NormalizeCurrency(currency),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order headers: %w", err)
	}
	return headers, nil
}

func (r *OrderRepository) loadItems(ctx context.Context) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT codigo_pedido, codigo_material, item_quantidade, valor_total_item_pedido FROM item_pedido`)
	if err != nil {
		return nil, fmt.Errorf("error querying order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.OrderID, &it.MaterialID, &it.Quantity, &it.TotalValue); err != nil {
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		it.OrderID = strings.TrimSpace(it.OrderID)
		it.MaterialID = strings.TrimSpace(it.MaterialID)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return items, nil
}
