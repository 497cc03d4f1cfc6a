package pgsql

import (
	"context"
	"fmt"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
	portsrepo "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxOrderRepository implements the OrderReader interface using pgxpool.
type PgxOrderRepository struct {
	db *pgxpool.Pool
}

var _ portsrepo.OrderReader = (*PgxOrderRepository)(nil)

// NewOrderRepository creates a new PgxOrderRepository.
func NewOrderRepository(db *pgxpool.Pool) *PgxOrderRepository {
	return &PgxOrderRepository{db: db}
}

// LoadOrders reads every row of cabecalho_pedido and item_pedido.
// Both tables are read inside one read-only repeatable-read transaction so headers and items
// come from the same snapshot.
func (r *PgxOrderRepository) LoadOrders(ctx context.Context) ([]domain.OrderHeader, []domain.OrderItem, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback after Commit is a no-op returning pgx.ErrTxClosed.
	defer func() { _ = tx.Rollback(ctx) }()

	headers, err := loadHeaders(ctx, tx)
	if err != nil {
		return nil, nil, err
	}
	items, err := loadItems(ctx, tx)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return headers, items, nil
}

func loadHeaders(ctx context.Context, q pgx.Tx) ([]domain.OrderHeader, error) {
	query := `
		SELECT codigo_pedido::text, data_pedido::timestamp, upper(trim(moeda))
		FROM cabecalho_pedido
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying order headers: %w", err)
	}
	defer rows.Close()

	var headers []domain.OrderHeader
	for rows.Next() {
		var h domain.OrderHeader
		if err := rows.Scan(&h.OrderID, &h.OrderDate, &h.CurrencyCode); err != nil {
			return nil, fmt.Errorf("error scanning order header: %w", err)
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order headers: %w", err)
	}
	return headers, nil
}

func loadItems(ctx context.Context, q pgx.Tx) ([]domain.OrderItem, error) {
	query := `
		SELECT codigo_pedido::text, codigo_material::text, item_quantidade, valor_total_item_pedido
		FROM item_pedido
	`
	rows, err := q.Query(ctx, query)
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
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return items, nil
}
