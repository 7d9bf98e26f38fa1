package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo implementación del índice de saldos sobre PostgreSQL
// (usable con pool o tx).
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

// Get obtiene el saldo actual de un producto en una bodega. Si la llave no
// tiene historial devuelve saldo cero, no error.
func (r *StockBalanceRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockBalance, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock_balances WHERE product_id = $1 AND warehouse_id = $2`
	var b entity.StockBalance
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&b.ProductID, &b.WarehouseID, &b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE) para
// serializar los appends por llave dentro de la transacción. Si la llave no
// tiene fila todavía (primer movimiento), la materializa en cero y la bloquea:
// sin fila no hay lock, y dos primeras-escrituras concurrentes partirían ambas
// de saldo 0 perdiendo un delta.
func (r *StockBalanceRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockBalance, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock_balances WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var b entity.StockBalance
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&b.ProductID, &b.WarehouseID, &b.Quantity, &b.UpdatedAt,
	)
	if err == nil {
		return &b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get balance for update: %w", err)
	}

	// DO NOTHING tolera la carrera con otra primera-escritura: la que pierde el
	// insert queda encolada en el unique y el re-SELECT FOR UPDATE toma el lock
	// sobre la fila ya comprometida.
	insert := `
		INSERT INTO stock_balances (product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, productID, warehouseID); err != nil {
		return nil, fmt.Errorf("init balance: %w", err)
	}
	err = r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&b.ProductID, &b.WarehouseID, &b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return &b, nil
}

// Upsert inserta o actualiza el saldo materializado (por producto y bodega).
func (r *StockBalanceRepo) Upsert(ctx context.Context, balance *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, balance.ProductID, balance.WarehouseID, balance.Quantity)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// ListByWarehouse devuelve los saldos de todos los productos con historial en la bodega.
func (r *StockBalanceRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockBalance, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock_balances WHERE warehouse_id = $1
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.ProductID, &b.WarehouseID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
