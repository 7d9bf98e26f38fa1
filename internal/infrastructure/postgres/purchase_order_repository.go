package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo lectura de snapshots del directorio de compras sobre
// PostgreSQL. El sincronizador de tránsito es el único consumidor.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador de órdenes de compra.
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// ListSnapshots devuelve el estado actual de las órdenes de compra; warehouseID
// vacío trae todas las bodegas.
func (r *PurchaseOrderRepo) ListSnapshots(ctx context.Context, warehouseID string) ([]*entity.PurchaseOrderSnapshot, error) {
	query := `
		SELECT po_number, product_id, warehouse_id, status, stock_status, quantity
		FROM purchase_orders`
	args := []any{}
	if warehouseID != "" {
		query += ` WHERE warehouse_id = $1`
		args = append(args, warehouseID)
	}
	query += ` ORDER BY po_number`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrderSnapshot
	for rows.Next() {
		var po entity.PurchaseOrderSnapshot
		if err := rows.Scan(&po.PONumber, &po.ProductID, &po.WarehouseID,
			&po.Status, &po.StockStatus, &po.Quantity); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, &po)
	}
	return list, rows.Err()
}
