package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.PhysicalCountRepository = (*PhysicalCountRepo)(nil)

// PhysicalCountRepo lectura de conteos físicos sobre PostgreSQL. La
// conciliación usa solo el conteo más reciente por producto.
type PhysicalCountRepo struct {
	q Querier
}

// NewPhysicalCountRepository construye el adaptador de conteos físicos.
func NewPhysicalCountRepository(q Querier) *PhysicalCountRepo {
	return &PhysicalCountRepo{q: q}
}

// GetLatestByWarehouse devuelve el último conteo por producto en la bodega
// (DISTINCT ON ordenado por fecha descendente).
func (r *PhysicalCountRepo) GetLatestByWarehouse(ctx context.Context, warehouseID string) ([]*entity.PhysicalCount, error) {
	query := `
		SELECT DISTINCT ON (product_id) product_id, warehouse_id, count, count_date
		FROM physical_counts
		WHERE warehouse_id = $1
		ORDER BY product_id, count_date DESC`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list physical counts: %w", err)
	}
	defer rows.Close()
	var list []*entity.PhysicalCount
	for rows.Next() {
		var c entity.PhysicalCount
		if err := rows.Scan(&c.ProductID, &c.WarehouseID, &c.Count, &c.CountDate); err != nil {
			return nil, fmt.Errorf("scan physical count: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
