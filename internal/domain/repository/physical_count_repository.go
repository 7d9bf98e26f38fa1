package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// PhysicalCountRepository define el puerto de solo lectura sobre los conteos
// físicos (colaborador externo). La conciliación usa el conteo más reciente
// por producto.
type PhysicalCountRepository interface {
	// GetLatestByWarehouse devuelve el último conteo físico por producto en la bodega.
	GetLatestByWarehouse(ctx context.Context, warehouseID string) ([]*entity.PhysicalCount, error)
}
