package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de solo lectura sobre el directorio
// de compras (colaborador externo). El sincronizador de tránsito deriva de
// estos snapshots las entradas virtuales; nunca escribe en compras.
type PurchaseOrderRepository interface {
	// ListSnapshots devuelve el estado actual de las órdenes de compra,
	// opcionalmente filtrado por bodega destino (vacío = todas).
	ListSnapshots(ctx context.Context, warehouseID string) ([]*entity.PurchaseOrderSnapshot, error)
}
