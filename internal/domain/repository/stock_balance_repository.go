package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// StockBalanceRepository define el puerto del índice materializado de saldos
// por (producto, bodega). Usado dentro de transacciones para garantizar la
// disciplina de un solo escritor por llave.
type StockBalanceRepository interface {
	// Get devuelve el saldo actual; si la llave no existe devuelve saldo cero.
	Get(ctx context.Context, productID, warehouseID string) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar appends por llave.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockBalance, error)
	Upsert(ctx context.Context, balance *entity.StockBalance) error
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockBalance, error)
}
