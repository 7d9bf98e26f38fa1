package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de lectura del directorio maestro de
// productos (colaborador externo). El motor solo valida existencia, resuelve
// nombres y mantiene el costo promedio ponderado.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
}
