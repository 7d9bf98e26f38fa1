package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance es el saldo corriente materializado por (producto, bodega).
// Derivado del libro de movimientos: es un índice reconstruible por replay,
// nunca la única fuente de verdad. La fila se bloquea (SELECT FOR UPDATE) para
// serializar los appends por llave.
type StockBalance struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}
