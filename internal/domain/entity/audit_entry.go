package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditEntry es la proyección de lectura de un Movement con nombres resueltos
// para presentación. BalanceBefore/BalanceAfter se copian textuales del
// movimiento para que cualquier consumidor verifique la cadena de saldos sin
// volver a consultar el libro. No tiene ciclo de vida propio.
type AuditEntry struct {
	Seq             int64
	MovementID      string
	Timestamp       time.Time
	Action          string // tipo de movimiento
	UserID          string
	UserName        string
	ProductID       string
	ProductName     string
	WarehouseID     string
	WarehouseName   string
	QuantityChange  decimal.Decimal
	BalanceBefore   decimal.Decimal
	BalanceAfter    decimal.Decimal
	ReferenceType   string
	ReferenceNumber string
	Notes           string
}
