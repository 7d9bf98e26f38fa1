package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Etiquetas del resultado de conciliación por producto.
const (
	ReconciliationOK          = "OK"
	ReconciliationDiscrepancy = "Discrepancy"
)

// PhysicalCount es el último conteo físico registrado para un producto en una
// bodega. Lo provee un colaborador externo; el motor solo lo lee.
type PhysicalCount struct {
	ProductID   string
	WarehouseID string
	Count       decimal.Decimal
	CountDate   time.Time
}

// ReconciliationItem compara la cantidad del sistema (reproducción del libro)
// contra el último conteo físico. Derivado, solo lectura.
type ReconciliationItem struct {
	ProductID         string
	ProductName       string
	ProductSKU        string
	WarehouseID       string
	SystemQuantity    decimal.Decimal
	LastPhysicalCount decimal.Decimal
	Discrepancy       decimal.Decimal // SystemQuantity - LastPhysicalCount
	LastCountDate     *time.Time
	Label             string // OK | Discrepancy
}
