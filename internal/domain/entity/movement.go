package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de stock.
const (
	MovementTypeIN                 = "IN"                  // entrada
	MovementTypeOUT                = "OUT"                 // salida
	MovementTypeTRANSFERIN         = "TRANSFER_IN"         // entrada por traslado
	MovementTypeTRANSFEROUT        = "TRANSFER_OUT"        // salida por traslado
	MovementTypeADJUSTMENT         = "ADJUSTMENT"          // ajuste (+/-)
	MovementTypeRESERVATIONFULFILL = "RESERVATION_FULFILL" // salida por cumplimiento de reserva
)

// Tipos de referencia para trazar el origen de un movimiento.
const (
	ReferenceTypeInvoice       = "INVOICE"
	ReferenceTypePurchaseOrder = "PURCHASE_ORDER"
	ReferenceTypeTransfer      = "TRANSFER"
	ReferenceTypeAdjustment    = "ADJUSTMENT"
	ReferenceTypeReturn        = "RETURN"
	ReferenceTypeCreditNote    = "CREDIT_NOTE"
	ReferenceTypeInitial       = "INITIAL"
	ReferenceTypeReservation   = "RESERVATION"
)

// Movement representa un hecho inmutable del libro de stock: cambia la cantidad
// disponible de un producto en una bodega por un delta con signo.
// Invariante: BalanceAfter = BalanceBefore + QuantityDelta, y por cada llave
// (producto, bodega) el BalanceBefore del movimiento N+1 es el BalanceAfter del N.
// Los movimientos nunca se mutan ni se borran; una corrección es un nuevo ADJUSTMENT.
type Movement struct {
	Seq             int64 // secuencia monótona global; llave de cursor estable para paginación
	ID              string
	ProductID       string
	WarehouseID     string
	Type            string
	QuantityDelta   decimal.Decimal // positivo IN/TRANSFER_IN/ajuste+, negativo OUT/TRANSFER_OUT/ajuste-
	BalanceBefore   decimal.Decimal
	BalanceAfter    decimal.Decimal
	ReferenceType   string
	ReferenceNumber string
	BatchNumber     string
	UnitCost        decimal.Decimal
	TotalCost       decimal.Decimal
	Notes           string
	Date            time.Time
	CreatedAt       time.Time
	CreatedBy       string
}

// ValidType reporta si t es un tipo de movimiento conocido.
func ValidType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeTRANSFERIN,
		MovementTypeTRANSFEROUT, MovementTypeADJUSTMENT, MovementTypeRESERVATIONFULFILL:
		return true
	}
	return false
}

// IsInbound reporta si el tipo representa una entrada (delta positivo esperado).
func IsInbound(t string) bool {
	return t == MovementTypeIN || t == MovementTypeTRANSFERIN
}

// IsOutbound reporta si el tipo representa una salida (delta negativo esperado).
func IsOutbound(t string) bool {
	return t == MovementTypeOUT || t == MovementTypeTRANSFEROUT || t == MovementTypeRESERVATIONFULFILL
}
