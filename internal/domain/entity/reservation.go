package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una reserva. FULFILLED, CANCELLED y EXPIRED son terminales.
const (
	ReservationActive             = "ACTIVE"
	ReservationPartiallyFulfilled = "PARTIALLY_FULFILLED"
	ReservationFulfilled          = "FULFILLED"
	ReservationCancelled          = "CANCELLED"
	ReservationExpired            = "EXPIRED"
)

// Reservation es una asignación blanda de stock: restringe la cantidad disponible
// para nuevas reservas/salidas sin mover el libro. Solo el cumplimiento genera un
// movimiento OUT (RESERVATION_FULFILL) vía el libro de stock.
type Reservation struct {
	ID                string
	ReservationNumber string
	ProductID         string
	WarehouseID       string
	QuantityReserved  decimal.Decimal
	QuantityFulfilled decimal.Decimal
	Status            string
	ReferenceType     string
	ReferenceNumber   string
	ExpiryDate        *time.Time
	CancelReason      string
	Notes             string
	Version           int64 // bloqueo optimista: UPDATE ... WHERE version = $n
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CreatedBy         string
}

// QuantityRemaining devuelve reservado - cumplido (siempre >= 0 por invariante).
func (r *Reservation) QuantityRemaining() decimal.Decimal {
	return r.QuantityReserved.Sub(r.QuantityFulfilled)
}

// IsTerminal reporta si el estado no admite más transiciones.
func (r *Reservation) IsTerminal() bool {
	return IsTerminalStatus(r.Status)
}

// IsTerminalStatus reporta si un estado de reserva es terminal.
func IsTerminalStatus(status string) bool {
	switch status {
	case ReservationFulfilled, ReservationCancelled, ReservationExpired:
		return true
	}
	return false
}

// EffectiveStatus deriva el estado efectivo en now: si la reserva sigue activa
// pero su fecha de expiración ya pasó, se considera EXPIRED. Función pura; la
// transición persistida queda a cargo de un barrido externo opcional.
func (r *Reservation) EffectiveStatus(now time.Time) string {
	if r.IsTerminal() {
		return r.Status
	}
	if r.ExpiryDate != nil && now.After(*r.ExpiryDate) {
		return ReservationExpired
	}
	return r.Status
}

// StatusAfterFulfill calcula el estado resultante tras cumplir una cantidad.
func (r *Reservation) StatusAfterFulfill() string {
	if r.QuantityRemaining().IsZero() {
		return ReservationFulfilled
	}
	return ReservationPartiallyFulfilled
}

// HoldsStock reporta si la reserva aún descuenta disponibilidad en now
// (activa o parcialmente cumplida y no expirada).
func (r *Reservation) HoldsStock(now time.Time) bool {
	s := r.EffectiveStatus(now)
	return s == ReservationActive || s == ReservationPartiallyFulfilled
}
