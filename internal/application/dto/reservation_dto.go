package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// CreateReservationRequest body para POST /api/stock/reservations.
type CreateReservationRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	WarehouseID     string          `json:"warehouse_id" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
	ReferenceType   string          `json:"reference_type,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// FulfillReservationRequest body para POST /api/stock/reservations/:id/fulfill.
// FulfillmentReference alimenta el reference_number del movimiento generado;
// reutilizarlo en un retry permite detectar cumplimientos duplicados.
type FulfillReservationRequest struct {
	Quantity             decimal.Decimal `json:"quantity"`
	FulfillmentReference string          `json:"fulfillment_reference,omitempty"`
}

// CancelReservationRequest body para POST /api/stock/reservations/:id/cancel.
type CancelReservationRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ReservationResponse representación JSON de una reserva. Status es el estado
// efectivo (expiración derivada en lectura).
type ReservationResponse struct {
	ID                string          `json:"id"`
	ReservationNumber string          `json:"reservation_number"`
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	QuantityReserved  decimal.Decimal `json:"quantity_reserved"`
	QuantityFulfilled decimal.Decimal `json:"quantity_fulfilled"`
	QuantityRemaining decimal.Decimal `json:"quantity_remaining"`
	Status            string          `json:"status"`
	ReferenceType     string          `json:"reference_type,omitempty"`
	ReferenceNumber   string          `json:"reference_number,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	CancelReason      string          `json:"cancel_reason,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	CreatedBy         string          `json:"created_by,omitempty"`
}

// FromReservation mapea la entidad al DTO aplicando el estado efectivo en now.
func FromReservation(r *entity.Reservation, now time.Time) ReservationResponse {
	return ReservationResponse{
		ID:                r.ID,
		ReservationNumber: r.ReservationNumber,
		ProductID:         r.ProductID,
		WarehouseID:       r.WarehouseID,
		QuantityReserved:  r.QuantityReserved,
		QuantityFulfilled: r.QuantityFulfilled,
		QuantityRemaining: r.QuantityRemaining(),
		Status:            r.EffectiveStatus(now),
		ReferenceType:     r.ReferenceType,
		ReferenceNumber:   r.ReferenceNumber,
		ExpiryDate:        r.ExpiryDate,
		CancelReason:      r.CancelReason,
		Notes:             r.Notes,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		CreatedBy:         r.CreatedBy,
	}
}
