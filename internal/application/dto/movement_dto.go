package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// CreateMovementRequest body para POST /api/stock/movements.
// Quantity es la magnitud (positiva) para IN/OUT/TRANSFER_*; para ADJUSTMENT
// puede venir con signo. AllowNegative solo aplica a ADJUSTMENT (bajas explícitas
// aprobadas aguas arriba).
type CreateMovementRequest struct {
	ProductID       string           `json:"product_id" validate:"required"`
	WarehouseID     string           `json:"warehouse_id" validate:"required"`
	Type            string           `json:"type" validate:"required"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	ReferenceType   string           `json:"reference_type,omitempty"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	BatchNumber     string           `json:"batch_number,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	AllowNegative   bool             `json:"allow_negative,omitempty"`
}

// CreateTransferRequest body para POST /api/stock/transfers: traslado entre
// bodegas registrado como par TRANSFER_OUT/TRANSFER_IN en una transacción.
type CreateTransferRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	FromWarehouseID string          `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   string          `json:"to_warehouse_id" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
	BatchNumber     string          `json:"batch_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// MovementResponse representación JSON de un movimiento del libro.
type MovementResponse struct {
	Seq             int64           `json:"seq"`
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	WarehouseID     string          `json:"warehouse_id"`
	Type            string          `json:"type"`
	QuantityDelta   decimal.Decimal `json:"quantity_delta"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	ReferenceType   string          `json:"reference_type,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	BatchNumber     string          `json:"batch_number,omitempty"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	Notes           string          `json:"notes,omitempty"`
	Date            time.Time       `json:"date"`
	CreatedAt       time.Time       `json:"created_at"`
	CreatedBy       string          `json:"created_by,omitempty"`
}

// FromMovement mapea la entidad al DTO de respuesta.
func FromMovement(m *entity.Movement) MovementResponse {
	return MovementResponse{
		Seq:             m.Seq,
		ID:              m.ID,
		ProductID:       m.ProductID,
		WarehouseID:     m.WarehouseID,
		Type:            m.Type,
		QuantityDelta:   m.QuantityDelta,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		ReferenceType:   m.ReferenceType,
		ReferenceNumber: m.ReferenceNumber,
		BatchNumber:     m.BatchNumber,
		UnitCost:        m.UnitCost,
		TotalCost:       m.TotalCost,
		Notes:           m.Notes,
		Date:            m.Date,
		CreatedAt:       m.CreatedAt,
		CreatedBy:       m.CreatedBy,
	}
}

// TransitSupplyResponse entrada virtual de tránsito en vistas combinadas.
type TransitSupplyResponse struct {
	PONumber    string          `json:"po_number"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	IsTransit   bool            `json:"is_transit"`
}

// LedgerEntryResponse unión etiquetada para la vista combinada (real | virtual).
type LedgerEntryResponse struct {
	Kind     string                 `json:"kind"`
	Movement *MovementResponse      `json:"movement,omitempty"`
	Transit  *TransitSupplyResponse `json:"transit,omitempty"`
}

// FromLedgerEntry mapea la unión del dominio al DTO.
func FromLedgerEntry(e entity.LedgerEntry) LedgerEntryResponse {
	out := LedgerEntryResponse{Kind: e.Kind}
	if e.Movement != nil {
		m := FromMovement(e.Movement)
		out.Movement = &m
	}
	if e.Transit != nil {
		out.Transit = &TransitSupplyResponse{
			PONumber:    e.Transit.PONumber,
			ProductID:   e.Transit.ProductID,
			WarehouseID: e.Transit.WarehouseID,
			Quantity:    e.Transit.Quantity,
			IsTransit:   e.Transit.IsTransit,
		}
	}
	return out
}

// BalanceResponse respuesta de GET /api/stock/balance.
type BalanceResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}
