package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// AuditEntryDTO entrada del audit trail con nombres resueltos. Los saldos se
// copian textuales del movimiento subyacente.
type AuditEntryDTO struct {
	Seq             int64           `json:"seq"`
	MovementID      string          `json:"movement_id"`
	Timestamp       time.Time       `json:"timestamp"`
	Action          string          `json:"action"`
	UserID          string          `json:"user_id,omitempty"`
	UserName        string          `json:"user_name,omitempty"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name,omitempty"`
	WarehouseID     string          `json:"warehouse_id"`
	WarehouseName   string          `json:"warehouse_name,omitempty"`
	QuantityChange  decimal.Decimal `json:"quantity_change"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	ReferenceType   string          `json:"reference_type,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// AuditTrailResponse respuesta paginada de GET /api/stock/audit-trail.
type AuditTrailResponse struct {
	Entries    []AuditEntryDTO `json:"entries"`
	Pagination PageResponse    `json:"pagination"`
}

// FromAuditEntry mapea la proyección del dominio al DTO.
func FromAuditEntry(e *entity.AuditEntry) AuditEntryDTO {
	return AuditEntryDTO{
		Seq:             e.Seq,
		MovementID:      e.MovementID,
		Timestamp:       e.Timestamp,
		Action:          e.Action,
		UserID:          e.UserID,
		UserName:        e.UserName,
		ProductID:       e.ProductID,
		ProductName:     e.ProductName,
		WarehouseID:     e.WarehouseID,
		WarehouseName:   e.WarehouseName,
		QuantityChange:  e.QuantityChange,
		BalanceBefore:   e.BalanceBefore,
		BalanceAfter:    e.BalanceAfter,
		ReferenceType:   e.ReferenceType,
		ReferenceNumber: e.ReferenceNumber,
		Notes:           e.Notes,
	}
}
