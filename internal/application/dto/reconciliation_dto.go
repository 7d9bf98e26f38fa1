package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// ReconciliationItemDTO comparación sistema vs conteo físico para un producto.
type ReconciliationItemDTO struct {
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name,omitempty"`
	ProductSKU        string          `json:"product_sku,omitempty"`
	SystemQuantity    decimal.Decimal `json:"system_quantity"`
	LastPhysicalCount decimal.Decimal `json:"last_physical_count"`
	Discrepancy       decimal.Decimal `json:"discrepancy"`
	LastCountDate     *time.Time      `json:"last_count_date,omitempty"`
	Label             string          `json:"label"`
}

// ReconciliationReportResponse respuesta de GET /api/stock/reconciliation/:warehouseId.
type ReconciliationReportResponse struct {
	WarehouseID      string                  `json:"warehouse_id"`
	WarehouseName    string                  `json:"warehouse_name"`
	Items            []ReconciliationItemDTO `json:"items"`
	DiscrepancyCount int                     `json:"discrepancy_count"`
}

// FromReconciliationItem mapea la entidad derivada al DTO.
func FromReconciliationItem(item *entity.ReconciliationItem) ReconciliationItemDTO {
	return ReconciliationItemDTO{
		ProductID:         item.ProductID,
		ProductName:       item.ProductName,
		ProductSKU:        item.ProductSKU,
		SystemQuantity:    item.SystemQuantity,
		LastPhysicalCount: item.LastPhysicalCount,
		Discrepancy:       item.Discrepancy,
		LastCountDate:     item.LastCountDate,
		Label:             item.Label,
	}
}
