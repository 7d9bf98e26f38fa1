// Package reconciliation compara la cantidad del sistema (derivada del libro)
// contra el último conteo físico por producto y marca discrepancias. Lector
// puro: resolver una discrepancia exige un ADJUSTMENT explícito por el libro.
package reconciliation

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// Tolerancia para ruido de redondeo en unidades por peso.
var discrepancyTolerance = decimal.NewFromFloat(0.01)

// UseCase calcula el reporte de conciliación de una bodega.
type UseCase struct {
	balanceRepo   repository.StockBalanceRepository
	countRepo     repository.PhysicalCountRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewUseCase construye el caso de uso de conciliación.
func NewUseCase(
	balanceRepo repository.StockBalanceRepository,
	countRepo repository.PhysicalCountRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *UseCase {
	return &UseCase{
		balanceRepo:   balanceRepo,
		countRepo:     countRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// Report resultado de la conciliación de una bodega.
type Report struct {
	WarehouseID      string
	WarehouseName    string
	Items            []*entity.ReconciliationItem
	DiscrepancyCount int
}

// Compute genera el reporte: por cada producto con actividad en el libro de la
// bodega toma la cantidad del sistema del índice de saldos, la cruza con el
// conteo físico más reciente y marca "Discrepancy" cuando |diferencia| supera
// la tolerancia. Nunca muta el libro; los conteos faltantes o viejos se
// reportan, no se rechazan (vienen de un sistema externo).
func (uc *UseCase) Compute(ctx context.Context, warehouseID string) (*Report, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}

	balances, err := uc.balanceRepo.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	counts, err := uc.countRepo.GetLatestByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	countByProduct := make(map[string]*entity.PhysicalCount, len(counts))
	for _, c := range counts {
		countByProduct[c.ProductID] = c
	}

	report := &Report{WarehouseID: wh.ID, WarehouseName: wh.Name}
	for _, b := range balances {
		item := &entity.ReconciliationItem{
			ProductID:      b.ProductID,
			WarehouseID:    warehouseID,
			SystemQuantity: b.Quantity,
		}
		if product, err := uc.productRepo.GetByID(ctx, b.ProductID); err == nil && product != nil {
			item.ProductName = product.Name
			item.ProductSKU = product.SKU
		}
		if c, ok := countByProduct[b.ProductID]; ok {
			item.LastPhysicalCount = c.Count
			countDate := c.CountDate
			item.LastCountDate = &countDate
		} else {
			item.LastPhysicalCount = decimal.Zero
		}
		item.Discrepancy = item.SystemQuantity.Sub(item.LastPhysicalCount)
		if item.Discrepancy.Abs().GreaterThan(discrepancyTolerance) {
			item.Label = entity.ReconciliationDiscrepancy
			report.DiscrepancyCount++
		} else {
			item.Label = entity.ReconciliationOK
		}
		report.Items = append(report.Items, item)
	}
	return report, nil
}
