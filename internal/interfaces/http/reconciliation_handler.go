package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/reconciliation"
)

// ReconciliationHandler maneja el reporte de conciliación (protegido).
type ReconciliationHandler struct {
	uc *reconciliation.UseCase
}

// NewReconciliationHandler construye el handler.
func NewReconciliationHandler(uc *reconciliation.UseCase) *ReconciliationHandler {
	return &ReconciliationHandler{uc: uc}
}

// Report godoc
// @Summary      Conciliación sistema vs conteo físico de una bodega
// @Description  Compara la cantidad del sistema contra el último conteo físico
//
//	por producto. Solo lectura: resolver una discrepancia requiere un
//	ADJUSTMENT explícito.
//
// @Tags         reconciliation
// @Security     Bearer
// @Produce      json
// @Param        warehouseId  path  string  true  "ID de la bodega"
// @Success      200  {object}  dto.ReconciliationReportResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/reconciliation/{warehouseId} [get]
func (h *ReconciliationHandler) Report(c *fiber.Ctx) error {
	report, err := h.uc.Compute(c.Context(), c.Params("warehouseId"))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := dto.ReconciliationReportResponse{
		WarehouseID:      report.WarehouseID,
		WarehouseName:    report.WarehouseName,
		Items:            make([]dto.ReconciliationItemDTO, 0, len(report.Items)),
		DiscrepancyCount: report.DiscrepancyCount,
	}
	for _, item := range report.Items {
		out.Items = append(out.Items, dto.FromReconciliationItem(item))
	}
	return c.JSON(out)
}
