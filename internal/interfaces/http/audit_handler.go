package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/audit"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// AuditHandler maneja la consulta del audit trail (protegido).
type AuditHandler struct {
	uc *audit.UseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// Trail godoc
// @Summary      Audit trail de movimientos
// @Description  Proyección paginada del libro con nombres resueltos y saldos
//
//	antes/después textuales para verificación independiente.
//
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        from          query  string  false  "Fecha desde (RFC3339)"
// @Param        to            query  string  false  "Fecha hasta (RFC3339)"
// @Param        cursor        query  int     false  "Cursor keyset (seq)"
// @Param        limit         query  int     false  "Tamaño de página (default 50)"
// @Success      200  {object}  dto.AuditTrailResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/audit-trail [get]
func (h *AuditHandler) Trail(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	if page.Limit <= 0 {
		page.Limit = 50
	}

	filter := repository.MovementFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		AfterSeq:    page.Cursor,
		Limit:       page.Limit,
		Offset:      page.Offset,
		Descending:  c.Query("order") != "asc",
	}
	if from := c.Query("from"); from != "" {
		ts, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
		}
		filter.From = &ts
	}
	if to := c.Query("to"); to != "" {
		ts, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
		}
		filter.To = &ts
	}

	entries, err := h.uc.GetTrail(c.Context(), filter)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := dto.AuditTrailResponse{
		Entries:    make([]dto.AuditEntryDTO, 0, len(entries)),
		Pagination: dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, dto.FromAuditEntry(e))
	}
	if len(entries) > 0 {
		out.Pagination.NextCursor = entries[len(entries)-1].Seq
	}
	return c.JSON(out)
}
