package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/application/transit"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// MovementHandler maneja las peticiones HTTP del libro de movimientos (protegido).
type MovementHandler struct {
	appendUC *ledger.AppendMovementUseCase
	queryUC  *ledger.QueryUseCase
	transit  *transit.Synchronizer
}

// NewMovementHandler construye el handler.
func NewMovementHandler(appendUC *ledger.AppendMovementUseCase, queryUC *ledger.QueryUseCase, transitSync *transit.Synchronizer) *MovementHandler {
	return &MovementHandler{appendUC: appendUC, queryUC: queryUC, transit: transitSync}
}

// Create godoc
// @Summary      Registrar movimiento de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "product_id, warehouse_id, type, quantity, unit_cost (entradas)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	movement, err := h.appendUC.Append(c.Context(), ledger.MovementInput{
		UserID:          GetUserID(c),
		ProductID:       in.ProductID,
		WarehouseID:     in.WarehouseID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		ReferenceType:   in.ReferenceType,
		ReferenceNumber: in.ReferenceNumber,
		BatchNumber:     in.BatchNumber,
		Notes:           in.Notes,
		AllowNegative:   in.AllowNegative,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(movement))
}

// Transfer godoc
// @Summary      Trasladar stock entre bodegas
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "product_id, from_warehouse_id, to_warehouse_id, quantity"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *MovementHandler) Transfer(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	movements, err := h.appendUC.Transfer(c.Context(), ledger.TransferInput{
		UserID:          GetUserID(c),
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		BatchNumber:     in.BatchNumber,
		Notes:           in.Notes,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.FromMovement(m))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Historial de movimientos
// @Description  Con include_transit=true mezcla entradas virtuales de órdenes
//
//	de compra en tránsito con los movimientos reales del libro.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id       query  string  false  "Filtrar por producto"
// @Param        warehouse_id     query  string  false  "Filtrar por bodega"
// @Param        type             query  string  false  "Filtrar por tipo de movimiento"
// @Param        from             query  string  false  "Fecha desde (RFC3339)"
// @Param        to               query  string  false  "Fecha hasta (RFC3339)"
// @Param        cursor           query  int     false  "Cursor keyset (seq del último elemento)"
// @Param        limit            query  int     false  "Tamaño de página (default 20)"
// @Param        include_transit  query  bool    false  "Incluir suministro virtual en tránsito"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filter := repository.MovementFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		AfterSeq:    page.Cursor,
		Limit:       page.Limit,
		Offset:      page.Offset,
		Descending:  c.Query("order") == "desc",
	}
	if t := c.Query("type"); t != "" {
		filter.Types = []string{t}
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

	if c.QueryBool("include_transit") {
		entries, err := h.transit.CombinedView(c.Context(), filter)
		if err != nil {
			return writeDomainError(c, err)
		}
		out := make([]dto.LedgerEntryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, dto.FromLedgerEntry(e))
		}
		return c.JSON(fiber.Map{"entries": out})
	}

	movements, err := h.queryUC.ListMovements(c.Context(), filter)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.FromMovement(m))
	}
	pagination := dto.PageResponse{Limit: page.Limit, Offset: page.Offset}
	if len(movements) > 0 {
		pagination.NextCursor = movements[len(movements)-1].Seq
	}
	return c.JSON(fiber.Map{"movements": out, "pagination": pagination})
}

// GetByID godoc
// @Summary      Obtener un movimiento por ID
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	movement, err := h.queryUC.GetMovement(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.FromMovement(movement))
}

// Balance godoc
// @Summary      Saldo actual de un producto en una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "Producto"
// @Param        warehouse_id  query  string  true  "Bodega"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/balance [get]
func (h *MovementHandler) Balance(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	quantity, err := h.queryUC.GetCurrentBalance(c.Context(), productID, warehouseID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.BalanceResponse{ProductID: productID, WarehouseID: warehouseID, Quantity: quantity})
}
