package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/reservation"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// ReservationHandler maneja las peticiones HTTP de reservas (protegido).
type ReservationHandler struct {
	uc *reservation.UseCase
}

// NewReservationHandler construye el handler.
func NewReservationHandler(uc *reservation.UseCase) *ReservationHandler {
	return &ReservationHandler{uc: uc}
}

// Create godoc
// @Summary      Crear reserva de stock
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReservationRequest  true  "product_id, warehouse_id, quantity, expiry_date opcional"
// @Success      201   {object}  dto.ReservationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/reservations [post]
func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	res, err := h.uc.Create(c.Context(), reservation.CreateInput{
		UserID:          GetUserID(c),
		ProductID:       in.ProductID,
		WarehouseID:     in.WarehouseID,
		Quantity:        in.Quantity,
		ReferenceType:   in.ReferenceType,
		ReferenceNumber: in.ReferenceNumber,
		ExpiryDate:      in.ExpiryDate,
		Notes:           in.Notes,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromReservation(res, time.Now()))
}

// GetByID godoc
// @Summary      Obtener una reserva
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.ReservationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/reservations/{id} [get]
func (h *ReservationHandler) GetByID(c *fiber.Ctx) error {
	res, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.FromReservation(res, time.Now()))
}

// List godoc
// @Summary      Listar reservas
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        status        query  string  false  "Filtrar por estado"
// @Param        limit         query  int     false  "Tamaño de página (default 20)"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.ReservationResponse
// @Router       /api/stock/reservations [get]
func (h *ReservationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), repository.ReservationFilter{
		ProductID:      c.Query("product_id"),
		WarehouseID:    c.Query("warehouse_id"),
		Status:         c.Query("status"),
		IncludeExpired: c.QueryBool("include_expired"),
		Limit:          page.Limit,
		Offset:         page.Offset,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	now := time.Now()
	out := make([]dto.ReservationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.FromReservation(r, now))
	}
	return c.JSON(out)
}

// Fulfill godoc
// @Summary      Cumplir (total o parcialmente) una reserva
// @Description  Genera el movimiento RESERVATION_FULFILL en el libro y muta la
//
//	reserva en la misma transacción.
//
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la reserva"
// @Param        body  body  dto.FulfillReservationRequest  true  "quantity, fulfillment_reference opcional"
// @Success      200   {object}  dto.ReservationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/reservations/{id}/fulfill [post]
func (h *ReservationHandler) Fulfill(c *fiber.Ctx) error {
	var in dto.FulfillReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.Fulfill(c.Context(), c.Params("id"), in.Quantity, in.FulfillmentReference)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.FromReservation(res, time.Now()))
}

// Cancel godoc
// @Summary      Cancelar una reserva
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la reserva"
// @Param        body  body  dto.CancelReservationRequest  false  "reason opcional"
// @Success      200   {object}  dto.ReservationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelReservationRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.Cancel(c.Context(), c.Params("id"), in.Reason)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.FromReservation(res, time.Now()))
}
