package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/audit"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/application/reconciliation"
	"github.com/tu-usuario/stock-ledger/internal/application/reservation"
	"github.com/tu-usuario/stock-ledger/internal/application/transit"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppendUC         *ledger.AppendMovementUseCase
	QueryUC          *ledger.QueryUseCase
	TransitSync      *transit.Synchronizer
	ReservationUC    *reservation.UseCase
	ReconciliationUC *reconciliation.UseCase
	AuditUC          *audit.UseCase
	JWTSecret        string
}

// Router registra las rutas de la API. Todo el grupo /api/stock requiere Bearer
// Token; las escrituras del libro y de reservas exigen además rol de operación
// (admin o bodeguero) y el audit trail rol de auditoría (admin o auditor).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	stock := api.Group("/stock", AuthMiddleware(deps.JWTSecret))
	writers := RequireRole("admin", "bodeguero")

	movementHandler := NewMovementHandler(deps.AppendUC, deps.QueryUC, deps.TransitSync)
	stock.Post("/movements", writers, movementHandler.Create)
	stock.Get("/movements", movementHandler.List)
	stock.Get("/movements/:id", movementHandler.GetByID)
	stock.Post("/transfers", writers, movementHandler.Transfer)
	stock.Get("/balance", movementHandler.Balance)

	reservationHandler := NewReservationHandler(deps.ReservationUC)
	stock.Post("/reservations", writers, reservationHandler.Create)
	stock.Get("/reservations", reservationHandler.List)
	stock.Get("/reservations/:id", reservationHandler.GetByID)
	stock.Post("/reservations/:id/fulfill", writers, reservationHandler.Fulfill)
	stock.Post("/reservations/:id/cancel", writers, reservationHandler.Cancel)

	reconciliationHandler := NewReconciliationHandler(deps.ReconciliationUC)
	stock.Get("/reconciliation/:warehouseId", reconciliationHandler.Report)

	auditHandler := NewAuditHandler(deps.AuditUC)
	stock.Get("/audit-trail", RequireRole("admin", "auditor"), auditHandler.Trail)
}
