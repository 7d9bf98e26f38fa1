// Package audit expone la vista de auditoría del libro: proyección paginada de
// movimientos con nombres resueltos y saldos textuales para verificación
// independiente de la cadena.
package audit

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// UseCase consulta del audit trail. Lector puro del libro.
type UseCase struct {
	movementRepo repository.MovementRepository
}

// NewUseCase construye el caso de uso de auditoría.
func NewUseCase(movementRepo repository.MovementRepository) *UseCase {
	return &UseCase{movementRepo: movementRepo}
}

// GetTrail devuelve las entradas de auditoría según filtros de bodega y rango
// de fechas. BalanceBefore/BalanceAfter llegan tal cual del movimiento.
func (uc *UseCase) GetTrail(ctx context.Context, filter repository.MovementFilter) ([]*entity.AuditEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return uc.movementRepo.ListAuditTrail(ctx, filter)
}
