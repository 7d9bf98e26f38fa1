package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// ReservationFilter filtros para listar reservas.
type ReservationFilter struct {
	ProductID      string
	WarehouseID    string
	Status         string
	IncludeExpired bool
	Limit          int
	Offset         int
}

// ReservationRepository define el puerto de persistencia para reservas.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	GetByID(ctx context.Context, id string) (*entity.Reservation, error)
	// GetForUpdate bloquea la fila de la reserva (SELECT FOR UPDATE) dentro de
	// la transacción de cumplimiento.
	GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error)
	// UpdateVersioned aplica la mutación solo si version coincide con
	// expectedVersion; si no afecta filas devuelve domain.ErrConcurrencyConflict.
	UpdateVersioned(ctx context.Context, reservation *entity.Reservation, expectedVersion int64) error
	List(ctx context.Context, filter ReservationFilter) ([]*entity.Reservation, error)
	// SumActiveRemaining suma quantity_remaining de las reservas que aún
	// descuentan disponibilidad para la llave (activas/parciales, no expiradas en now).
	SumActiveRemaining(ctx context.Context, productID, warehouseID string, now time.Time) (decimal.Decimal, error)
	// ListExpiredActive devuelve reservas activas cuya expiración ya pasó,
	// para el barrido opcional que persiste la transición EXPIRED.
	ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]*entity.Reservation, error)
}
