package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// UseCase administra el ciclo de vida de reservas: asignaciones blandas contra
// el saldo disponible, con máquina de estados ACTIVE → PARTIALLY_FULFILLED →
// FULFILLED / CANCELLED / EXPIRED. El libro de stock se recibe como dependencia
// explícita (nada de estado global compartido): reserva y movimiento se unen
// solo por el número de referencia.
type UseCase struct {
	txRunner        TxRunner
	reservationRepo repository.ReservationRepository
	productRepo     repository.ProductRepository
	warehouseRepo   repository.WarehouseRepository
	appendUC        *ledger.AppendMovementUseCase
	log             *logger.Logger
}

// NewUseCase construye el caso de uso de reservas. El saldo se lee siempre con
// los repositorios atados a la transacción, nunca con una lectura suelta.
func NewUseCase(
	txRunner TxRunner,
	reservationRepo repository.ReservationRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	appendUC *ledger.AppendMovementUseCase,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:        txRunner,
		reservationRepo: reservationRepo,
		productRepo:     productRepo,
		warehouseRepo:   warehouseRepo,
		appendUC:        appendUC,
		log:             log,
	}
}

// CreateInput entrada para crear una reserva.
type CreateInput struct {
	UserID          string
	ProductID       string
	WarehouseID     string
	Quantity        decimal.Decimal
	ReferenceType   string
	ReferenceNumber string
	ExpiryDate      *time.Time
	Notes           string
}

// Create valida disponibilidad (saldo actual menos reservas vivas) y crea la
// reserva en ACTIVE. No toca el libro: una reserva nunca descuenta saldo,
// solo restringe la cantidad disponible para nuevas reservas. La admisión corre
// en transacción con la fila del saldo bloqueada, así dos creaciones
// concurrentes de la misma llave se encolan y no pueden sobre-reservar.
func (uc *UseCase) Create(ctx context.Context, input CreateInput) (*entity.Reservation, error) {
	if input.ProductID == "" || input.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	if input.ExpiryDate != nil && input.ExpiryDate.Before(now) {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}

	var created *entity.Reservation
	err = uc.txRunner.RunReservation(ctx, func(
		_ repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		_ repository.ProductRepository,
		reservationRepo repository.ReservationRepository,
	) error {
		// Mismo lock que usan los appends: serializa la admisión contra otros
		// Create y contra las salidas del libro de la misma llave.
		balance, err := balanceRepo.GetForUpdate(ctx, input.ProductID, input.WarehouseID)
		if err != nil {
			return err
		}
		reserved, err := reservationRepo.SumActiveRemaining(ctx, input.ProductID, input.WarehouseID, now)
		if err != nil {
			return err
		}
		available := balance.Quantity.Sub(reserved)
		if input.Quantity.GreaterThan(available) {
			return &domain.InsufficientStockError{
				ProductID:   input.ProductID,
				WarehouseID: input.WarehouseID,
				Requested:   input.Quantity,
				Available:   available,
			}
		}

		r := &entity.Reservation{
			ID:                uuid.New().String(),
			ReservationNumber: newReservationNumber(now),
			ProductID:         input.ProductID,
			WarehouseID:       input.WarehouseID,
			QuantityReserved:  input.Quantity,
			QuantityFulfilled: decimal.Zero,
			Status:            entity.ReservationActive,
			ReferenceType:     input.ReferenceType,
			ReferenceNumber:   input.ReferenceNumber,
			ExpiryDate:        input.ExpiryDate,
			Notes:             input.Notes,
			Version:           1,
			CreatedAt:         now,
			UpdatedAt:         now,
			CreatedBy:         input.UserID,
		}
		if err := reservationRepo.Create(ctx, r); err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Fulfill cumple una reserva (parcial o total). Orden dentro de la transacción:
// (1) re-verificar quantity_remaining con la fila bloqueada, (2) append del
// movimiento RESERVATION_FULFILL, (3) solo con el libro OK, confirmar la
// mutación de la reserva con chequeo de versión (bloqueo optimista).
func (uc *UseCase) Fulfill(ctx context.Context, id string, quantity decimal.Decimal, fulfillmentReference string) (*entity.Reservation, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Reservation
	err := uc.txRunner.RunReservation(ctx, func(
		movRepo repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		productRepo repository.ProductRepository,
		reservationRepo repository.ReservationRepository,
	) error {
		now := time.Now()
		r, err := reservationRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if status := r.EffectiveStatus(now); entity.IsTerminalStatus(status) {
			return &domain.ConflictError{Reason: "transición de reserva inválida", CurrentStatus: status}
		}
		if quantity.GreaterThan(r.QuantityRemaining()) {
			return domain.ErrInvalidInput
		}

		product, err := productRepo.GetByID(ctx, r.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		refNumber := fulfillmentReference
		if refNumber == "" {
			refNumber = r.ReservationNumber
		}
		_, err = uc.appendUC.AppendInTx(ctx, movRepo, balanceRepo, productRepo, product, ledger.MovementInput{
			UserID:          r.CreatedBy,
			ProductID:       r.ProductID,
			WarehouseID:     r.WarehouseID,
			Type:            entity.MovementTypeRESERVATIONFULFILL,
			Quantity:        quantity,
			ReferenceType:   entity.ReferenceTypeReservation,
			ReferenceNumber: refNumber,
			Notes:           r.Notes,
		}, now)
		if err != nil {
			// Saldo por debajo de lo reservado: violación del supuesto de que
			// las reservas acotan las salidas. Se alarma y se aborta, sin retry.
			if errors.Is(err, domain.ErrInsufficientStock) {
				uc.log.Error().
					Str("reservation_id", r.ID).
					Str("product_id", r.ProductID).
					Str("warehouse_id", r.WarehouseID).
					Str("quantity", quantity.String()).
					Msg("saldo insuficiente al cumplir reserva: el libro quedó por debajo de lo reservado")
			}
			return err
		}

		expectedVersion := r.Version
		r.QuantityFulfilled = r.QuantityFulfilled.Add(quantity)
		r.Status = r.StatusAfterFulfill()
		r.UpdatedAt = now
		r.Version++
		if err := reservationRepo.UpdateVersioned(ctx, r, expectedVersion); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel cancela una reserva no terminal y libera lo restante al pool de
// disponibilidad. Sin asiento en el libro: la reserva nunca retuvo saldo.
func (uc *UseCase) Cancel(ctx context.Context, id, reason string) (*entity.Reservation, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Reservation
	err := uc.txRunner.RunReservation(ctx, func(
		_ repository.MovementRepository,
		_ repository.StockBalanceRepository,
		_ repository.ProductRepository,
		reservationRepo repository.ReservationRepository,
	) error {
		now := time.Now()
		r, err := reservationRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if status := r.EffectiveStatus(now); entity.IsTerminalStatus(status) {
			return &domain.ConflictError{Reason: "transición de reserva inválida", CurrentStatus: status}
		}

		expectedVersion := r.Version
		r.Status = entity.ReservationCancelled
		r.CancelReason = reason
		r.UpdatedAt = now
		r.Version++
		if err := reservationRepo.UpdateVersioned(ctx, r, expectedVersion); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetByID devuelve una reserva por ID (estado efectivo aplicado en el DTO).
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Reservation, error) {
	r, err := uc.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// List lista reservas con filtros y paginación.
func (uc *UseCase) List(ctx context.Context, filter repository.ReservationFilter) ([]*entity.Reservation, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return uc.reservationRepo.List(ctx, filter)
}

// SweepExpired persiste la transición EXPIRED de reservas activas ya vencidas.
// Conveniencia para el job periódico: la corrección del motor no depende de él
// porque la expiración se deriva en lectura. Devuelve cuántas transicionó.
func (uc *UseCase) SweepExpired(ctx context.Context, limit int) (int, error) {
	now := time.Now()
	expired, err := uc.reservationRepo.ListExpiredActive(ctx, now, limit)
	if err != nil {
		return 0, err
	}
	swept := 0
	for _, r := range expired {
		expectedVersion := r.Version
		r.Status = entity.ReservationExpired
		r.UpdatedAt = now
		r.Version++
		if err := uc.reservationRepo.UpdateVersioned(ctx, r, expectedVersion); err != nil {
			if errors.Is(err, domain.ErrConcurrencyConflict) {
				// Otro proceso la mutó entre lectura y update; se retoma en el próximo barrido.
				uc.log.Warn().Str("reservation_id", r.ID).Msg("barrido de expiración: versión desactualizada, se omite")
				continue
			}
			return swept, err
		}
		swept++
	}
	return swept, nil
}

// newReservationNumber genera un número legible tipo RES-20250131-a1b2c3.
func newReservationNumber(now time.Time) string {
	return fmt.Sprintf("RES-%s-%s", now.Format("20060102"), uuid.New().String()[:6])
}
