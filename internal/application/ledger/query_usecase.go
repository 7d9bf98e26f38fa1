package ledger

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	domledger "github.com/tu-usuario/stock-ledger/internal/domain/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// QueryUseCase lecturas del libro de stock fuera de transacción: saldo actual,
// listados paginados y verificación de cadena. Corre concurrente con los
// appends bajo semántica read-committed.
type QueryUseCase struct {
	movementRepo repository.MovementRepository
	balanceRepo  repository.StockBalanceRepository
}

// NewQueryUseCase construye el caso de uso de consulta.
func NewQueryUseCase(
	movementRepo repository.MovementRepository,
	balanceRepo repository.StockBalanceRepository,
) *QueryUseCase {
	return &QueryUseCase{movementRepo: movementRepo, balanceRepo: balanceRepo}
}

// GetCurrentBalance devuelve el saldo actual de la llave en O(1) leyendo el
// índice materializado (0 si no hay movimientos).
func (uc *QueryUseCase) GetCurrentBalance(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	if productID == "" || warehouseID == "" {
		return decimal.Decimal{}, domain.ErrInvalidInput
	}
	balance, err := uc.balanceRepo.Get(ctx, productID, warehouseID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return balance.Quantity, nil
}

// GetMovement devuelve un movimiento por ID.
func (uc *QueryUseCase) GetMovement(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := uc.movementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// ListMovements lista movimientos con filtros y paginación (cursor por seq).
func (uc *QueryUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return uc.movementRepo.List(ctx, filter)
}

// ListByReference devuelve los movimientos de una referencia (factura, orden,
// reserva...). Útil para verificar idempotencia de retries.
func (uc *QueryUseCase) ListByReference(ctx context.Context, referenceType, referenceNumber string) ([]*entity.Movement, error) {
	if referenceType == "" || referenceNumber == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movementRepo.ListByReference(ctx, referenceType, referenceNumber)
}

// VerifyKey reproduce el libro completo de una llave, verifica la cadena de
// saldos y contrasta el resultado contra el índice materializado. Usada por la
// herramienta de verificación; no muta nada.
func (uc *QueryUseCase) VerifyKey(ctx context.Context, productID, warehouseID string) error {
	movements, err := uc.movementRepo.ListByKey(ctx, productID, warehouseID)
	if err != nil {
		return err
	}
	if err := domledger.VerifyChain(movements); err != nil {
		return err
	}
	replayed := domledger.Replay(movements)
	balance, err := uc.balanceRepo.Get(ctx, productID, warehouseID)
	if err != nil {
		return err
	}
	if !replayed.Equal(balance.Quantity) {
		return &domledger.ChainError{
			Expected: replayed,
			Got:      balance.Quantity,
			Detail:   "saldo materializado no coincide con el replay del libro",
		}
	}
	return nil
}
