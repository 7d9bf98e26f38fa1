package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	domledger "github.com/tu-usuario/stock-ledger/internal/domain/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// AppendMovementUseCase registra movimientos del libro de stock de forma
// transaccional. La serialización por llave (producto, bodega) se logra
// bloqueando la fila del saldo materializado (SELECT FOR UPDATE): appends a
// llaves distintas corren en paralelo, a la misma llave se encolan.
type AppendMovementUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewAppendMovementUseCase construye el caso de uso.
func NewAppendMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *AppendMovementUseCase {
	return &AppendMovementUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// MovementInput entrada para registrar un movimiento.
// Quantity es magnitud positiva para IN/OUT/TRANSFER_*/RESERVATION_FULFILL;
// para ADJUSTMENT viene con signo. AllowNegative solo aplica a ADJUSTMENT.
type MovementInput struct {
	UserID          string
	ProductID       string
	WarehouseID     string
	Type            string
	Quantity        decimal.Decimal
	UnitCost        *decimal.Decimal
	ReferenceType   string
	ReferenceNumber string
	BatchNumber     string
	Notes           string
	AllowNegative   bool
	Date            *time.Time
}

// TransferInput entrada para un traslado entre bodegas (par TRANSFER_OUT/TRANSFER_IN).
type TransferInput struct {
	UserID          string
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        decimal.Decimal
	BatchNumber     string
	Notes           string
}

// signedDelta valida la cantidad según el tipo y devuelve el delta con signo.
func signedDelta(movType string, quantity decimal.Decimal) (decimal.Decimal, error) {
	switch {
	case entity.IsInbound(movType):
		if !quantity.GreaterThan(decimal.Zero) {
			return decimal.Decimal{}, domain.ErrInvalidInput
		}
		return quantity, nil
	case entity.IsOutbound(movType):
		if !quantity.GreaterThan(decimal.Zero) {
			return decimal.Decimal{}, domain.ErrInvalidInput
		}
		return quantity.Neg(), nil
	case movType == entity.MovementTypeADJUSTMENT:
		if quantity.IsZero() {
			return decimal.Decimal{}, domain.ErrInvalidInput
		}
		return quantity, nil
	}
	return decimal.Decimal{}, domain.ErrInvalidInput
}

// Append valida producto y bodega, inicia la transacción y encadena el
// movimiento al libro. Devuelve el movimiento creado con sus saldos.
func (uc *AppendMovementUseCase) Append(ctx context.Context, input MovementInput) (*entity.Movement, error) {
	if input.ProductID == "" || input.WarehouseID == "" || !entity.ValidType(input.Type) {
		return nil, domain.ErrInvalidInput
	}
	if input.Type == entity.MovementTypeIN && (input.UnitCost == nil || input.UnitCost.LessThan(decimal.Zero)) {
		return nil, domain.ErrInvalidInput
	}
	if _, err := signedDelta(input.Type, input.Quantity); err != nil {
		return nil, err
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

	var created *entity.Movement
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		productRepo repository.ProductRepository,
	) error {
		m, err := uc.AppendInTx(ctx, movRepo, balanceRepo, productRepo, product, input, time.Now())
		if err != nil {
			return err
		}
		created = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AppendInTx encadena un movimiento usando los repositorios proporcionados
// (misma transacción del caller). Lo usa Append y también el cumplimiento de
// reservas, que acopla su mutación de estado al append en una sola transacción.
//
// Orden: bloquear la fila del saldo, calcular balance_before/after, rechazar
// saldos negativos, persistir movimiento y saldo. El movimiento solo se vuelve
// visible con ambos campos calculados y el saldo actualizado.
func (uc *AppendMovementUseCase) AppendInTx(
	ctx context.Context,
	movRepo repository.MovementRepository,
	balanceRepo repository.StockBalanceRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	input MovementInput,
	now time.Time,
) (*entity.Movement, error) {
	delta, err := signedDelta(input.Type, input.Quantity)
	if err != nil {
		return nil, err
	}

	// Bloquea la fila del saldo (SELECT FOR UPDATE): un solo escritor por llave.
	balance, err := balanceRepo.GetForUpdate(ctx, input.ProductID, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	before := balance.Quantity
	after := before.Add(delta)

	if after.LessThan(decimal.Zero) {
		allowed := input.Type == entity.MovementTypeADJUSTMENT && input.AllowNegative
		if !allowed {
			return nil, &domain.InsufficientStockError{
				ProductID:   input.ProductID,
				WarehouseID: input.WarehouseID,
				Requested:   delta.Neg(),
				Available:   before,
			}
		}
	}

	// Costo: entradas al costo informado (actualiza promedio ponderado);
	// salidas al costo promedio vigente del producto.
	unitCost := product.Cost
	if delta.GreaterThan(decimal.Zero) {
		if input.UnitCost != nil {
			unitCost = *input.UnitCost
		} else {
			unitCost = decimal.Zero
		}
		newCost := domledger.WeightedAverageCost(before, product.Cost, delta, unitCost)
		if err := productRepo.UpdateCost(ctx, input.ProductID, newCost); err != nil {
			return nil, err
		}
		product.Cost = newCost
	}

	date := now
	if input.Date != nil {
		date = *input.Date
	}
	mov := &entity.Movement{
		ID:              uuid.New().String(),
		ProductID:       input.ProductID,
		WarehouseID:     input.WarehouseID,
		Type:            input.Type,
		QuantityDelta:   delta,
		BalanceBefore:   before,
		BalanceAfter:    after,
		ReferenceType:   input.ReferenceType,
		ReferenceNumber: input.ReferenceNumber,
		BatchNumber:     input.BatchNumber,
		UnitCost:        unitCost,
		TotalCost:       delta.Mul(unitCost),
		Notes:           input.Notes,
		Date:            date,
		CreatedAt:       now,
		CreatedBy:       input.UserID,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}

	balance.Quantity = after
	balance.UpdatedAt = now
	if err := balanceRepo.Upsert(ctx, balance); err != nil {
		return nil, err
	}
	return mov, nil
}

// Transfer registra un traslado entre bodegas: TRANSFER_OUT en origen y
// TRANSFER_IN en destino, misma transacción y mismo número de referencia.
// Cada bodega mantiene su propia cadena de saldos.
func (uc *AppendMovementUseCase) Transfer(ctx context.Context, input TransferInput) ([]*entity.Movement, error) {
	if input.ProductID == "" || input.FromWarehouseID == "" || input.ToWarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.FromWarehouseID == input.ToWarehouseID || !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	fromWh, err := uc.warehouseRepo.GetByID(ctx, input.FromWarehouseID)
	if err != nil {
		return nil, err
	}
	toWh, err := uc.warehouseRepo.GetByID(ctx, input.ToWarehouseID)
	if err != nil {
		return nil, err
	}
	if fromWh == nil || toWh == nil {
		return nil, domain.ErrNotFound
	}

	refNumber := "TRF-" + uuid.New().String()[:8]
	unitCost := product.Cost

	var pair []*entity.Movement
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		productRepo repository.ProductRepository,
	) error {
		now := time.Now()
		outMov, err := uc.AppendInTx(ctx, movRepo, balanceRepo, productRepo, product, MovementInput{
			UserID:          input.UserID,
			ProductID:       input.ProductID,
			WarehouseID:     input.FromWarehouseID,
			Type:            entity.MovementTypeTRANSFEROUT,
			Quantity:        input.Quantity,
			ReferenceType:   entity.ReferenceTypeTransfer,
			ReferenceNumber: refNumber,
			BatchNumber:     input.BatchNumber,
			Notes:           input.Notes,
		}, now)
		if err != nil {
			return err
		}
		inMov, err := uc.AppendInTx(ctx, movRepo, balanceRepo, productRepo, product, MovementInput{
			UserID:          input.UserID,
			ProductID:       input.ProductID,
			WarehouseID:     input.ToWarehouseID,
			Type:            entity.MovementTypeTRANSFERIN,
			Quantity:        input.Quantity,
			UnitCost:        &unitCost,
			ReferenceType:   entity.ReferenceTypeTransfer,
			ReferenceNumber: refNumber,
			BatchNumber:     input.BatchNumber,
			Notes:           input.Notes,
		}, now)
		if err != nil {
			return err
		}
		pair = []*entity.Movement{outMov, inMov}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}
