package reservation_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/application/reservation"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// ─── Fakes en memoria ────────────────────────────────────────────────────────

type fakeStore struct {
	seq          int64
	movements    []*entity.Movement
	balances     map[string]*entity.StockBalance
	products     map[string]*entity.Product
	warehouses   map[string]*entity.Warehouse
	reservations map[string]*entity.Reservation
	lockedReads  int // lecturas de saldo vía GetForUpdate
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		balances:     map[string]*entity.StockBalance{},
		products:     map[string]*entity.Product{},
		warehouses:   map[string]*entity.Warehouse{},
		reservations: map[string]*entity.Reservation{},
	}
}

func key(productID, warehouseID string) string { return productID + "|" + warehouseID }

type fakeMovementRepo struct{ s *fakeStore }

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.s.seq++
	m.Seq = r.s.seq
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *fakeMovementRepo) GetByID(context.Context, string) (*entity.Movement, error) {
	return nil, nil
}
func (r *fakeMovementRepo) List(context.Context, repository.MovementFilter) ([]*entity.Movement, error) {
	return r.s.movements, nil
}
func (r *fakeMovementRepo) ListByKey(context.Context, string, string) ([]*entity.Movement, error) {
	return r.s.movements, nil
}
func (r *fakeMovementRepo) ListByReference(_ context.Context, refType, refNumber string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if m.ReferenceType == refType && m.ReferenceNumber == refNumber {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *fakeMovementRepo) ListAuditTrail(context.Context, repository.MovementFilter) ([]*entity.AuditEntry, error) {
	return nil, nil
}
func (r *fakeMovementRepo) ListActiveProductIDs(context.Context, string) ([]string, error) {
	return nil, nil
}

type fakeBalanceRepo struct{ s *fakeStore }

func (r *fakeBalanceRepo) Get(_ context.Context, productID, warehouseID string) (*entity.StockBalance, error) {
	if b, ok := r.s.balances[key(productID, warehouseID)]; ok {
		cp := *b
		return &cp, nil
	}
	return &entity.StockBalance{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}, nil
}
func (r *fakeBalanceRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockBalance, error) {
	r.s.lockedReads++
	return r.Get(ctx, productID, warehouseID)
}
func (r *fakeBalanceRepo) Upsert(_ context.Context, b *entity.StockBalance) error {
	cp := *b
	r.s.balances[key(b.ProductID, b.WarehouseID)] = &cp
	return nil
}
func (r *fakeBalanceRepo) ListByWarehouse(context.Context, string) ([]*entity.StockBalance, error) {
	return nil, nil
}

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := r.s.products[id]; ok {
		return p, nil
	}
	return nil, nil
}
func (r *fakeProductRepo) UpdateCost(_ context.Context, productID string, cost decimal.Decimal) error {
	if p, ok := r.s.products[productID]; ok {
		p.Cost = cost
	}
	return nil
}

type fakeWarehouseRepo struct{ s *fakeStore }

func (r *fakeWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	if w, ok := r.s.warehouses[id]; ok {
		return w, nil
	}
	return nil, nil
}

type fakeReservationRepo struct{ s *fakeStore }

func (r *fakeReservationRepo) Create(_ context.Context, res *entity.Reservation) error {
	cp := *res
	r.s.reservations[res.ID] = &cp
	return nil
}
func (r *fakeReservationRepo) GetByID(_ context.Context, id string) (*entity.Reservation, error) {
	if res, ok := r.s.reservations[id]; ok {
		cp := *res
		return &cp, nil
	}
	return nil, nil
}
func (r *fakeReservationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error) {
	return r.GetByID(ctx, id)
}
func (r *fakeReservationRepo) UpdateVersioned(_ context.Context, res *entity.Reservation, expectedVersion int64) error {
	stored, ok := r.s.reservations[res.ID]
	if !ok || stored.Version != expectedVersion {
		return domain.ErrConcurrencyConflict
	}
	cp := *res
	r.s.reservations[res.ID] = &cp
	return nil
}
func (r *fakeReservationRepo) List(context.Context, repository.ReservationFilter) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	for _, res := range r.s.reservations {
		out = append(out, res)
	}
	return out, nil
}
func (r *fakeReservationRepo) SumActiveRemaining(_ context.Context, productID, warehouseID string, now time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, res := range r.s.reservations {
		if res.ProductID == productID && res.WarehouseID == warehouseID && res.HoldsStock(now) {
			sum = sum.Add(res.QuantityRemaining())
		}
	}
	return sum, nil
}
func (r *fakeReservationRepo) ListExpiredActive(_ context.Context, now time.Time, limit int) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	for _, res := range r.s.reservations {
		if res.IsTerminal() || res.ExpiryDate == nil || !now.After(*res.ExpiryDate) {
			continue
		}
		cp := *res
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeTxRunner struct{ s *fakeStore }

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	repository.MovementRepository,
	repository.StockBalanceRepository,
	repository.ProductRepository,
) error) error {
	return fn(&fakeMovementRepo{r.s}, &fakeBalanceRepo{r.s}, &fakeProductRepo{r.s})
}

func (r *fakeTxRunner) RunReservation(_ context.Context, fn func(
	repository.MovementRepository,
	repository.StockBalanceRepository,
	repository.ProductRepository,
	repository.ReservationRepository,
) error) error {
	return fn(&fakeMovementRepo{r.s}, &fakeBalanceRepo{r.s}, &fakeProductRepo{r.s}, &fakeReservationRepo{r.s})
}

// ─── Setup ───────────────────────────────────────────────────────────────────

const (
	productA = "prod-a"
	bodega1  = "wh-1"
)

func newTestUseCase(t *testing.T, initialStock int64) (*reservation.UseCase, *fakeStore) {
	t.Helper()
	s := newFakeStore()
	s.products[productA] = &entity.Product{ID: productA, SKU: "SKU-A", Name: "Harina", Cost: decimal.NewFromInt(10)}
	s.warehouses[bodega1] = &entity.Warehouse{ID: bodega1, Code: "B1", Name: "Bodega Central"}
	if initialStock > 0 {
		s.balances[key(productA, bodega1)] = &entity.StockBalance{
			ProductID: productA, WarehouseID: bodega1, Quantity: decimal.NewFromInt(initialStock),
		}
	}
	runner := &fakeTxRunner{s}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	appendUC := ledger.NewAppendMovementUseCase(runner, &fakeProductRepo{s}, &fakeWarehouseRepo{s})
	uc := reservation.NewUseCase(
		runner, &fakeReservationRepo{s},
		&fakeProductRepo{s}, &fakeWarehouseRepo{s}, appendUC, log,
	)
	return uc, s
}

func createReservation(t *testing.T, uc *reservation.UseCase, qty int64) *entity.Reservation {
	t.Helper()
	r, err := uc.Create(context.Background(), reservation.CreateInput{
		UserID: "user-1", ProductID: productA, WarehouseID: bodega1,
		Quantity: decimal.NewFromInt(qty),
	})
	require.NoError(t, err)
	return r
}

// ─── Tests ───────────────────────────────────────────────────────────────────

func TestCreate_ReservaActivaNoTocaElLibro(t *testing.T) {
	uc, s := newTestUseCase(t, 100)

	r := createReservation(t, uc, 40)

	assert.Equal(t, entity.ReservationActive, r.Status)
	assert.Equal(t, int64(1), r.Version)
	assert.True(t, r.QuantityFulfilled.IsZero())
	assert.Contains(t, r.ReservationNumber, "RES-")
	assert.Empty(t, s.movements, "crear una reserva no genera asientos")
	assert.True(t, s.balances[key(productA, bodega1)].Quantity.Equal(decimal.NewFromInt(100)),
		"el saldo del libro no cambia al reservar")
}

func TestCreate_AdmisionBloqueaLaFilaDelSaldo(t *testing.T) {
	uc, s := newTestUseCase(t, 100)

	createReservation(t, uc, 40)

	// La verificación de disponibilidad debe correr con la fila del saldo
	// bloqueada (SELECT FOR UPDATE dentro de la transacción): dos creaciones
	// concurrentes de la misma llave se encolan en lugar de leer ambas el
	// mismo disponible y sobre-reservar.
	assert.Equal(t, 1, s.lockedReads,
		"la admisión lee el saldo vía GetForUpdate, no con una lectura suelta")
	assert.Len(t, s.reservations, 1)
}

func TestCreate_DisponibilidadDescuentaReservasVivas(t *testing.T) {
	uc, _ := newTestUseCase(t, 100)

	createReservation(t, uc, 80)

	// Quedan 20 disponibles: pedir 30 se rechaza con el detalle.
	_, err := uc.Create(context.Background(), reservation.CreateInput{
		ProductID: productA, WarehouseID: bodega1, Quantity: decimal.NewFromInt(30),
	})
	require.Error(t, err)
	var insuff *domain.InsufficientStockError
	require.ErrorAs(t, err, &insuff)
	assert.True(t, insuff.Requested.Equal(decimal.NewFromInt(30)))
	assert.True(t, insuff.Available.Equal(decimal.NewFromInt(20)))

	// Pedir exactamente lo disponible sí procede.
	_, err = uc.Create(context.Background(), reservation.CreateInput{
		ProductID: productA, WarehouseID: bodega1, Quantity: decimal.NewFromInt(20),
	})
	require.NoError(t, err)
}

func TestCreate_ReservaExpiradaLiberaDisponibilidad(t *testing.T) {
	uc, s := newTestUseCase(t, 100)

	past := time.Now().Add(-time.Hour)
	r := createReservation(t, uc, 80)
	s.reservations[r.ID].ExpiryDate = &past

	// La reserva vencida ya no descuenta: los 100 vuelven a estar disponibles.
	_, err := uc.Create(context.Background(), reservation.CreateInput{
		ProductID: productA, WarehouseID: bodega1, Quantity: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _ := newTestUseCase(t, 100)

	_, err := uc.Create(context.Background(), reservation.CreateInput{
		ProductID: productA, WarehouseID: bodega1, Quantity: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	past := time.Now().Add(-time.Minute)
	_, err = uc.Create(context.Background(), reservation.CreateInput{
		ProductID: productA, WarehouseID: bodega1,
		Quantity: decimal.NewFromInt(1), ExpiryDate: &past,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la expiración debe ser futura")

	_, err = uc.Create(context.Background(), reservation.CreateInput{
		ProductID: "prod-x", WarehouseID: bodega1, Quantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFulfill_ParcialLuegoTotal(t *testing.T) {
	uc, s := newTestUseCase(t, 150)
	r := createReservation(t, uc, 100)

	// Cumplimiento parcial: 60 de 100.
	updated, err := uc.Fulfill(context.Background(), r.ID, decimal.NewFromInt(60), "FUL-001")
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationPartiallyFulfilled, updated.Status)
	assert.True(t, updated.QuantityFulfilled.Equal(decimal.NewFromInt(60)))
	assert.True(t, updated.QuantityRemaining().Equal(decimal.NewFromInt(40)))
	assert.Equal(t, int64(2), updated.Version, "cada mutación incrementa la versión")

	// El asiento quedó en el libro con la referencia del cumplimiento.
	require.Len(t, s.movements, 1)
	m := s.movements[0]
	assert.Equal(t, entity.MovementTypeRESERVATIONFULFILL, m.Type)
	assert.Equal(t, entity.ReferenceTypeReservation, m.ReferenceType)
	assert.Equal(t, "FUL-001", m.ReferenceNumber)
	assert.True(t, m.QuantityDelta.Equal(decimal.NewFromInt(-60)))
	assert.True(t, s.balances[key(productA, bodega1)].Quantity.Equal(decimal.NewFromInt(90)))

	// Cumplir el resto cierra la reserva.
	updated, err = uc.Fulfill(context.Background(), r.ID, decimal.NewFromInt(40), "")
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationFulfilled, updated.Status)
	assert.True(t, updated.QuantityRemaining().IsZero())
	require.Len(t, s.movements, 2)
	assert.Equal(t, updated.ReservationNumber, s.movements[1].ReferenceNumber,
		"sin referencia explícita se usa el número de la reserva")
	assert.True(t, s.balances[key(productA, bodega1)].Quantity.Equal(decimal.NewFromInt(50)))
}

func TestFulfill_SobreCumplimientoSeRechaza(t *testing.T) {
	uc, s := newTestUseCase(t, 150)
	r := createReservation(t, uc, 100)

	_, err := uc.Fulfill(context.Background(), r.ID, decimal.NewFromInt(150), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, s.movements, "un cumplimiento rechazado no toca el libro")
}

func TestFulfill_ReservaTerminalEsConflicto(t *testing.T) {
	uc, _ := newTestUseCase(t, 150)
	r := createReservation(t, uc, 50)

	_, err := uc.Fulfill(context.Background(), r.ID, decimal.NewFromInt(50), "")
	require.NoError(t, err)

	_, err = uc.Fulfill(context.Background(), r.ID, decimal.NewFromInt(1), "")
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrConflict)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, entity.ReservationFulfilled, conflict.CurrentStatus)
}

func TestFulfill_ReservaVencidaEsConflicto(t *testing.T) {
	uc, s := newTestUseCase(t, 150)
	r := createReservation(t, uc, 50)

	past := time.Now().Add(-time.Hour)
	s.reservations[r.ID].ExpiryDate = &past

	// La fila sigue ACTIVE pero el estado efectivo es EXPIRED: conflicto.
	_, err := uc.Fulfill(context.Background(), r.ID, decimal.NewFromInt(10), "")
	require.ErrorIs(t, err, domain.ErrConflict)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, entity.ReservationExpired, conflict.CurrentStatus)
}

func TestFulfill_ReservaInexistente(t *testing.T) {
	uc, _ := newTestUseCase(t, 150)
	_, err := uc.Fulfill(context.Background(), "no-existe", decimal.NewFromInt(1), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancel_LiberaLoRestanteSinAsiento(t *testing.T) {
	uc, s := newTestUseCase(t, 100)
	r := createReservation(t, uc, 80)

	updated, err := uc.Cancel(context.Background(), r.ID, "cliente desistió")
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationCancelled, updated.Status)
	assert.Equal(t, "cliente desistió", updated.CancelReason)
	assert.Empty(t, s.movements, "cancelar no genera asientos en el libro")

	// Lo restante vuelve al pool: se puede reservar todo de nuevo.
	_, err = uc.Create(context.Background(), reservation.CreateInput{
		ProductID: productA, WarehouseID: bodega1, Quantity: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	// Cancelar dos veces es conflicto.
	_, err = uc.Cancel(context.Background(), r.ID, "de nuevo")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSweepExpired_PersisteTransicion(t *testing.T) {
	uc, s := newTestUseCase(t, 100)

	past := time.Now().Add(-time.Hour)
	r1 := createReservation(t, uc, 10)
	r2 := createReservation(t, uc, 20)
	s.reservations[r1.ID].ExpiryDate = &past
	s.reservations[r2.ID].ExpiryDate = &past
	r3 := createReservation(t, uc, 5) // vigente, no debe tocarse

	n, err := uc.SweepExpired(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, entity.ReservationExpired, s.reservations[r1.ID].Status)
	assert.Equal(t, entity.ReservationExpired, s.reservations[r2.ID].Status)
	assert.Equal(t, entity.ReservationActive, s.reservations[r3.ID].Status)

	// Segunda corrida: nada pendiente.
	n, err = uc.SweepExpired(context.Background(), 100)
	require.NoError(t, err)
	assert.Zero(t, n)
}
