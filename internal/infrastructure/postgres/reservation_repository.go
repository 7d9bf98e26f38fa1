package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

const reservationColumns = `id, reservation_number, product_id, warehouse_id,
	quantity_reserved, quantity_fulfilled, status, reference_type, reference_number,
	expiry_date, cancel_reason, notes, version, created_at, updated_at, created_by`

// ReservationRepo implementación de reservas sobre PostgreSQL (usable con pool o tx).
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador de reservas. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

// Create persiste una reserva nueva (version 1).
func (r *ReservationRepo) Create(ctx context.Context, res *entity.Reservation) error {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_reservations (id, reservation_number, product_id, warehouse_id,
			quantity_reserved, quantity_fulfilled, status, reference_type, reference_number,
			expiry_date, cancel_reason, notes, version, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	createdBy := (*string)(nil)
	if res.CreatedBy != "" {
		createdBy = &res.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		res.ID, res.ReservationNumber, res.ProductID, res.WarehouseID,
		res.QuantityReserved, res.QuantityFulfilled, res.Status, res.ReferenceType, res.ReferenceNumber,
		res.ExpiryDate, res.CancelReason, res.Notes, res.Version, res.CreatedAt, res.UpdatedAt, createdBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("reservation number %s: %w", res.ReservationNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// GetByID obtiene una reserva por ID.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM stock_reservations WHERE id = $1`
	res, err := scanReservation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// GetForUpdate obtiene la reserva y bloquea la fila (SELECT FOR UPDATE).
func (r *ReservationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM stock_reservations WHERE id = $1 FOR UPDATE`
	res, err := scanReservation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation for update: %w", err)
	}
	return res, nil
}

// UpdateVersioned aplica la mutación solo si la versión en base coincide con
// expectedVersion. Cero filas afectadas significa que otro escritor ganó:
// domain.ErrConcurrencyConflict, el llamador decide si reintenta.
func (r *ReservationRepo) UpdateVersioned(ctx context.Context, res *entity.Reservation, expectedVersion int64) error {
	query := `
		UPDATE stock_reservations
		SET quantity_fulfilled = $1, status = $2, cancel_reason = $3, notes = $4,
			version = $5, updated_at = now()
		WHERE id = $6 AND version = $7`
	tag, err := r.q.Exec(ctx, query,
		res.QuantityFulfilled, res.Status, res.CancelReason, res.Notes,
		res.Version, res.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reservation %s version %d: %w", res.ID, expectedVersion, domain.ErrConcurrencyConflict)
	}
	return nil
}

// List devuelve reservas según el filtro. Por defecto excluye las que solo un
// barrido marcaría EXPIRED cuando se pide Status=ACTIVE sin IncludeExpired.
func (r *ReservationRepo) List(ctx context.Context, filter repository.ReservationFilter) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM stock_reservations WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.WarehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, filter.WarehouseID)
		pos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
		if !filter.IncludeExpired && !entity.IsTerminalStatus(filter.Status) {
			query += " AND (expiry_date IS NULL OR expiry_date > now())"
		}
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

// SumActiveRemaining suma quantity_reserved - quantity_fulfilled de las
// reservas que descuentan disponibilidad en now para la llave.
func (r *ReservationRepo) SumActiveRemaining(ctx context.Context, productID, warehouseID string, now time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity_reserved - quantity_fulfilled), 0)
		FROM stock_reservations
		WHERE product_id = $1 AND warehouse_id = $2
			AND status IN ($3, $4)
			AND (expiry_date IS NULL OR expiry_date > $5)`
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, query, productID, warehouseID,
		entity.ReservationActive, entity.ReservationPartiallyFulfilled, now,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum active remaining: %w", err)
	}
	return sum, nil
}

// ListExpiredActive devuelve reservas no terminales cuya expiración ya pasó,
// para el barrido que persiste la transición a EXPIRED.
func (r *ReservationRepo) ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM stock_reservations
		WHERE status IN ($1, $2) AND expiry_date IS NOT NULL AND expiry_date < $3
		ORDER BY expiry_date ASC
		LIMIT $4`
	rows, err := r.q.Query(ctx, query,
		entity.ReservationActive, entity.ReservationPartiallyFulfilled, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired reservations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	var createdBy *string
	err := row.Scan(
		&res.ID, &res.ReservationNumber, &res.ProductID, &res.WarehouseID,
		&res.QuantityReserved, &res.QuantityFulfilled, &res.Status, &res.ReferenceType, &res.ReferenceNumber,
		&res.ExpiryDate, &res.CancelReason, &res.Notes, &res.Version, &res.CreatedAt, &res.UpdatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		res.CreatedBy = *createdBy
	}
	return &res, nil
}
