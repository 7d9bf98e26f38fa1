package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `seq, id, product_id, warehouse_id, type, quantity_delta,
	balance_before, balance_after, reference_type, reference_number, batch_number,
	unit_cost, total_cost, notes, date, created_at, created_by`

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). La tabla es append-only: seq es un BIGSERIAL que
// da la secuencia monótona del libro.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste el movimiento y asigna Seq con el RETURNING del insert.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, product_id, warehouse_id, type, quantity_delta,
			balance_before, balance_after, reference_type, reference_number, batch_number,
			unit_cost, total_cost, notes, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING seq`
	createdBy := (*string)(nil)
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	err := r.q.QueryRow(ctx, query,
		m.ID, m.ProductID, m.WarehouseID, m.Type, m.QuantityDelta,
		m.BalanceBefore, m.BalanceAfter, m.ReferenceType, m.ReferenceNumber, m.BatchNumber,
		m.UnitCost, m.TotalCost, m.Notes, m.Date, m.CreatedAt, createdBy,
	).Scan(&m.Seq)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List devuelve movimientos según el filtro. Orden por seq; con AfterSeq > 0
// pagina por cursor keyset en la dirección del listado (seq > cursor
// ascendente, seq < cursor descendente), sin duplicar ni saltar entre páginas.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
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
	if len(filter.Types) > 0 {
		query += fmt.Sprintf(" AND type = ANY($%d)", pos)
		args = append(args, filter.Types)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	if filter.ReferenceType != "" {
		query += fmt.Sprintf(" AND reference_type = $%d", pos)
		args = append(args, filter.ReferenceType)
		pos++
	}
	if filter.ReferenceNumber != "" {
		query += fmt.Sprintf(" AND reference_number = $%d", pos)
		args = append(args, filter.ReferenceNumber)
		pos++
	}
	if filter.AfterSeq > 0 {
		cmp := ">"
		if filter.Descending {
			cmp = "<"
		}
		query += fmt.Sprintf(" AND seq %s $%d", cmp, pos)
		args = append(args, filter.AfterSeq)
		pos++
	}
	order := " ORDER BY seq ASC"
	if filter.Descending {
		order = " ORDER BY seq DESC"
	}
	query += order + fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListByKey devuelve todos los movimientos de la llave en orden ascendente de
// seq, para replay y verificación de la cadena de saldos.
func (r *MovementRepo) ListByKey(ctx context.Context, productID, warehouseID string) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements WHERE product_id = $1 AND warehouse_id = $2
		ORDER BY seq ASC`
	rows, err := r.q.Query(ctx, query, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list by key: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListByReference devuelve los movimientos generados por una referencia de
// negocio (todos los asientos de un traslado, de una reserva, etc.).
func (r *MovementRepo) ListByReference(ctx context.Context, referenceType, referenceNumber string) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements WHERE reference_type = $1 AND reference_number = $2
		ORDER BY seq ASC`
	rows, err := r.q.Query(ctx, query, referenceType, referenceNumber)
	if err != nil {
		return nil, fmt.Errorf("list by reference: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListAuditTrail proyecta movimientos con nombres resueltos por LEFT JOIN a los
// directorios maestros (un producto o usuario borrado no oculta el asiento).
func (r *MovementRepo) ListAuditTrail(ctx context.Context, filter repository.MovementFilter) ([]*entity.AuditEntry, error) {
	query := `
		SELECT m.seq, m.id, m.created_at, m.type, m.created_by, COALESCE(u.name, ''),
			m.product_id, COALESCE(p.name, ''), m.warehouse_id, COALESCE(w.name, ''),
			m.quantity_delta, m.balance_before, m.balance_after,
			m.reference_type, m.reference_number, m.notes
		FROM stock_movements m
		LEFT JOIN products p ON p.id = m.product_id
		LEFT JOIN warehouses w ON w.id = m.warehouse_id
		LEFT JOIN users u ON u.id = m.created_by
		WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND m.product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.WarehouseID != "" {
		query += fmt.Sprintf(" AND m.warehouse_id = $%d", pos)
		args = append(args, filter.WarehouseID)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND m.date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND m.date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	if filter.AfterSeq > 0 {
		cmp := ">"
		if filter.Descending {
			cmp = "<"
		}
		query += fmt.Sprintf(" AND m.seq %s $%d", cmp, pos)
		args = append(args, filter.AfterSeq)
		pos++
	}
	order := " ORDER BY m.seq ASC"
	if filter.Descending {
		order = " ORDER BY m.seq DESC"
	}
	query += order + fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit trail: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		var userID *string
		if err := rows.Scan(&e.Seq, &e.MovementID, &e.Timestamp, &e.Action, &userID, &e.UserName,
			&e.ProductID, &e.ProductName, &e.WarehouseID, &e.WarehouseName,
			&e.QuantityChange, &e.BalanceBefore, &e.BalanceAfter,
			&e.ReferenceType, &e.ReferenceNumber, &e.Notes); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if userID != nil {
			e.UserID = *userID
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// ListActiveProductIDs devuelve los productos con actividad en el libro para la bodega.
func (r *MovementRepo) ListActiveProductIDs(ctx context.Context, warehouseID string) ([]string, error) {
	query := `SELECT DISTINCT product_id FROM stock_movements WHERE warehouse_id = $1`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var createdBy *string
	err := row.Scan(
		&m.Seq, &m.ID, &m.ProductID, &m.WarehouseID, &m.Type, &m.QuantityDelta,
		&m.BalanceBefore, &m.BalanceAfter, &m.ReferenceType, &m.ReferenceNumber, &m.BatchNumber,
		&m.UnitCost, &m.TotalCost, &m.Notes, &m.Date, &m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
