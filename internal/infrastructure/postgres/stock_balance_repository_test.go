package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Querier de prueba ───────────────────────────────────────────────────────

// scriptedRow respuesta pre-armada para un QueryRow.
type scriptedRow struct {
	err  error
	scan func(dest ...any) error
}

func (r scriptedRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if r.scan != nil {
		return r.scan(dest...)
	}
	return nil
}

// scriptedQuerier registra el SQL emitido y responde QueryRow con filas
// pre-armadas en orden. Permite verificar la forma de las consultas sin BD.
type scriptedQuerier struct {
	execs  []string
	querys []string
	rowSQL []string
	rows   []scriptedRow
}

func (q *scriptedQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.execs = append(q.execs, sql)
	return pgconn.CommandTag{}, nil
}

func (q *scriptedQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.querys = append(q.querys, sql)
	return emptyRows{}, nil
}

func (q *scriptedQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.rowSQL = append(q.rowSQL, sql)
	if len(q.rows) == 0 {
		return scriptedRow{err: pgx.ErrNoRows}
	}
	row := q.rows[0]
	q.rows = q.rows[1:]
	return row
}

// emptyRows resultado vacío para consultas de listado.
type emptyRows struct{}

func (emptyRows) Close()                                       {}
func (emptyRows) Err() error                                   { return nil }
func (emptyRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (emptyRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (emptyRows) Next() bool                                   { return false }
func (emptyRows) Scan(...any) error                            { return nil }
func (emptyRows) Values() ([]any, error)                       { return nil, nil }
func (emptyRows) RawValues() [][]byte                          { return nil }
func (emptyRows) Conn() *pgx.Conn                              { return nil }

func balanceRow(productID, warehouseID string, qty int64) scriptedRow {
	return scriptedRow{scan: func(dest ...any) error {
		*(dest[0].(*string)) = productID
		*(dest[1].(*string)) = warehouseID
		*(dest[2].(*decimal.Decimal)) = decimal.NewFromInt(qty)
		*(dest[3].(*time.Time)) = time.Now()
		return nil
	}}
}

// ─── Tests ───────────────────────────────────────────────────────────────────

// Sin fila de saldo no hay nada que bloquear: el primer movimiento de una llave
// debe materializar la fila en cero (DO NOTHING contra la carrera) y retomar el
// SELECT FOR UPDATE sobre la fila ganadora. Si no, dos primeras-escrituras
// concurrentes parten ambas de saldo 0 y se pierde un delta.
func TestGetForUpdate_PrimeraEscrituraMaterializaYBloquea(t *testing.T) {
	q := &scriptedQuerier{rows: []scriptedRow{
		{err: pgx.ErrNoRows},
		balanceRow("prod-a", "wh-1", 0),
	}}
	repo := NewStockBalanceRepository(q)

	b, err := repo.GetForUpdate(context.Background(), "prod-a", "wh-1")
	require.NoError(t, err)
	assert.True(t, b.Quantity.IsZero())

	require.Len(t, q.execs, 1, "debe insertarse la fila en cero antes de releer")
	assert.Contains(t, q.execs[0], "ON CONFLICT (product_id, warehouse_id) DO NOTHING")
	require.Len(t, q.rowSQL, 2, "tras el insert se retoma el SELECT FOR UPDATE")
	assert.Contains(t, q.rowSQL[0], "FOR UPDATE")
	assert.Contains(t, q.rowSQL[1], "FOR UPDATE")
}

func TestGetForUpdate_FilaExistenteNoInserta(t *testing.T) {
	q := &scriptedQuerier{rows: []scriptedRow{balanceRow("prod-a", "wh-1", 40)}}
	repo := NewStockBalanceRepository(q)

	b, err := repo.GetForUpdate(context.Background(), "prod-a", "wh-1")
	require.NoError(t, err)
	assert.True(t, b.Quantity.Equal(decimal.NewFromInt(40)))
	assert.Empty(t, q.execs, "con fila existente basta el lock del SELECT")
	require.Len(t, q.rowSQL, 1)
}

func TestGet_LlaveSinHistorialDevuelveCero(t *testing.T) {
	q := &scriptedQuerier{}
	repo := NewStockBalanceRepository(q)

	b, err := repo.Get(context.Background(), "prod-x", "wh-1")
	require.NoError(t, err)
	assert.True(t, b.Quantity.IsZero())
	assert.Empty(t, q.execs, "una lectura suelta nunca escribe")
}
