package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos. AfterSeq es el cursor keyset
// exclusivo en la dirección del listado (seq mayor ascendente, seq menor
// descendente); estable bajo appends concurrentes, a diferencia del timestamp
// que no es único.
type MovementFilter struct {
	ProductID       string
	WarehouseID     string
	Types           []string
	From            *time.Time
	To              *time.Time
	ReferenceType   string
	ReferenceNumber string
	AfterSeq        int64
	Limit           int
	Offset          int
	Descending      bool
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// El libro es append-only: no hay Update ni Delete.
type MovementRepository interface {
	// Create persiste el movimiento y asigna Seq (secuencia monótona).
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// ListByKey devuelve todos los movimientos de una llave en orden ascendente
	// de Seq, para replay y verificación de la cadena de saldos.
	ListByKey(ctx context.Context, productID, warehouseID string) ([]*entity.Movement, error)
	ListByReference(ctx context.Context, referenceType, referenceNumber string) ([]*entity.Movement, error)
	// ListAuditTrail proyecta movimientos con nombres de producto/bodega/usuario resueltos.
	ListAuditTrail(ctx context.Context, filter MovementFilter) ([]*entity.AuditEntry, error)
	// ListActiveProductIDs devuelve los productos con actividad en el libro para una bodega.
	ListActiveProductIDs(ctx context.Context, warehouseID string) ([]string, error)
}
