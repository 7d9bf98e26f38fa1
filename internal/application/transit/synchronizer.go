// Package transit deriva, en tiempo de lectura, entradas virtuales de
// suministro en tránsito a partir del snapshot de compras y las mezcla con los
// movimientos persistidos sin duplicar ni contradecir.
package transit

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// Synchronizer superpone el suministro en tránsito sobre el libro. Solo lee:
// es una función pura del estado actual de compras más la lista de movimientos,
// idempotente y segura de reintentar.
type Synchronizer struct {
	movementRepo repository.MovementRepository
	poRepo       repository.PurchaseOrderRepository
}

// NewSynchronizer construye el sincronizador.
func NewSynchronizer(
	movementRepo repository.MovementRepository,
	poRepo repository.PurchaseOrderRepository,
) *Synchronizer {
	return &Synchronizer{movementRepo: movementRepo, poRepo: poRepo}
}

// Merge mezcla movimientos reales con el snapshot de compras:
//   - emite una entrada virtual IN-pendiente por cada orden en tránsito
//     (stock_status transit y status distinto de received/cancelled);
//   - suprime movimientos reales cuya referencia apunta a una orden todavía en
//     tránsito (recepción registrada prematuramente: no debe verse como
//     asentada hasta que compras confirme);
//   - las entradas virtuales de órdenes que salieron de tránsito nunca se
//     emiten, así que no pueden sobrevivir a su estado de origen.
//
// Los registros inconsistentes se filtran, no se rechazan: vienen de un sistema
// externo que este motor no controla.
func Merge(movements []*entity.Movement, orders []*entity.PurchaseOrderSnapshot) []entity.LedgerEntry {
	inTransit := make(map[string]*entity.PurchaseOrderSnapshot, len(orders))
	for _, po := range orders {
		if po.InTransit() {
			inTransit[po.PONumber] = po
		}
	}

	entries := make([]entity.LedgerEntry, 0, len(movements)+len(inTransit))
	for _, m := range movements {
		if m.ReferenceNumber != "" {
			if _, still := inTransit[m.ReferenceNumber]; still {
				continue
			}
		}
		entries = append(entries, entity.LedgerEntry{Kind: entity.EntryKindReal, Movement: m})
	}
	for _, po := range orders {
		if !po.InTransit() {
			continue
		}
		entries = append(entries, entity.LedgerEntry{
			Kind: entity.EntryKindVirtual,
			Transit: &entity.TransitSupply{
				PONumber:    po.PONumber,
				ProductID:   po.ProductID,
				WarehouseID: po.WarehouseID,
				Quantity:    po.Quantity,
				IsTransit:   true,
			},
		})
	}
	return entries
}

// CombinedView devuelve la vista combinada (real + virtual) para los filtros
// dados. El snapshot de compras se restringe a los mismos filtros que los
// movimientos para que el lado virtual no traiga productos fuera de la consulta.
func (s *Synchronizer) CombinedView(ctx context.Context, filter repository.MovementFilter) ([]entity.LedgerEntry, error) {
	movements, err := s.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	orders, err := s.poRepo.ListSnapshots(ctx, filter.WarehouseID)
	if err != nil {
		return nil, err
	}
	if filter.ProductID != "" {
		filtered := orders[:0]
		for _, po := range orders {
			if po.ProductID == filter.ProductID {
				filtered = append(filtered, po)
			}
		}
		orders = filtered
	}
	return Merge(movements, orders), nil
}
