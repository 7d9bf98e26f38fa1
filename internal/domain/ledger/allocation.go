package ledger

import "github.com/shopspring/decimal"

// Batch es un lote disponible para asignación, identificado por su secuencia
// de entrada (menor = más antiguo).
type Batch struct {
	Seq         int64
	BatchNumber string
	Quantity    decimal.Decimal
}

// Allocation es la porción de un lote asignada a una demanda.
type Allocation struct {
	Seq         int64
	BatchNumber string
	Quantity    decimal.Decimal
}

// AllocateFIFO reparte una demanda entre lotes ordenados por secuencia,
// consumiendo primero el más antiguo. Devuelve las asignaciones y la porción
// de demanda que no alcanzó a cubrirse (cero si el stock por lotes alcanza).
// batches debe venir ordenado ascendente por Seq; la función no lo reordena.
func AllocateFIFO(batches []Batch, demand decimal.Decimal) ([]Allocation, decimal.Decimal) {
	var allocations []Allocation
	remaining := demand
	for _, b := range batches {
		if remaining.LessThanOrEqual(decimal.Decimal{}) {
			break
		}
		if b.Quantity.LessThanOrEqual(decimal.Decimal{}) {
			continue
		}
		take := b.Quantity
		if take.GreaterThan(remaining) {
			take = remaining
		}
		allocations = append(allocations, Allocation{
			Seq:         b.Seq,
			BatchNumber: b.BatchNumber,
			Quantity:    take,
		})
		remaining = remaining.Sub(take)
	}
	return allocations, remaining
}
