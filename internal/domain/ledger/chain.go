// Package ledger contiene los servicios de dominio del libro de stock:
// verificación de la cadena de saldos, asignación FIFO por lotes y costo
// promedio ponderado.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// ChainError describe una ruptura de la cadena de saldos detectada al verificar.
type ChainError struct {
	Seq      int64
	Expected decimal.Decimal
	Got      decimal.Decimal
	Detail   string
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("cadena de saldos rota en seq %d: %s (esperado %s, encontrado %s)",
		e.Seq, e.Detail, e.Expected.String(), e.Got.String())
}

// VerifyChain valida la cadena de saldos de una misma llave (producto, bodega):
// BalanceAfter[i] == BalanceBefore[i+1], cada movimiento cuadra internamente y
// el saldo final es la suma de todos los deltas desde cero (si la lista empieza
// en el origen del libro). movements debe venir en orden ascendente de Seq.
func VerifyChain(movements []*entity.Movement) error {
	prev := decimal.Decimal{}
	for i, m := range movements {
		if !m.BalanceAfter.Equal(m.BalanceBefore.Add(m.QuantityDelta)) {
			return &ChainError{
				Seq:      m.Seq,
				Expected: m.BalanceBefore.Add(m.QuantityDelta),
				Got:      m.BalanceAfter,
				Detail:   "balance_after != balance_before + delta",
			}
		}
		if i > 0 && !m.BalanceBefore.Equal(prev) {
			return &ChainError{
				Seq:      m.Seq,
				Expected: prev,
				Got:      m.BalanceBefore,
				Detail:   "balance_before no continúa el balance_after anterior",
			}
		}
		prev = m.BalanceAfter
	}
	return nil
}

// Replay reproduce los movimientos desde cero y devuelve el saldo resultante.
// Permite reconstruir el índice materializado de saldos para auditoría/debug.
func Replay(movements []*entity.Movement) decimal.Decimal {
	total := decimal.Decimal{}
	for _, m := range movements {
		total = total.Add(m.QuantityDelta)
	}
	return total
}
