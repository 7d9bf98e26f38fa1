package reservation

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios
// del libro más el de reservas. El cumplimiento acopla la mutación de la
// reserva al append del movimiento: o se confirman juntos o ninguno.
type TxRunner interface {
	RunReservation(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		balanceRepo repository.StockBalanceRepository,
		productRepo repository.ProductRepository,
		reservationRepo repository.ReservationRepository,
	) error) error
}
