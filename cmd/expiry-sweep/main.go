// Barrido de reservas expiradas. La expiración es derivada en lectura, así que
// este job solo persiste la transición a EXPIRED para que los listados por
// estado en SQL coincidan con el estado efectivo. Pensado para cron.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/application/reservation"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/postgres"
	"github.com/tu-usuario/stock-ledger/pkg/config"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

func main() {
	limit := flag.Int("limit", 500, "máximo de reservas a expirar por corrida")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info", App: "expiry-sweep"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	reservationRepo := postgres.NewReservationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	appendUC := ledger.NewAppendMovementUseCase(txRunner, productRepo, warehouseRepo)
	uc := reservation.NewUseCase(
		txRunner, reservationRepo, productRepo, warehouseRepo, appendUC, log,
	)

	n, err := uc.SweepExpired(ctx, *limit)
	if err != nil {
		log.Fatal().Err(err).Msg("barrido de reservas expiradas")
	}
	log.Info().Int("expired", n).Msg("barrido completado")
}
