// Verificador de la cadena de saldos. Reproduce el libro de una llave
// (producto, bodega) o de todos los productos de una bodega y compara contra
// el saldo materializado. Sale con código 1 si encuentra una rotura.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/postgres"
	"github.com/tu-usuario/stock-ledger/pkg/config"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

func main() {
	productID := flag.String("product", "", "ID del producto (vacío = todos los de la bodega)")
	warehouseID := flag.String("warehouse", "", "ID de la bodega (requerido)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info", App: "ledger-verify"})

	if *warehouseID == "" {
		log.Fatal().Msg("-warehouse es requerido")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	movementRepo := postgres.NewMovementRepository(pool)
	balanceRepo := postgres.NewStockBalanceRepository(pool)
	queryUC := ledger.NewQueryUseCase(movementRepo, balanceRepo)

	products := []string{*productID}
	if *productID == "" {
		products, err = movementRepo.ListActiveProductIDs(ctx, *warehouseID)
		if err != nil {
			log.Fatal().Err(err).Msg("listar productos activos")
		}
	}

	broken := 0
	for _, pid := range products {
		if err := queryUC.VerifyKey(ctx, pid, *warehouseID); err != nil {
			broken++
			log.Error().
				Str("product_id", pid).
				Str("warehouse_id", *warehouseID).
				Err(err).
				Msg("cadena de saldos rota")
		}
	}
	if broken > 0 {
		log.Fatal().Int("broken", broken).Int("checked", len(products)).Msg("verificación con errores")
	}
	log.Info().Int("checked", len(products)).Msg("cadena de saldos verificada")
}
