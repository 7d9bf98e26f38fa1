package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del directorio maestro (colaborador
// externo: el motor lo consulta para validar existencia y resolver nombres).
// Cost es el costo promedio ponderado, actualizado por entradas del libro.
type Product struct {
	ID          string
	SKU         string
	Name        string
	UnitMeasure string // KG, PCS...
	Cost        decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
