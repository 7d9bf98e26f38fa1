package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia")
)

// InsufficientStockError detalla un rechazo por saldo insuficiente: cuánto se
// pidió y cuánto había. Envuelve ErrInsufficientStock para errors.Is.
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s en bodega %s: solicitado %s, disponible %s",
		e.ProductID, e.WarehouseID, e.Requested.String(), e.Available.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ConflictError detalla una operación rechazada por el estado actual del
// recurso (ej. transición inválida de una reserva terminal). Envuelve
// ErrConflict para errors.Is.
type ConflictError struct {
	Reason        string
	CurrentStatus string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s (estado actual: %s)", e.Reason, e.CurrentStatus)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
