package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario (directorio
// maestro, colaborador externo del motor).
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
