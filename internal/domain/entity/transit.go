package entity

import "github.com/shopspring/decimal"

// Estados relevantes de una orden de compra para el sincronizador de tránsito.
const (
	POStatusReceived  = "received"
	POStatusCancelled = "cancelled"

	POStockStatusTransit = "transit"
)

// PurchaseOrderSnapshot es la vista de solo lectura de una orden de compra que
// consume el motor. El directorio de compras es un colaborador externo; aquí no
// se administra su ciclo de vida.
type PurchaseOrderSnapshot struct {
	PONumber    string
	ProductID   string
	WarehouseID string
	Status      string // pending, confirmed, received, cancelled...
	StockStatus string // transit, received...
	Quantity    decimal.Decimal
}

// InTransit reporta si la orden representa suministro virtual aún no recibido.
func (po *PurchaseOrderSnapshot) InTransit() bool {
	return po.StockStatus == POStockStatusTransit &&
		po.Status != POStatusReceived && po.Status != POStatusCancelled
}

// TransitSupply es una entrada virtual derivada de una orden de compra en
// tránsito. Existe solo en resultados de consulta: nunca se persiste en el
// libro de stock.
type TransitSupply struct {
	PONumber    string
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	IsTransit   bool // siempre true; distingue la entrada en vistas combinadas
}

// Clases de entrada en una vista combinada del libro.
const (
	EntryKindReal    = "real"
	EntryKindVirtual = "virtual"
)

// LedgerEntry es la unión etiquetada que mezcla movimientos persistidos con
// entradas virtuales de tránsito en la capa de consulta.
type LedgerEntry struct {
	Kind     string
	Movement *Movement      // Kind == real
	Transit  *TransitSupply // Kind == virtual
}
