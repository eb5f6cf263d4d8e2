package entity

import "time"

// InventoryItem representa un insumo con existencias.
// CurrentStock nunca debe quedar negativo; el descuento se hace siempre bajo
// SELECT FOR UPDATE dentro de la transacción de facturación.
type InventoryItem struct {
	ID                string
	Name              string
	Unit              string
	CurrentStock      int
	LowStockThreshold int
	LastUpdated       time.Time
}

// IsLowStock indica si el ítem está en o bajo su umbral de reposición.
func (i *InventoryItem) IsLowStock() bool {
	return i.CurrentStock <= i.LowStockThreshold
}
