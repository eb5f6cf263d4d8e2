package entity

import "github.com/shopspring/decimal"

// Service es una entrada del catálogo de servicios médicos facturables.
// Cost se copia a la línea de factura al momento de facturar (snapshot), de modo
// que cambios posteriores de precio no alteran facturas ya emitidas.
type Service struct {
	ID                    string
	Name                  string
	Category              string
	Cost                  decimal.Decimal
	Description           string
	IsActive              bool
	LinkedInventoryItemID string // opcional: ítem de inventario a descontar al facturar
}
