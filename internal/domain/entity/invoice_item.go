package entity

import "github.com/shopspring/decimal"

// InvoiceItem es una línea de factura con nombre y precio copiados del catálogo
// al momento de la creación (snapshot intencional: la factura no cambia si el
// catálogo cambia después). Inmutable una vez creada; su ciclo de vida pertenece
// a la factura.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	ServiceName string
	CostPerUnit decimal.Decimal
	Quantity    int
}

// Subtotal devuelve CostPerUnit * Quantity.
func (it *InvoiceItem) Subtotal() decimal.Decimal {
	return it.CostPerUnit.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
