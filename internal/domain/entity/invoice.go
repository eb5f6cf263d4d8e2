package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura. La transición es monótona: una vez Paid no regresa,
// porque los pagos solo suman.
const (
	InvoiceStatusPending = "Pending"
	InvoiceStatusPartial = "Partial"
	InvoiceStatusPaid    = "Paid"
)

// Invoice representa la cabecera de una factura de servicios.
// TotalAmount se finaliza dentro de la misma transacción que inserta las líneas
// (se crea con 0 y se actualiza al sumar los ítems). AmountPaid es monótonamente
// no decreciente; Status es función pura de AmountPaid vs TotalAmount.
type Invoice struct {
	ID          string
	UserID      string
	DueDate     time.Time
	TotalAmount decimal.Decimal
	AmountPaid  decimal.Decimal
	Status      string
	CreatedAt   time.Time
}

// Outstanding devuelve el saldo pendiente (TotalAmount - AmountPaid).
func (i *Invoice) Outstanding() decimal.Decimal {
	return i.TotalAmount.Sub(i.AmountPaid)
}

// DeriveStatus recalcula el estado a partir de los montos almacenados.
// Comparación decimal exacta: sin tolerancia epsilon, la aritmética con
// decimal.Decimal no introduce errores de redondeo binario.
func DeriveStatus(totalAmount, amountPaid decimal.Decimal) string {
	switch {
	case amountPaid.GreaterThanOrEqual(totalAmount):
		return InvoiceStatusPaid
	case amountPaid.GreaterThan(decimal.Zero):
		return InvoiceStatusPartial
	default:
		return InvoiceStatusPending
	}
}
