package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrInvalidAmount         = errors.New("monto inválido: debe ser un número positivo")
	ErrInsufficientFunds     = errors.New("fondos insuficientes en la billetera")
	ErrInvoiceNotFound       = errors.New("factura no encontrada")
	ErrInvalidPaymentAmount  = errors.New("monto de pago inválido: debe ser positivo y no exceder el saldo pendiente")
	ErrInventoryItemNotFound = errors.New("ítem de inventario no encontrado")
)

// InsufficientStockError se retorna cuando una reserva de inventario excede el stock
// disponible. Lleva el nombre del ítem y las cantidades para el mensaje al usuario.
type InsufficientStockError struct {
	ItemName  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: quedan %d unidades y se solicitaron %d",
		e.ItemName, e.Available, e.Requested)
}

// IsInsufficientStock verifica si err es (o envuelve) un InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}
