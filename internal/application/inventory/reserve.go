package inventory

import (
	"context"

	"github.com/careflow/hms-api/internal/domain"
	"github.com/careflow/hms-api/internal/domain/repository"
)

// ReserveStock descuenta qty unidades del ítem dentro de la transacción del
// llamador: bloquea la fila (SELECT FOR UPDATE), verifica existencia y stock
// suficiente, y resta. Un error aquí aborta la transacción completa del llamador,
// revirtiendo descuentos previos de la misma factura.
//
// Nunca debe llamarse fuera de una transacción en el flujo de facturación:
// el lock y el descuento deben confirmar o revertir junto con la factura.
func ReserveStock(ctx context.Context, invRepo repository.InventoryRepository, itemID string, qty int) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	item, err := invRepo.GetForUpdate(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrInventoryItemNotFound
	}
	if item.CurrentStock < qty {
		return &domain.InsufficientStockError{
			ItemName:  item.Name,
			Available: item.CurrentStock,
			Requested: qty,
		}
	}
	return invRepo.DecrementStock(ctx, itemID, qty)
}
