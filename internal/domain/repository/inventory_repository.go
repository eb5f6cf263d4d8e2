package repository

import (
	"context"

	"github.com/careflow/hms-api/internal/domain/entity"
)

// InventoryRepository define el puerto de persistencia del inventario.
// Usado dentro de transacciones para garantizar consistencia del stock.
type InventoryRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila del ítem (SELECT FOR UPDATE). Devuelve nil, nil
	// si el ítem no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	// DecrementStock resta qty y estampa last_updated. Llamar solo tras GetForUpdate
	// en la misma transacción.
	DecrementStock(ctx context.Context, id string, qty int) error
	// SetStock fija el stock a un valor explícito (operación administrativa).
	SetStock(ctx context.Context, id string, newStock int) (*entity.InventoryItem, error)
	List(ctx context.Context) ([]*entity.InventoryItem, error)
	CountLowStock(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}
