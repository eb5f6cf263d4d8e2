package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/careflow/hms-api/internal/application/dto"
	"github.com/careflow/hms-api/internal/domain"
	"github.com/careflow/hms-api/internal/domain/entity"
	"github.com/careflow/hms-api/internal/domain/repository"
)

// UseCase operaciones administrativas de inventario: alta, fijar stock, listado
// y baja. Son sentencias únicas; el descuento transaccional vive en ReserveStock.
type UseCase struct {
	invRepo repository.InventoryRepository
}

// NewUseCase construye el caso de uso de inventario.
func NewUseCase(invRepo repository.InventoryRepository) *UseCase {
	return &UseCase{invRepo: invRepo}
}

// AddItem crea un ítem de inventario. Nombre único (ErrDuplicate si ya existe).
func (uc *UseCase) AddItem(ctx context.Context, in dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	if in.Name == "" || in.Unit == "" || in.CurrentStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	threshold := in.LowStockThreshold
	if threshold <= 0 {
		threshold = 10
	}
	item := &entity.InventoryItem{
		ID:                uuid.New().String(),
		Name:              in.Name,
		Unit:              in.Unit,
		CurrentStock:      in.CurrentStock,
		LowStockThreshold: threshold,
		LastUpdated:       time.Now(),
	}
	if err := uc.invRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// SetStock fija el stock de un ítem a un valor explícito no negativo
// (operación administrativa, no es un delta).
func (uc *UseCase) SetStock(ctx context.Context, itemID string, newStock int) (*dto.InventoryItemResponse, error) {
	if newStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.invRepo.SetStock(ctx, itemID, newStock)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrInventoryItemNotFound
	}
	return toItemResponse(item), nil
}

// List devuelve el inventario ordenado por stock ascendente (los críticos primero).
func (uc *UseCase) List(ctx context.Context) ([]dto.InventoryItemResponse, error) {
	items, err := uc.invRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, *toItemResponse(item))
	}
	return out, nil
}

// CountLowStock cuenta los ítems en o bajo su umbral de reposición.
func (uc *UseCase) CountLowStock(ctx context.Context) (int, error) {
	return uc.invRepo.CountLowStock(ctx)
}

// DeleteItem elimina un ítem de inventario.
func (uc *UseCase) DeleteItem(ctx context.Context, itemID string) error {
	return uc.invRepo.Delete(ctx, itemID)
}

func toItemResponse(item *entity.InventoryItem) *dto.InventoryItemResponse {
	return &dto.InventoryItemResponse{
		ID:                item.ID,
		Name:              item.Name,
		Unit:              item.Unit,
		CurrentStock:      item.CurrentStock,
		LowStockThreshold: item.LowStockThreshold,
		LowStock:          item.IsLowStock(),
		LastUpdated:       item.LastUpdated,
	}
}
