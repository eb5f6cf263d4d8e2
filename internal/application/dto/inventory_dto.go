package dto

import "time"

// CreateInventoryItemRequest alta de un ítem de inventario.
type CreateInventoryItemRequest struct {
	Name              string `json:"item_name"`
	Unit              string `json:"unit"`
	CurrentStock      int    `json:"current_stock"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

// SetStockRequest fija el stock a un valor explícito (no es un delta).
type SetStockRequest struct {
	NewStockValue int `json:"new_stock_value"`
}

// InventoryItemResponse un ítem de inventario.
type InventoryItemResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"item_name"`
	Unit              string    `json:"unit"`
	CurrentStock      int       `json:"current_stock"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	LowStock          bool      `json:"low_stock"`
	LastUpdated       time.Time `json:"last_updated"`
}
