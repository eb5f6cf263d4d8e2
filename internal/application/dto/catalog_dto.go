package dto

// CreateServiceRequest alta de un servicio del catálogo.
// Cost llega como string decimal y se parsea en el handler.
type CreateServiceRequest struct {
	Name                  string `json:"service_name"`
	Category              string `json:"category"`
	Cost                  string `json:"cost"`
	Description           string `json:"description"`
	LinkedInventoryItemID string `json:"linked_inventory_item_id,omitempty"`
}

// ServiceResponse un servicio del catálogo con costo a 2 decimales.
type ServiceResponse struct {
	ID                    string `json:"id"`
	Name                  string `json:"service_name"`
	Category              string `json:"category"`
	Cost                  string `json:"cost"`
	Description           string `json:"description"`
	IsActive              bool   `json:"is_active"`
	LinkedInventoryItemID string `json:"linked_inventory_item_id,omitempty"`
}
