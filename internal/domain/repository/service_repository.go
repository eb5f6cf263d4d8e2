package repository

import (
	"context"

	"github.com/careflow/hms-api/internal/domain/entity"
)

// ServiceRepository define el puerto de persistencia del catálogo de servicios.
type ServiceRepository interface {
	Create(ctx context.Context, svc *entity.Service) error
	GetByID(ctx context.Context, id string) (*entity.Service, error)
	// GetByIDs resuelve un lote de servicios en una sola consulta (ANY($1)).
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Service, error)
	ListActive(ctx context.Context) ([]*entity.Service, error)
	List(ctx context.Context) ([]*entity.Service, error)
	Delete(ctx context.Context, id string) error
}
