package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/careflow/hms-api/internal/application/dto"
	"github.com/careflow/hms-api/internal/domain"
	"github.com/careflow/hms-api/internal/domain/entity"
	"github.com/careflow/hms-api/internal/domain/repository"
)

// UseCase administración del catálogo de servicios facturables.
// El costo aquí es el precio de lista: al facturar se copia a la línea (snapshot),
// así que editar o borrar servicios nunca altera facturas ya emitidas.
type UseCase struct {
	serviceRepo repository.ServiceRepository
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(serviceRepo repository.ServiceRepository) *UseCase {
	return &UseCase{serviceRepo: serviceRepo}
}

// CreateService crea un servicio. Cost debe ser un decimal no negativo.
func (uc *UseCase) CreateService(ctx context.Context, in dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	if in.Name == "" || in.Category == "" || in.Cost == "" {
		return nil, domain.ErrInvalidInput
	}
	cost, err := decimal.NewFromString(in.Cost)
	if err != nil || cost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	svc := &entity.Service{
		ID:                    uuid.New().String(),
		Name:                  in.Name,
		Category:              in.Category,
		Cost:                  cost,
		Description:           in.Description,
		IsActive:              true,
		LinkedInventoryItemID: in.LinkedInventoryItemID,
	}
	if err := uc.serviceRepo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return toServiceResponse(svc), nil
}

// ListServices catálogo completo (admin) ordenado por categoría y nombre.
func (uc *UseCase) ListServices(ctx context.Context) ([]dto.ServiceResponse, error) {
	services, err := uc.serviceRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toServiceResponses(services), nil
}

// ListActiveServices solo servicios activos (formulario de facturación y vista pública).
func (uc *UseCase) ListActiveServices(ctx context.Context) ([]dto.ServiceResponse, error) {
	services, err := uc.serviceRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return toServiceResponses(services), nil
}

// DeleteService elimina un servicio del catálogo. Las facturas existentes no se
// ven afectadas: sus líneas llevan nombre y costo copiados.
func (uc *UseCase) DeleteService(ctx context.Context, id string) error {
	return uc.serviceRepo.Delete(ctx, id)
}

func toServiceResponse(svc *entity.Service) *dto.ServiceResponse {
	return &dto.ServiceResponse{
		ID:                    svc.ID,
		Name:                  svc.Name,
		Category:              svc.Category,
		Cost:                  svc.Cost.StringFixed(2),
		Description:           svc.Description,
		IsActive:              svc.IsActive,
		LinkedInventoryItemID: svc.LinkedInventoryItemID,
	}
}

func toServiceResponses(services []*entity.Service) []dto.ServiceResponse {
	out := make([]dto.ServiceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, *toServiceResponse(svc))
	}
	return out
}
