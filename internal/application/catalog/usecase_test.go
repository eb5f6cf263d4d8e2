package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careflow/hms-api/internal/application/catalog"
	"github.com/careflow/hms-api/internal/application/dto"
	"github.com/careflow/hms-api/internal/domain"
	"github.com/careflow/hms-api/internal/domain/entity"
)

type fakeServiceRepo struct {
	services map[string]*entity.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: make(map[string]*entity.Service)}
}

func (r *fakeServiceRepo) Create(_ context.Context, svc *entity.Service) error {
	for _, s := range r.services {
		if s.Name == svc.Name {
			return domain.ErrDuplicate
		}
	}
	r.services[svc.ID] = svc
	return nil
}

func (r *fakeServiceRepo) GetByID(_ context.Context, id string) (*entity.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, nil
	}
	return svc, nil
}

func (r *fakeServiceRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Service, error) {
	out := make(map[string]*entity.Service)
	for _, id := range ids {
		if svc, ok := r.services[id]; ok {
			out[id] = svc
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) ListActive(context.Context) ([]*entity.Service, error) {
	var out []*entity.Service
	for _, svc := range r.services {
		if svc.IsActive {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) List(context.Context) ([]*entity.Service, error) {
	var out []*entity.Service
	for _, svc := range r.services {
		out = append(out, svc)
	}
	return out, nil
}

func (r *fakeServiceRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.services[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.services, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CreateService
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateService_CostoParseadoYActivoPorDefecto(t *testing.T) {
	uc := catalog.NewUseCase(newFakeServiceRepo())

	svc, err := uc.CreateService(context.Background(), dto.CreateServiceRequest{
		Name: "Radiografía de tórax", Category: "Imagenología", Cost: "45.5",
	})
	require.NoError(t, err)

	assert.Equal(t, "45.50", svc.Cost, "el costo se normaliza a 2 decimales")
	assert.True(t, svc.IsActive, "un servicio nuevo nace activo")
	assert.NotEmpty(t, svc.ID)
}

func TestCreateService_CostoInvalido(t *testing.T) {
	uc := catalog.NewUseCase(newFakeServiceRepo())

	for _, cost := range []string{"abc", "-10.00"} {
		_, err := uc.CreateService(context.Background(), dto.CreateServiceRequest{
			Name: "X", Category: "Y", Cost: cost,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "costo %q debe rechazarse", cost)
	}
}

func TestCreateService_CamposRequeridos(t *testing.T) {
	uc := catalog.NewUseCase(newFakeServiceRepo())

	_, err := uc.CreateService(context.Background(), dto.CreateServiceRequest{Category: "Y", Cost: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateService_NombreDuplicado(t *testing.T) {
	repo := newFakeServiceRepo()
	uc := catalog.NewUseCase(repo)

	_, err := uc.CreateService(context.Background(), dto.CreateServiceRequest{
		Name: "Consulta General", Category: "Consulta", Cost: "25.00",
	})
	require.NoError(t, err)

	_, err = uc.CreateService(context.Background(), dto.CreateServiceRequest{
		Name: "Consulta General", Category: "Consulta", Cost: "30.00",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestDeleteService_Inexistente(t *testing.T) {
	uc := catalog.NewUseCase(newFakeServiceRepo())
	err := uc.DeleteService(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
