package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/careflow/hms-api/internal/domain"
	"github.com/careflow/hms-api/internal/domain/entity"
	"github.com/careflow/hms-api/internal/domain/repository"
)

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

// ServiceRepo implementación del catálogo de servicios (usable con pool o tx).
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

const serviceColumns = `id, service_name, category, cost, description, is_active, linked_inventory_item_id`

// Create persiste un servicio del catálogo.
func (r *ServiceRepo) Create(ctx context.Context, svc *entity.Service) error {
	query := `
		INSERT INTO services (id, service_name, category, cost, description, is_active, linked_inventory_item_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		svc.ID, svc.Name, svc.Category, svc.Cost, svc.Description, svc.IsActive,
		nullIfEmpty(svc.LinkedInventoryItemID),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

// GetByID obtiene un servicio por ID. Devuelve nil, nil si no existe.
func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`
	row := r.q.QueryRow(ctx, query, id)
	svc, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return svc, nil
}

// GetByIDs resuelve un lote de servicios en una sola consulta (ANY($1)).
// Los IDs inexistentes simplemente no aparecen en el mapa.
func (r *ServiceRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = ANY($1)`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get services batch: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*entity.Service, len(ids))
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		out[svc.ID] = svc
	}
	return out, rows.Err()
}

// ListActive devuelve los servicios activos ordenados por categoría y nombre.
func (r *ServiceRepo) ListActive(ctx context.Context) ([]*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE is_active = TRUE ORDER BY category, service_name`
	return r.list(ctx, query)
}

// List devuelve el catálogo completo ordenado por categoría y nombre.
func (r *ServiceRepo) List(ctx context.Context) ([]*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY category, service_name`
	return r.list(ctx, query)
}

// Delete elimina un servicio. Las facturas existentes no se ven afectadas
// (las líneas llevan nombre y costo copiados, no referencias).
func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ServiceRepo) list(ctx context.Context, query string) ([]*entity.Service, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var out []*entity.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}

func scanService(row pgx.Row) (*entity.Service, error) {
	var s entity.Service
	var linked *string
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Cost, &s.Description, &s.IsActive, &linked)
	if err != nil {
		return nil, err
	}
	if linked != nil {
		s.LinkedInventoryItemID = *linked
	}
	return &s, nil
}
