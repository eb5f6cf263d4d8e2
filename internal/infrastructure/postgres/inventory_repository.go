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

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, item_name, unit, current_stock, low_stock_threshold, last_updated`

// Create persiste un ítem nuevo. Nombre único (ErrDuplicate en 23505).
func (r *InventoryRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory (id, item_name, unit, current_stock, low_stock_threshold, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Unit, item.CurrentStock, item.LowStockThreshold, item.LastUpdated,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID. Devuelve nil, nil si no existe.
func (r *InventoryRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetForUpdate obtiene el ítem bloqueando la fila (SELECT FOR UPDATE).
// Devuelve nil, nil si no existe; el lock se mantiene hasta el fin de la tx.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id)
}

// DecrementStock resta qty unidades y estampa last_updated.
// Llamar solo tras GetForUpdate en la misma transacción.
func (r *InventoryRepo) DecrementStock(ctx context.Context, id string, qty int) error {
	query := `
		UPDATE inventory
		SET current_stock = current_stock - $1, last_updated = CURRENT_TIMESTAMP
		WHERE id = $2`
	tag, err := r.q.Exec(ctx, query, qty, id)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInventoryItemNotFound
	}
	return nil
}

// SetStock fija el stock a un valor explícito (operación administrativa).
// Devuelve nil, nil si el ítem no existe.
func (r *InventoryRepo) SetStock(ctx context.Context, id string, newStock int) (*entity.InventoryItem, error) {
	query := `
		UPDATE inventory
		SET current_stock = $1, last_updated = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING ` + inventoryColumns
	var item entity.InventoryItem
	err := r.q.QueryRow(ctx, query, newStock, id).Scan(
		&item.ID, &item.Name, &item.Unit, &item.CurrentStock, &item.LowStockThreshold, &item.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("set stock: %w", err)
	}
	return &item, nil
}

// List devuelve el inventario ordenado por stock ascendente (críticos primero).
func (r *InventoryRepo) List(ctx context.Context) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory ORDER BY current_stock ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var out []*entity.InventoryItem
	for rows.Next() {
		var item entity.InventoryItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Unit, &item.CurrentStock, &item.LowStockThreshold, &item.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		out = append(out, &item)
	}
	return out, rows.Err()
}

// CountLowStock cuenta los ítems en o bajo su umbral de reposición.
func (r *InventoryRepo) CountLowStock(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM inventory WHERE current_stock <= low_stock_threshold`
	var count int
	if err := r.q.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return count, nil
}

// Delete elimina un ítem de inventario.
func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInventoryItemNotFound
	}
	return nil
}

func (r *InventoryRepo) scanOne(ctx context.Context, query, id string) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := r.q.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Unit, &item.CurrentStock, &item.LowStockThreshold, &item.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return &item, nil
}
