package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/careflow/hms-api/internal/domain/entity"
	"github.com/careflow/hms-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, user_id, due_date, total_amount, amount_paid, status, created_at`

// Create persiste la cabecera de la factura (total 0 placeholder; se finaliza
// con UpdateTotal dentro de la misma transacción).
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, user_id, due_date, total_amount, amount_paid, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.UserID, invoice.DueDate, invoice.TotalAmount,
		invoice.AmountPaid, invoice.Status, invoice.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de factura (valores snapshot, inmutable).
func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, service_name, cost_per_unit, quantity)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.InvoiceID, item.ServiceName, item.CostPerUnit, item.Quantity,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera por ID. Devuelve nil, nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetForUpdate bloquea la fila y relee total_amount/amount_paid (evita lecturas
// obsoletas frente a pagos concurrentes). Devuelve nil, nil si no existe.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id)
}

// UpdateTotal finaliza el total de la factura (paso final de la creación).
func (r *InvoiceRepo) UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error {
	query := `UPDATE invoices SET total_amount = $1 WHERE id = $2`
	_, err := r.q.Exec(ctx, query, total, id)
	if err != nil {
		return fmt.Errorf("update invoice total: %w", err)
	}
	return nil
}

// UpdatePayment persiste amount_paid y status tras aplicar un pago.
func (r *InvoiceRepo) UpdatePayment(ctx context.Context, id string, amountPaid decimal.Decimal, status string) error {
	query := `UPDATE invoices SET amount_paid = $1, status = $2 WHERE id = $3`
	_, err := r.q.Exec(ctx, query, amountPaid, status, id)
	if err != nil {
		return fmt.Errorf("update invoice payment: %w", err)
	}
	return nil
}

// GetItemsByInvoiceID devuelve las líneas de la factura.
func (r *InvoiceRepo) GetItemsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, service_name, cost_per_unit, quantity
		FROM invoice_items WHERE invoice_id = $1`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	var out []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ServiceName, &it.CostPerUnit, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// ListByUser facturas de un usuario, más recientes primero.
func (r *InvoiceRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListAll todas las facturas (vista admin), más recientes primero.
func (r *InvoiceRepo) ListAll(ctx context.Context) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC`
	return r.list(ctx, query)
}

// OutstandingBalanceByUser suma total_amount - amount_paid de facturas no pagadas.
func (r *InvoiceRepo) OutstandingBalanceByUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_amount - amount_paid), 0)
		FROM invoices WHERE user_id = $1 AND status != $2`
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, query, userID, entity.InvoiceStatusPaid).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum outstanding balance: %w", err)
	}
	return total, nil
}

func (r *InvoiceRepo) scanOne(ctx context.Context, query, id string) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.UserID, &inv.DueDate, &inv.TotalAmount, &inv.AmountPaid, &inv.Status, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

func (r *InvoiceRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.DueDate, &inv.TotalAmount, &inv.AmountPaid, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, &inv)
	}
	return out, rows.Err()
}
