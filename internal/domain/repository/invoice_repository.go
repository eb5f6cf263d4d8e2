package repository

import (
	"context"

	"github.com/careflow/hms-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InvoiceRepository define el puerto de persistencia para facturas y sus líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetForUpdate bloquea la fila de la factura (SELECT FOR UPDATE) releyendo
	// total_amount y amount_paid para evitar lecturas obsoletas. Devuelve nil, nil
	// si la factura no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	// UpdateTotal finaliza el total de la factura dentro de la transacción de creación.
	UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error
	// UpdatePayment persiste amount_paid y status tras aplicar un pago.
	UpdatePayment(ctx context.Context, id string, amountPaid decimal.Decimal, status string) error
	GetItemsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Invoice, error)
	ListAll(ctx context.Context) ([]*entity.Invoice, error)
	// OutstandingBalanceByUser suma total_amount - amount_paid de facturas no pagadas.
	OutstandingBalanceByUser(ctx context.Context, userID string) (decimal.Decimal, error)
}
