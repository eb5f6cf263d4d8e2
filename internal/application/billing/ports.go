package billing

import (
	"context"

	"github.com/careflow/hms-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con todos los
// repositorios que la facturación necesita atados a esa tx: factura + líneas +
// descuento de inventario + débito de billetera confirman o revierten como una
// sola unidad.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		accountRepo repository.AccountRepository,
		walletTxRepo repository.WalletTransactionRepository,
		invoiceRepo repository.InvoiceRepository,
		serviceRepo repository.ServiceRepository,
		inventoryRepo repository.InventoryRepository,
	) error) error
}

// PDFGenerator genera la representación PDF de una factura (puerto hacia
// infraestructura; la implementación usa maroto).
type PDFGenerator interface {
	GenerateInvoicePDF(in InvoicePDFInput) ([]byte, error)
}
