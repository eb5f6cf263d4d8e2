package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careflow/hms-api/internal/application/billing"
	"github.com/careflow/hms-api/internal/application/ledger"
	"github.com/careflow/hms-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner and billing.BillingTxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ billing.BillingTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. El bracketing
// Begin/Commit/Rollback y la devolución de la conexión al pool están garantizados
// en todos los caminos (el Rollback diferido es un no-op tras Commit).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del ledger atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	accountRepo repository.AccountRepository,
	walletTxRepo repository.WalletTransactionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	accountRepo := NewAccountRepository(tx)
	walletTxRepo := NewWalletTransactionRepository(tx)

	if err := fn(accountRepo, walletTxRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunBilling inicia una transacción con todos los repos de facturación
// (cuenta + billetera + factura + catálogo + inventario) atados a la misma tx.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	accountRepo repository.AccountRepository,
	walletTxRepo repository.WalletTransactionRepository,
	invoiceRepo repository.InvoiceRepository,
	serviceRepo repository.ServiceRepository,
	inventoryRepo repository.InventoryRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	accountRepo := NewAccountRepository(tx)
	walletTxRepo := NewWalletTransactionRepository(tx)
	invoiceRepo := NewInvoiceRepository(tx)
	serviceRepo := NewServiceRepository(tx)
	inventoryRepo := NewInventoryRepository(tx)

	if err := fn(accountRepo, walletTxRepo, invoiceRepo, serviceRepo, inventoryRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
