package ledger

import (
	"context"

	"github.com/careflow/hms-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que la mutación de saldo y su registro de auditoría
// persisten juntos o no persisten.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		accountRepo repository.AccountRepository,
		walletTxRepo repository.WalletTransactionRepository,
	) error) error
}
