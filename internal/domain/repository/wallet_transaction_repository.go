package repository

import (
	"context"

	"github.com/careflow/hms-api/internal/domain/entity"
)

// WalletTransactionRepository define el puerto para el historial de billetera.
// Append-only: solo Create y lecturas; nunca update ni delete.
type WalletTransactionRepository interface {
	Create(ctx context.Context, tx *entity.WalletTransaction) error
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]*entity.WalletTransaction, error)
}
