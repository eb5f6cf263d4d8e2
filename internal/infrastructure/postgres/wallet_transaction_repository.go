package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/careflow/hms-api/internal/domain/entity"
	"github.com/careflow/hms-api/internal/domain/repository"
)

var _ repository.WalletTransactionRepository = (*WalletTransactionRepo)(nil)

// WalletTransactionRepo implementación del historial de billetera (append-only).
type WalletTransactionRepo struct {
	q Querier
}

// NewWalletTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWalletTransactionRepository(q Querier) *WalletTransactionRepo {
	return &WalletTransactionRepo{q: q}
}

// Create inserta un registro de auditoría. Nunca hay update ni delete sobre esta tabla.
func (r *WalletTransactionRepo) Create(ctx context.Context, tx *entity.WalletTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	query := `
		INSERT INTO wallet_transactions (id, user_id, amount, transaction_type, reference_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.UserID, tx.Amount, tx.Type, nullIfEmpty(tx.ReferenceID), tx.Description, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet transaction: %w", err)
	}
	return nil
}

// ListRecentByUser devuelve las transacciones más recientes del usuario.
func (r *WalletTransactionRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]*entity.WalletTransaction, error) {
	query := `
		SELECT id, user_id, amount, transaction_type, reference_id, description, created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list wallet transactions: %w", err)
	}
	defer rows.Close()

	var out []*entity.WalletTransaction
	for rows.Next() {
		var t entity.WalletTransaction
		var refID *string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &refID, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet transaction: %w", err)
		}
		if refID != nil {
			t.ReferenceID = *refID
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// nullIfEmpty convierte "" a NULL para columnas opcionales.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
