package repository

import (
	"context"

	"github.com/careflow/hms-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AccountRepository define el puerto de persistencia para User y su billetera (DIP).
type AccountRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetBalanceForUpdate bloquea la fila del usuario (SELECT FOR UPDATE) y devuelve
	// el saldo actual. El lock se mantiene hasta el fin de la transacción en curso.
	GetBalanceForUpdate(ctx context.Context, userID string) (decimal.Decimal, error)
	// GetBalance lee el saldo sin bloqueo (solo lectura, fuera de mutaciones).
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	// AddToBalance aplica un delta con signo al saldo (UPDATE ... wallet_balance + $1)
	// y devuelve el saldo resultante.
	AddToBalance(ctx context.Context, userID string, delta decimal.Decimal) (decimal.Decimal, error)
}
