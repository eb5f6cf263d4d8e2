package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/careflow/hms-api/internal/domain"
	"github.com/careflow/hms-api/internal/domain/entity"
	"github.com/careflow/hms-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación de AccountRepository sobre PostgreSQL (usable con pool o tx).
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador de cuentas. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// Create persiste un usuario nuevo.
func (r *AccountRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role, wallet_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role,
		user.WalletBalance, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID. Devuelve nil, nil si no existe.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, wallet_balance, created_at
		FROM users WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// FindByEmail obtiene un usuario por email. Devuelve nil, nil si no existe.
func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, wallet_balance, created_at
		FROM users WHERE email = $1`
	return r.scanOne(ctx, query, email)
}

// GetBalanceForUpdate lee el saldo bloqueando la fila (SELECT FOR UPDATE).
// El lock se mantiene hasta el commit/rollback de la transacción en curso.
func (r *AccountRepo) GetBalanceForUpdate(ctx context.Context, userID string) (decimal.Decimal, error) {
	query := `SELECT wallet_balance FROM users WHERE id = $1 FOR UPDATE`
	var balance decimal.Decimal
	err := r.q.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrUserNotFound
		}
		return decimal.Zero, fmt.Errorf("lock wallet balance: %w", err)
	}
	return balance, nil
}

// GetBalance lee el saldo sin bloqueo.
func (r *AccountRepo) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	query := `SELECT wallet_balance FROM users WHERE id = $1`
	var balance decimal.Decimal
	err := r.q.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrUserNotFound
		}
		return decimal.Zero, fmt.Errorf("get wallet balance: %w", err)
	}
	return balance, nil
}

// AddToBalance aplica un delta con signo al saldo y devuelve el saldo resultante.
func (r *AccountRepo) AddToBalance(ctx context.Context, userID string, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE users SET wallet_balance = wallet_balance + $1
		WHERE id = $2
		RETURNING wallet_balance`
	var balance decimal.Decimal
	err := r.q.QueryRow(ctx, query, delta, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrUserNotFound
		}
		return decimal.Zero, fmt.Errorf("update wallet balance: %w", err)
	}
	return balance, nil
}

func (r *AccountRepo) scanOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.WalletBalance, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
