package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/careflow/hms-api/internal/application/dto"
	"github.com/careflow/hms-api/internal/domain"
	"github.com/careflow/hms-api/internal/domain/entity"
	"github.com/careflow/hms-api/internal/domain/repository"
)

// UseCase implementa las primitivas del ledger: depósito, retiro, ajuste admin y
// pago desde billetera. Cada operación muta el saldo y crea su WalletTransaction
// en una sola transacción (lock-check-write con SELECT FOR UPDATE en débitos).
type UseCase struct {
	txRunner     TxRunner
	accountRepo  repository.AccountRepository
	walletTxRepo repository.WalletTransactionRepository
}

// NewUseCase construye el caso de uso del ledger.
func NewUseCase(
	txRunner TxRunner,
	accountRepo repository.AccountRepository,
	walletTxRepo repository.WalletTransactionRepository,
) *UseCase {
	return &UseCase{txRunner: txRunner, accountRepo: accountRepo, walletTxRepo: walletTxRepo}
}

// Deposit acredita amount (> 0) a la billetera y registra la transacción.
// Devuelve el saldo resultante.
func (uc *UseCase) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	var newBalance decimal.Decimal
	err := uc.txRunner.Run(ctx, func(
		accountRepo repository.AccountRepository,
		walletTxRepo repository.WalletTransactionRepository,
	) error {
		balance, err := accountRepo.AddToBalance(ctx, userID, amount)
		if err != nil {
			return err
		}
		newBalance = balance
		return walletTxRepo.Create(ctx, &entity.WalletTransaction{
			ID:          uuid.New().String(),
			UserID:      userID,
			Amount:      amount,
			Type:        entity.TransactionTypeDeposit,
			Description: "Funds deposited into wallet.",
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// Withdraw debita amount (> 0) de la billetera. Bloquea la fila del usuario,
// verifica fondos (ErrInsufficientFunds si amount > saldo) y escribe, todo antes
// de liberar el lock: dos retiros concurrentes no pueden gastar el mismo saldo.
func (uc *UseCase) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	var newBalance decimal.Decimal
	err := uc.txRunner.Run(ctx, func(
		accountRepo repository.AccountRepository,
		walletTxRepo repository.WalletTransactionRepository,
	) error {
		balance, err := debitWithLock(ctx, accountRepo, userID, amount)
		if err != nil {
			return err
		}
		newBalance = balance
		return walletTxRepo.Create(ctx, &entity.WalletTransaction{
			ID:          uuid.New().String(),
			UserID:      userID,
			Amount:      amount.Neg(),
			Type:        entity.TransactionTypeWithdrawal,
			Description: "Funds withdrawn from wallet.",
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// Adjust aplica un monto con signo al saldo sin verificación de fondos
// (corrección administrativa). actorLabel identifica al admin que ejecutó la acción.
func (uc *UseCase) Adjust(ctx context.Context, userID string, amount decimal.Decimal, reason, actorLabel string) (decimal.Decimal, error) {
	if amount.IsZero() || reason == "" {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	var newBalance decimal.Decimal
	err := uc.txRunner.Run(ctx, func(
		accountRepo repository.AccountRepository,
		walletTxRepo repository.WalletTransactionRepository,
	) error {
		balance, err := accountRepo.AddToBalance(ctx, userID, amount)
		if err != nil {
			return err
		}
		newBalance = balance
		return walletTxRepo.Create(ctx, &entity.WalletTransaction{
			ID:          uuid.New().String(),
			UserID:      userID,
			Amount:      amount,
			Type:        entity.TransactionTypeAdjustment,
			ReferenceID: actorLabel,
			Description: fmt.Sprintf("Admin Action (%s)", reason),
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// PayFromWallet debita amount de la billetera con el mismo patrón lock-check-write
// que Withdraw, pero con tipo Payment y referencia a la operación que paga.
// Pensado para componerse dentro de la transacción de facturación: recibe los
// repositorios ya atados a la tx del llamador.
func PayFromWallet(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	walletTxRepo repository.WalletTransactionRepository,
	userID string,
	amount decimal.Decimal,
	referenceID, description string,
) (decimal.Decimal, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	newBalance, err := debitWithLock(ctx, accountRepo, userID, amount)
	if err != nil {
		return decimal.Zero, err
	}
	err = walletTxRepo.Create(ctx, &entity.WalletTransaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		Amount:      amount.Neg(),
		Type:        entity.TransactionTypePayment,
		ReferenceID: referenceID,
		Description: description,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// debitWithLock bloquea la fila del usuario, verifica fondos y resta.
// El lock se libera al commit/rollback de la transacción del llamador.
func debitWithLock(ctx context.Context, accountRepo repository.AccountRepository, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	balance, err := accountRepo.GetBalanceForUpdate(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.GreaterThan(balance) {
		return decimal.Zero, domain.ErrInsufficientFunds
	}
	return accountRepo.AddToBalance(ctx, userID, amount.Neg())
}

// GetWallet devuelve el saldo y las transacciones más recientes (solo lectura).
func (uc *UseCase) GetWallet(ctx context.Context, userID string) (*dto.WalletResponse, error) {
	balance, err := uc.accountRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := uc.walletTxRepo.ListRecentByUser(ctx, userID, 10)
	if err != nil {
		return nil, err
	}
	resp := &dto.WalletResponse{
		Balance:      balance.StringFixed(2),
		Transactions: make([]dto.WalletTransactionDTO, 0, len(txs)),
	}
	for _, t := range txs {
		resp.Transactions = append(resp.Transactions, dto.WalletTransactionDTO{
			ID:          t.ID,
			Amount:      t.Amount.StringFixed(2),
			Type:        t.Type,
			ReferenceID: t.ReferenceID,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
		})
	}
	return resp, nil
}
