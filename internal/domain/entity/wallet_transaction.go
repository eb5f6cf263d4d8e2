package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de billetera.
const (
	TransactionTypeDeposit    = "Deposit"
	TransactionTypeWithdrawal = "Withdrawal"
	TransactionTypePayment    = "Payment"
	TransactionTypeAdjustment = "Adjustment"
)

// WalletTransaction es el registro inmutable de auditoría de cada mutación de saldo.
// Convención de signo: positivo = crédito a la cuenta, negativo = débito.
// Append-only: nunca se actualiza ni se borra.
type WalletTransaction struct {
	ID          string
	UserID      string
	Amount      decimal.Decimal
	Type        string
	ReferenceID string // ej. id de factura en pagos, o usuario admin en ajustes
	Description string
	CreatedAt   time.Time
}
