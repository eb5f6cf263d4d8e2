package dto

import "time"

// AmountRequest cuerpo para depósito/retiro. Amount llega como string decimal
// (ej. "50.00") y se parsea con shopspring/decimal en el handler.
type AmountRequest struct {
	Amount string `json:"amount"`
}

// AdjustRequest cuerpo para el ajuste administrativo de billetera.
// ActionType: "add" acredita, "subtract" debita.
type AdjustRequest struct {
	UserID     string `json:"user_id"`
	Amount     string `json:"amount"`
	Reason     string `json:"reason"`
	ActionType string `json:"action_type"`
}

// WalletTransactionDTO una entrada del historial de billetera.
type WalletTransactionDTO struct {
	ID          string    `json:"id"`
	Amount      string    `json:"amount"` // con signo, 2 decimales
	Type        string    `json:"type"`
	ReferenceID string    `json:"reference_id,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// WalletResponse saldo actual + últimas transacciones.
type WalletResponse struct {
	Balance      string                 `json:"balance"`
	Transactions []WalletTransactionDTO `json:"transactions"`
}

// BalanceResponse saldo resultante tras una mutación.
type BalanceResponse struct {
	Balance string `json:"balance"`
}
