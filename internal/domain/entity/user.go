package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles de usuario del sistema.
const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// User representa una cuenta del sistema (paciente, médico o administrador).
// WalletBalance es el saldo de la billetera interna; nunca debe quedar negativo
// (invariante garantizado por el flujo lock-check-write del ledger, no por el esquema).
type User struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  string // bcrypt hash, nunca plano en dominio después de persistir
	Role          string
	WalletBalance decimal.Decimal
	CreatedAt     time.Time
}
