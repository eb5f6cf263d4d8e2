package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/careflow/hms-api/internal/application/dto"
	"github.com/careflow/hms-api/internal/application/ledger"
	"github.com/careflow/hms-api/internal/domain"
)

// WalletHandler maneja las peticiones HTTP de la billetera (protegido).
type WalletHandler struct {
	uc *ledger.UseCase
}

// NewWalletHandler construye el handler de billetera.
func NewWalletHandler(uc *ledger.UseCase) *WalletHandler {
	return &WalletHandler{uc: uc}
}

// GetWallet godoc
// @Summary      Saldo y movimientos recientes de la billetera
// @Tags         wallet
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.WalletResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/wallet [get]
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	wallet, err := h.uc.GetWallet(c.Context(), userID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(wallet)
}

// Deposit godoc
// @Summary      Depositar fondos en la billetera propia
// @Tags         wallet
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AmountRequest  true  "amount (decimal > 0)"
// @Success      200   {object}  dto.BalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/wallet/deposit [post]
func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	amount, ok := parseAmount(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "amount debe ser un decimal válido"})
	}
	balance, err := h.uc.Deposit(c.Context(), userID, amount)
	if err != nil {
		return walletError(c, err)
	}
	return c.JSON(dto.BalanceResponse{Balance: balance.StringFixed(2)})
}

// Withdraw godoc
// @Summary      Retirar fondos de la billetera propia
// @Tags         wallet
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AmountRequest  true  "amount (decimal > 0)"
// @Success      200   {object}  dto.BalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/wallet/withdraw [post]
func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	amount, ok := parseAmount(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "amount debe ser un decimal válido"})
	}
	balance, err := h.uc.Withdraw(c.Context(), userID, amount)
	if err != nil {
		return walletError(c, err)
	}
	return c.JSON(dto.BalanceResponse{Balance: balance.StringFixed(2)})
}

// Adjust godoc
// @Summary      Ajuste administrativo de una billetera ajena
// @Description  Acredita (add) o debita (subtract) la billetera de cualquier usuario
//
//	sin verificación de fondos. Queda auditado como "Admin Action (<reason>)".
//
// @Tags         wallet
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustRequest  true  "user_id, amount, reason, action_type (add|subtract)"
// @Success      200   {object}  dto.BalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/wallet/adjust [post]
func (h *WalletHandler) Adjust(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.UserID == "" || in.Amount == "" || in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "user_id, amount y reason son requeridos"})
	}
	amount, err := decimal.NewFromString(in.Amount)
	if err != nil || !amount.GreaterThan(decimal.Zero) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "amount debe ser un decimal > 0"})
	}
	switch in.ActionType {
	case "add":
		// positivo tal cual
	case "subtract":
		amount = amount.Neg()
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "action_type debe ser add o subtract"})
	}
	balance, err := h.uc.Adjust(c.Context(), in.UserID, amount, in.Reason, actorID)
	if err != nil {
		return walletError(c, err)
	}
	return c.JSON(dto.BalanceResponse{Balance: balance.StringFixed(2)})
}

// parseAmount lee el cuerpo {"amount": "..."} de depósito/retiro.
// La validación de signo ocurre en el caso de uso.
func parseAmount(c *fiber.Ctx) (decimal.Decimal, bool) {
	var in dto.AmountRequest
	if err := c.BodyParser(&in); err != nil {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(in.Amount)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// walletError mapea los errores de dominio del ledger a respuestas HTTP.
func walletError(c *fiber.Ctx, err error) error {
	if err == domain.ErrInvalidAmount {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "monto inválido"})
	}
	if err == domain.ErrInsufficientFunds {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_FUNDS", Message: "fondos insuficientes"})
	}
	if err == domain.ErrUserNotFound {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
