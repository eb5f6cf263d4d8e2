package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/careflow/hms-api/internal/application/dto"
	"github.com/careflow/hms-api/internal/application/ledger"
	"github.com/careflow/hms-api/internal/domain"
	"github.com/careflow/hms-api/internal/domain/entity"
	"github.com/careflow/hms-api/internal/domain/repository"
)

// PaymentUseCase aplica pagos a facturas: pago externo (parcial o total) y pago
// completo desde la billetera interna. Ambos flujos son transaccionales con lock
// de fila sobre la factura (y sobre la billetera cuando aplica).
type PaymentUseCase struct {
	txRunner BillingTxRunner
}

// NewPaymentUseCase construye el caso de uso de pagos.
func NewPaymentUseCase(txRunner BillingTxRunner) *PaymentUseCase {
	return &PaymentUseCase{txRunner: txRunner}
}

// ApplyPayment aplica una confirmación de pago externo a la factura.
// Valida 0 < amount ≤ saldo pendiente (releyendo los montos bajo lock para evitar
// carreras con pagos concurrentes), deriva el nuevo estado y registra la
// transacción de billetera con referencia a la factura.
func (uc *PaymentUseCase) ApplyPayment(ctx context.Context, invoiceID, userID string, amount decimal.Decimal) (*dto.PaymentResponse, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidPaymentAmount
	}
	var resp *dto.PaymentResponse
	err := uc.txRunner.RunBilling(ctx, func(
		_ repository.AccountRepository,
		walletTxRepo repository.WalletTransactionRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.ServiceRepository,
		_ repository.InventoryRepository,
	) error {
		inv, err := lockAndAuthorize(ctx, invoiceRepo, invoiceID, userID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(inv.Outstanding()) {
			return domain.ErrInvalidPaymentAmount
		}
		newPaid := inv.AmountPaid.Add(amount)
		newStatus := entity.DeriveStatus(inv.TotalAmount, newPaid)
		if err := invoiceRepo.UpdatePayment(ctx, inv.ID, newPaid, newStatus); err != nil {
			return err
		}
		// El pago se registra como débito contra la cuenta del usuario
		if err := walletTxRepo.Create(ctx, &entity.WalletTransaction{
			ID:          uuid.New().String(),
			UserID:      userID,
			Amount:      amount.Neg(),
			Type:        entity.TransactionTypePayment,
			ReferenceID: inv.ID,
			Description: fmt.Sprintf("Card payment for Invoice #%s", inv.ID),
			CreatedAt:   time.Now(),
		}); err != nil {
			return err
		}
		resp = &dto.PaymentResponse{
			InvoiceID:   inv.ID,
			AmountPaid:  newPaid.StringFixed(2),
			Outstanding: inv.TotalAmount.Sub(newPaid).StringFixed(2),
			Status:      newStatus,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// PayInvoiceFromWallet paga el saldo pendiente completo con la billetera interna.
// Débito de billetera y actualización de la factura viven en la misma transacción:
// si cualquiera falla, ambos se revierten (nunca queda un débito sin factura pagada
// ni una factura pagada sin débito).
func (uc *PaymentUseCase) PayInvoiceFromWallet(ctx context.Context, invoiceID, userID string) (*dto.PaymentResponse, error) {
	var resp *dto.PaymentResponse
	err := uc.txRunner.RunBilling(ctx, func(
		accountRepo repository.AccountRepository,
		walletTxRepo repository.WalletTransactionRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.ServiceRepository,
		_ repository.InventoryRepository,
	) error {
		inv, err := lockAndAuthorize(ctx, invoiceRepo, invoiceID, userID)
		if err != nil {
			return err
		}
		outstanding := inv.Outstanding()
		if !outstanding.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidPaymentAmount // nada pendiente por pagar
		}
		// Débito de billetera: lock-check-write + registro tipo Payment
		if _, err := ledger.PayFromWallet(
			ctx, accountRepo, walletTxRepo,
			userID, outstanding,
			inv.ID, fmt.Sprintf("Payment for Invoice #%s", inv.ID),
		); err != nil {
			return err
		}
		if err := invoiceRepo.UpdatePayment(ctx, inv.ID, inv.TotalAmount, entity.InvoiceStatusPaid); err != nil {
			return err
		}
		resp = &dto.PaymentResponse{
			InvoiceID:   inv.ID,
			AmountPaid:  inv.TotalAmount.StringFixed(2),
			Outstanding: decimal.Zero.StringFixed(2),
			Status:      entity.InvoiceStatusPaid,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// lockAndAuthorize bloquea la factura, verifica existencia y que pertenezca al usuario.
func lockAndAuthorize(ctx context.Context, invoiceRepo repository.InvoiceRepository, invoiceID, userID string) (*entity.Invoice, error) {
	inv, err := invoiceRepo.GetForUpdate(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInvoiceNotFound
	}
	if inv.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return inv, nil
}
