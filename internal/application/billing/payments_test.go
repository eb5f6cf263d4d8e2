package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careflow/hms-api/internal/application/billing"
	"github.com/careflow/hms-api/internal/domain"
	"github.com/careflow/hms-api/internal/domain/entity"
)

const (
	invoiceID  = "factura-001"
	otherUser  = "00000000-0000-0000-0000-0000000000bb"
	walletFull = "100.00"
)

// seedInvoice agrega una factura de 60.00 sin pagos al estado.
func seedInvoice(s *billingState, userID string) {
	s.invoices[invoiceID] = &entity.Invoice{
		ID:          invoiceID,
		UserID:      userID,
		DueDate:     time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		TotalAmount: dec("60.00"),
		AmountPaid:  dec("0"),
		Status:      entity.InvoiceStatusPending,
		CreatedAt:   time.Now(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ApplyPayment (pago externo, parcial o total)
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyPayment_ParcialDejaEstadoPartial(t *testing.T) {
	s := seedBillingState()
	seedInvoice(s, patientID)
	uc := billing.NewPaymentUseCase(&memBillingTxRunner{s})

	resp, err := uc.ApplyPayment(context.Background(), invoiceID, patientID, dec("20.00"))
	require.NoError(t, err)

	assert.Equal(t, "20.00", resp.AmountPaid)
	assert.Equal(t, "40.00", resp.Outstanding)
	assert.Equal(t, entity.InvoiceStatusPartial, resp.Status)

	// Auditoría: débito con referencia a la factura
	require.Len(t, s.walletTxs, 1)
	assert.Equal(t, entity.TransactionTypePayment, s.walletTxs[0].Type)
	assert.Equal(t, invoiceID, s.walletTxs[0].ReferenceID)
	assert.True(t, s.walletTxs[0].Amount.Equal(dec("-20.00")), "el pago se registra en negativo")
}

// El pago por el monto exacto pendiente debe marcar Paid: comparación decimal
// exacta, sin tolerancia de redondeo.
func TestApplyPayment_MontoExacto_MarcaPaid(t *testing.T) {
	s := seedBillingState()
	seedInvoice(s, patientID)
	uc := billing.NewPaymentUseCase(&memBillingTxRunner{s})

	_, err := uc.ApplyPayment(context.Background(), invoiceID, patientID, dec("20.00"))
	require.NoError(t, err)

	resp, err := uc.ApplyPayment(context.Background(), invoiceID, patientID, dec("40.00"))
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceStatusPaid, resp.Status, "60.00 pagados sobre 60.00 = Paid, sin epsilon")
	assert.Equal(t, "0.00", resp.Outstanding)
}

func TestApplyPayment_SobrepagoRechazado(t *testing.T) {
	s := seedBillingState()
	seedInvoice(s, patientID)
	uc := billing.NewPaymentUseCase(&memBillingTxRunner{s})

	_, err := uc.ApplyPayment(context.Background(), invoiceID, patientID, dec("60.01"))
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentAmount)

	inv := s.invoices[invoiceID]
	assert.True(t, inv.AmountPaid.IsZero(), "un pago rechazado no muta la factura")
	assert.Empty(t, s.walletTxs)
}

func TestApplyPayment_MontoNoPositivo(t *testing.T) {
	s := seedBillingState()
	seedInvoice(s, patientID)
	uc := billing.NewPaymentUseCase(&memBillingTxRunner{s})

	for _, amount := range []string{"0", "-10.00"} {
		_, err := uc.ApplyPayment(context.Background(), invoiceID, patientID, dec(amount))
		assert.ErrorIs(t, err, domain.ErrInvalidPaymentAmount, "monto %s debe rechazarse", amount)
	}
}

func TestApplyPayment_FacturaAjena(t *testing.T) {
	s := seedBillingState()
	seedInvoice(s, patientID)
	uc := billing.NewPaymentUseCase(&memBillingTxRunner{s})

	_, err := uc.ApplyPayment(context.Background(), invoiceID, otherUser, dec("10.00"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestApplyPayment_FacturaInexistente(t *testing.T) {
	s := seedBillingState()
	uc := billing.NewPaymentUseCase(&memBillingTxRunner{s})

	_, err := uc.ApplyPayment(context.Background(), "no-existe", patientID, dec("10.00"))
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests PayInvoiceFromWallet (pago completo con billetera interna)
// ──────────────────────────────────────────────────────────────────────────────

func TestPayInvoiceFromWallet_PagaSaldoCompleto(t *testing.T) {
	s := seedBillingState()
	seedInvoice(s, patientID)
	s.users[patientID].WalletBalance = dec(walletFull)
	uc := billing.NewPaymentUseCase(&memBillingTxRunner{s})

	resp, err := uc.PayInvoiceFromWallet(context.Background(), invoiceID, patientID)
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceStatusPaid, resp.Status)
	assert.Equal(t, "60.00", resp.AmountPaid)
	assert.Equal(t, "0.00", resp.Outstanding)

	assert.True(t, s.users[patientID].WalletBalance.Equal(dec("40.00")),
		"la billetera queda debitada por el pendiente exacto")
	require.Len(t, s.walletTxs, 1)
	assert.Equal(t, entity.TransactionTypePayment, s.walletTxs[0].Type)
	assert.Equal(t, invoiceID, s.walletTxs[0].ReferenceID)
}

// Paga lo pendiente, no el total: una factura parcialmente pagada solo debita el resto.
func TestPayInvoiceFromWallet_SoloDebitaElPendiente(t *testing.T) {
	s := seedBillingState()
	seedInvoice(s, patientID)
	s.invoices[invoiceID].AmountPaid = dec("45.00")
	s.invoices[invoiceID].Status = entity.InvoiceStatusPartial
	s.users[patientID].WalletBalance = dec("20.00")
	uc := billing.NewPaymentUseCase(&memBillingTxRunner{s})

	resp, err := uc.PayInvoiceFromWallet(context.Background(), invoiceID, patientID)
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceStatusPaid, resp.Status)
	assert.True(t, s.users[patientID].WalletBalance.Equal(dec("5.00")),
		"solo se debitan los 15.00 pendientes")
}

// Fondos insuficientes: ni débito ni factura pagada. Ambas escrituras viven en
// la misma transacción y se revierten juntas.
func TestPayInvoiceFromWallet_FondosInsuficientes_RollbackTotal(t *testing.T) {
	s := seedBillingState()
	seedInvoice(s, patientID)
	s.users[patientID].WalletBalance = dec("10.00")
	uc := billing.NewPaymentUseCase(&memBillingTxRunner{s})

	_, err := uc.PayInvoiceFromWallet(context.Background(), invoiceID, patientID)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	assert.True(t, s.users[patientID].WalletBalance.Equal(dec("10.00")), "la billetera no cambia")
	inv := s.invoices[invoiceID]
	assert.True(t, inv.AmountPaid.IsZero(), "la factura no cambia")
	assert.Equal(t, entity.InvoiceStatusPending, inv.Status)
	assert.Empty(t, s.walletTxs, "no queda registro del intento")
}

func TestPayInvoiceFromWallet_SinPendiente(t *testing.T) {
	s := seedBillingState()
	seedInvoice(s, patientID)
	s.invoices[invoiceID].AmountPaid = dec("60.00")
	s.invoices[invoiceID].Status = entity.InvoiceStatusPaid
	s.users[patientID].WalletBalance = dec(walletFull)
	uc := billing.NewPaymentUseCase(&memBillingTxRunner{s})

	_, err := uc.PayInvoiceFromWallet(context.Background(), invoiceID, patientID)
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentAmount, "una factura pagada no tiene nada por pagar")
}

func TestPayInvoiceFromWallet_FacturaAjena(t *testing.T) {
	s := seedBillingState()
	seedInvoice(s, patientID)
	uc := billing.NewPaymentUseCase(&memBillingTxRunner{s})

	_, err := uc.PayInvoiceFromWallet(context.Background(), invoiceID, otherUser)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
