package billing

import (
	"context"

	"github.com/careflow/hms-api/internal/application/dto"
	"github.com/careflow/hms-api/internal/domain"
	"github.com/careflow/hms-api/internal/domain/entity"
	"github.com/careflow/hms-api/internal/domain/repository"
)

// InvoiceQueryUseCase lecturas de facturación: detalle con líneas, listados y
// saldo pendiente agregado. Solo lectura, fuera de transacciones.
type InvoiceQueryUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	accountRepo  repository.AccountRepository
	pdfGenerator PDFGenerator
}

// NewInvoiceQueryUseCase construye el caso de uso de consultas.
func NewInvoiceQueryUseCase(
	invoiceRepo repository.InvoiceRepository,
	accountRepo repository.AccountRepository,
	pdfGenerator PDFGenerator,
) *InvoiceQueryUseCase {
	return &InvoiceQueryUseCase{invoiceRepo: invoiceRepo, accountRepo: accountRepo, pdfGenerator: pdfGenerator}
}

// GetInvoice devuelve la factura con sus líneas. Los no-admin solo ven sus
// propias facturas (ErrInvoiceNotFound si no existe, ErrUnauthorized si es ajena).
func (uc *InvoiceQueryUseCase) GetInvoice(ctx context.Context, invoiceID, userID string, isAdmin bool) (*dto.InvoiceResponse, error) {
	inv, items, err := uc.fetchAuthorized(ctx, invoiceID, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// ListInvoices admin = todas; paciente = solo las propias.
func (uc *InvoiceQueryUseCase) ListInvoices(ctx context.Context, userID string, isAdmin bool) ([]dto.InvoiceResponse, error) {
	var invoices []*entity.Invoice
	var err error
	if isAdmin {
		invoices, err = uc.invoiceRepo.ListAll(ctx)
	} else {
		invoices, err = uc.invoiceRepo.ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, *toInvoiceResponse(inv, nil))
	}
	return out, nil
}

// OutstandingBalance suma total_amount - amount_paid sobre las facturas no pagadas
// del usuario, formateado a 2 decimales.
func (uc *InvoiceQueryUseCase) OutstandingBalance(ctx context.Context, userID string) (string, error) {
	total, err := uc.invoiceRepo.OutstandingBalanceByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return total.StringFixed(2), nil
}

// InvoicePDF genera el recibo PDF de la factura (mismas reglas de acceso que GetInvoice).
func (uc *InvoiceQueryUseCase) InvoicePDF(ctx context.Context, invoiceID, userID string, isAdmin bool) ([]byte, error) {
	inv, items, err := uc.fetchAuthorized(ctx, invoiceID, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	patient, err := uc.accountRepo.GetByID(ctx, inv.UserID)
	if err != nil {
		return nil, err
	}
	patientName := ""
	if patient != nil {
		patientName = patient.Username
	}
	in := InvoicePDFInput{
		InvoiceID:   inv.ID,
		PatientName: patientName,
		DueDate:     inv.DueDate.Format("2006-01-02"),
		TotalAmount: inv.TotalAmount.StringFixed(2),
		AmountPaid:  inv.AmountPaid.StringFixed(2),
		Outstanding: inv.Outstanding().StringFixed(2),
		Status:      inv.Status,
	}
	for _, it := range items {
		in.Lines = append(in.Lines, InvoicePDFLine{
			ServiceName: it.ServiceName,
			CostPerUnit: it.CostPerUnit.StringFixed(2),
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal().StringFixed(2),
		})
	}
	return uc.pdfGenerator.GenerateInvoicePDF(in)
}

func (uc *InvoiceQueryUseCase) fetchAuthorized(ctx context.Context, invoiceID, userID string, isAdmin bool) (*entity.Invoice, []*entity.InvoiceItem, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, domain.ErrInvoiceNotFound
	}
	if !isAdmin && inv.UserID != userID {
		return nil, nil, domain.ErrUnauthorized
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	return inv, items, nil
}

// InvoicePDFLine una línea del recibo PDF (montos ya formateados).
type InvoicePDFLine struct {
	ServiceName string
	CostPerUnit string
	Quantity    int
	Subtotal    string
}

// InvoicePDFInput datos planos para la representación PDF de la factura.
type InvoicePDFInput struct {
	InvoiceID   string
	PatientName string
	DueDate     string
	TotalAmount string
	AmountPaid  string
	Outstanding string
	Status      string
	Lines       []InvoicePDFLine
}
