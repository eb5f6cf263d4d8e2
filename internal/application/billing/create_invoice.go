package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/careflow/hms-api/internal/application/dto"
	appinventory "github.com/careflow/hms-api/internal/application/inventory"
	"github.com/careflow/hms-api/internal/domain"
	"github.com/careflow/hms-api/internal/domain/entity"
	"github.com/careflow/hms-api/internal/domain/repository"
)

// CreateInvoiceUseCase genera una factura desde el catálogo de servicios y
// descuenta el inventario vinculado en una sola transacción: o persisten la
// cabecera, todas las líneas y todos los descuentos de stock, o nada.
type CreateInvoiceUseCase struct {
	txRunner    BillingTxRunner
	invoiceRepo repository.InvoiceRepository
	serviceRepo repository.ServiceRepository
	accountRepo repository.AccountRepository
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	serviceRepo repository.ServiceRepository,
	accountRepo repository.AccountRepository,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		serviceRepo: serviceRepo,
		accountRepo: accountRepo,
	}
}

// CreateInvoice orquesta la generación de la factura:
//  1. Resuelve los servicios solicitados en un solo lote.
//  2. Inserta la cabecera con total 0 (placeholder).
//  3. Por cada línea, en orden de entrada: inserta el ítem con nombre y costo
//     snapshot, acumula el total y, si el servicio tiene inventario vinculado,
//     reserva stock bajo lock (un fallo aborta toda la transacción).
//  4. Actualiza el total final y confirma.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.PatientID == "" || in.DueDate == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	dueDate, err := time.Parse("2006-01-02", in.DueDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	patient, err := uc.accountRepo.GetByID(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, domain.ErrUserNotFound
	}
	for _, item := range in.Items {
		if item.ServiceID == "" {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:          uuid.New().String(),
		UserID:      in.PatientID,
		DueDate:     dueDate,
		TotalAmount: decimal.Zero,
		AmountPaid:  decimal.Zero,
		Status:      entity.InvoiceStatusPending,
		CreatedAt:   now,
	}
	var items []*entity.InvoiceItem

	err = uc.txRunner.RunBilling(ctx, func(
		_ repository.AccountRepository,
		_ repository.WalletTransactionRepository,
		invoiceRepo repository.InvoiceRepository,
		serviceRepo repository.ServiceRepository,
		inventoryRepo repository.InventoryRepository,
	) error {
		// Resolución en lote de los servicios (nombre, costo, inventario vinculado)
		ids := make([]string, 0, len(in.Items))
		for _, item := range in.Items {
			ids = append(ids, item.ServiceID)
		}
		services, err := serviceRepo.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}

		// Cabecera con total 0; se finaliza tras sumar las líneas
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range in.Items {
			svc, ok := services[line.ServiceID]
			if !ok {
				// Servicio no resuelto: se omite (entrada ya validada río arriba)
				continue
			}
			qty := line.Quantity
			if qty <= 0 {
				qty = 1
			}
			item := &entity.InvoiceItem{
				ID:          uuid.New().String(),
				InvoiceID:   inv.ID,
				ServiceName: svc.Name,
				CostPerUnit: svc.Cost,
				Quantity:    qty,
			}
			if err := invoiceRepo.CreateItem(ctx, item); err != nil {
				return err
			}
			total = total.Add(item.Subtotal())
			items = append(items, item)

			// Descuento de inventario vinculado, bajo lock y en la misma tx:
			// stock insuficiente en una línea revierte las líneas anteriores.
			if svc.LinkedInventoryItemID != "" {
				if err := appinventory.ReserveStock(ctx, inventoryRepo, svc.LinkedInventoryItemID, qty); err != nil {
					return err
				}
			}
		}

		inv.TotalAmount = total
		return invoiceRepo.UpdateTotal(ctx, inv.ID, total)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:          inv.ID,
		UserID:      inv.UserID,
		DueDate:     inv.DueDate.Format("2006-01-02"),
		TotalAmount: inv.TotalAmount.StringFixed(2),
		AmountPaid:  inv.AmountPaid.StringFixed(2),
		Outstanding: inv.Outstanding().StringFixed(2),
		Status:      inv.Status,
		CreatedAt:   inv.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ServiceName: it.ServiceName,
			CostPerUnit: it.CostPerUnit.StringFixed(2),
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal().StringFixed(2),
		})
	}
	return resp
}
