package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careflow/hms-api/internal/application/billing"
	"github.com/careflow/hms-api/internal/application/dto"
	"github.com/careflow/hms-api/internal/domain"
	"github.com/careflow/hms-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Escenario base: un paciente, dos servicios (uno con inventario vinculado) y
// un ítem de inventario con stock limitado.
// ──────────────────────────────────────────────────────────────────────────────

const (
	patientID   = "00000000-0000-0000-0000-0000000000aa"
	svcConsulta = "svc-consulta"
	svcJeringa  = "svc-inyeccion"
	itemJeringa = "inv-jeringas"
)

func seedBillingState() *billingState {
	s := newBillingState()
	s.users[patientID] = &entity.User{ID: patientID, Username: "ana", Role: entity.RolePatient, WalletBalance: dec("0")}
	s.services[svcConsulta] = &entity.Service{
		ID: svcConsulta, Name: "Consulta General", Category: "Consulta", Cost: dec("25.00"), IsActive: true,
	}
	s.services[svcJeringa] = &entity.Service{
		ID: svcJeringa, Name: "Inyección IM", Category: "Procedimiento", Cost: dec("10.00"), IsActive: true,
		LinkedInventoryItemID: itemJeringa,
	}
	s.inventory[itemJeringa] = &entity.InventoryItem{
		ID: itemJeringa, Name: "Jeringas 5ml", Unit: "unidad", CurrentStock: 5, LowStockThreshold: 10,
	}
	return s
}

func newCreateInvoiceUseCase(s *billingState) *billing.CreateInvoiceUseCase {
	return billing.NewCreateInvoiceUseCase(
		&memBillingTxRunner{s},
		&memInvoiceRepo{s},
		&memServiceRepo{s},
		&memAccountRepo{s},
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CreateInvoice
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateInvoice_TotalesYSnapshot(t *testing.T) {
	s := seedBillingState()
	uc := newCreateInvoiceUseCase(s)

	resp, err := uc.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		PatientID: patientID,
		DueDate:   "2026-09-30",
		Items: []dto.InvoiceLineRequest{
			{ServiceID: svcConsulta, Quantity: 2}, // 2 x 25.00 = 50.00
			{ServiceID: svcJeringa, Quantity: 1},  // 1 x 10.00 = 10.00
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "60.00", resp.TotalAmount, "total = suma de costo x cantidad por línea")
	assert.Equal(t, "0.00", resp.AmountPaid)
	assert.Equal(t, "60.00", resp.Outstanding)
	assert.Equal(t, entity.InvoiceStatusPending, resp.Status, "una factura nueva nace pendiente")

	// Las líneas llevan nombre y costo copiados del catálogo (snapshot)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Consulta General", resp.Items[0].ServiceName)
	assert.Equal(t, "25.00", resp.Items[0].CostPerUnit)
	assert.Equal(t, "50.00", resp.Items[0].Subtotal)

	// El inventario vinculado se descontó
	assert.Equal(t, 4, s.inventory[itemJeringa].CurrentStock, "la inyección consume 1 jeringa")

	// La factura y sus líneas quedaron persistidas
	assert.Len(t, s.invoices, 1)
	assert.Len(t, s.invItems, 2)
}

// El snapshot hace inmutables las facturas: subir el precio del catálogo después
// de facturar no cambia lo ya emitido.
func TestCreateInvoice_SnapshotInmuneACambiosDeCatalogo(t *testing.T) {
	s := seedBillingState()
	uc := newCreateInvoiceUseCase(s)

	resp, err := uc.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		PatientID: patientID,
		DueDate:   "2026-09-30",
		Items:     []dto.InvoiceLineRequest{{ServiceID: svcConsulta, Quantity: 1}},
	})
	require.NoError(t, err)

	s.services[svcConsulta].Cost = dec("99.00")

	queryUC := billing.NewInvoiceQueryUseCase(&memInvoiceRepo{s}, &memAccountRepo{s}, nil)
	got, err := queryUC.GetInvoice(context.Background(), resp.ID, patientID, false)
	require.NoError(t, err)
	assert.Equal(t, "25.00", got.Items[0].CostPerUnit, "la línea conserva el costo al momento de facturar")
	assert.Equal(t, "25.00", got.TotalAmount)
}

// Stock insuficiente en cualquier línea revierte la factura completa, incluidas
// las líneas y descuentos ya aplicados.
func TestCreateInvoice_StockInsuficiente_RollbackTotal(t *testing.T) {
	s := seedBillingState()
	uc := newCreateInvoiceUseCase(s)

	_, err := uc.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		PatientID: patientID,
		DueDate:   "2026-09-30",
		Items: []dto.InvoiceLineRequest{
			{ServiceID: svcConsulta, Quantity: 1},
			{ServiceID: svcJeringa, Quantity: 6}, // solo hay 5
		},
	})
	require.Error(t, err)
	assert.True(t, domain.IsInsufficientStock(err), "debe ser un error de stock insuficiente, fue: %v", err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Jeringas 5ml", stockErr.ItemName)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Requested)

	// Nada quedó persistido: ni cabecera, ni líneas, ni descuento de stock
	assert.Empty(t, s.invoices, "la cabecera no debe persistir")
	assert.Empty(t, s.invItems, "las líneas no deben persistir")
	assert.Equal(t, 5, s.inventory[itemJeringa].CurrentStock, "el stock no debe cambiar")
}

// Cantidad <= 0 se normaliza a 1 (el formulario envía 0 cuando el campo queda vacío).
func TestCreateInvoice_CantidadNoPositiva_SeNormalizaAUno(t *testing.T) {
	s := seedBillingState()
	uc := newCreateInvoiceUseCase(s)

	resp, err := uc.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		PatientID: patientID,
		DueDate:   "2026-09-30",
		Items:     []dto.InvoiceLineRequest{{ServiceID: svcJeringa, Quantity: 0}},
	})
	require.NoError(t, err)

	assert.Equal(t, "10.00", resp.TotalAmount)
	assert.Equal(t, 1, resp.Items[0].Quantity)
	assert.Equal(t, 4, s.inventory[itemJeringa].CurrentStock, "se descuenta exactamente 1")
}

// Un ID de servicio que no resuelve se omite en silencio; el resto se factura.
func TestCreateInvoice_ServicioInexistente_SeOmite(t *testing.T) {
	s := seedBillingState()
	uc := newCreateInvoiceUseCase(s)

	resp, err := uc.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		PatientID: patientID,
		DueDate:   "2026-09-30",
		Items: []dto.InvoiceLineRequest{
			{ServiceID: "svc-fantasma", Quantity: 1},
			{ServiceID: svcConsulta, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "25.00", resp.TotalAmount, "solo la línea resuelta suma al total")
	assert.Len(t, resp.Items, 1)
}

func TestCreateInvoice_EntradaInvalida(t *testing.T) {
	s := seedBillingState()
	uc := newCreateInvoiceUseCase(s)

	cases := []struct {
		name string
		req  dto.CreateInvoiceRequest
	}{
		{"sin paciente", dto.CreateInvoiceRequest{DueDate: "2026-09-30", Items: []dto.InvoiceLineRequest{{ServiceID: svcConsulta}}}},
		{"sin fecha", dto.CreateInvoiceRequest{PatientID: patientID, Items: []dto.InvoiceLineRequest{{ServiceID: svcConsulta}}}},
		{"fecha malformada", dto.CreateInvoiceRequest{PatientID: patientID, DueDate: "30/09/2026", Items: []dto.InvoiceLineRequest{{ServiceID: svcConsulta}}}},
		{"sin items", dto.CreateInvoiceRequest{PatientID: patientID, DueDate: "2026-09-30"}},
		{"item sin service_id", dto.CreateInvoiceRequest{PatientID: patientID, DueDate: "2026-09-30", Items: []dto.InvoiceLineRequest{{Quantity: 1}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateInvoice(context.Background(), tc.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, s.invoices, "ninguna entrada inválida debe dejar rastro")
}

func TestCreateInvoice_PacienteInexistente(t *testing.T) {
	s := seedBillingState()
	uc := newCreateInvoiceUseCase(s)

	_, err := uc.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		PatientID: "no-existe",
		DueDate:   "2026-09-30",
		Items:     []dto.InvoiceLineRequest{{ServiceID: svcConsulta, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
