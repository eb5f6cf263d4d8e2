package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/careflow/hms-api/internal/application/billing"
	"github.com/careflow/hms-api/internal/application/dto"
	"github.com/careflow/hms-api/internal/domain"
)

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
type InvoiceHandler struct {
	createUC  *billing.CreateInvoiceUseCase
	paymentUC *billing.PaymentUseCase
	queryUC   *billing.InvoiceQueryUseCase
}

// NewInvoiceHandler construye el handler de facturación.
func NewInvoiceHandler(
	createUC *billing.CreateInvoiceUseCase,
	paymentUC *billing.PaymentUseCase,
	queryUC *billing.InvoiceQueryUseCase,
) *InvoiceHandler {
	return &InvoiceHandler{createUC: createUC, paymentUC: paymentUC, queryUC: queryUC}
}

// Create godoc
// @Summary      Generar factura para un paciente
// @Description  Crea la factura desde el catálogo de servicios y descuenta el
//
//	inventario vinculado en una sola transacción.
//
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "patient_id, due_date (YYYY-MM-DD), items"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.createUC.CreateInvoice(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if err == domain.ErrUserNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "paciente no encontrado"})
		}
		if err == domain.ErrInventoryItemNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem de inventario vinculado no encontrado"})
		}
		if domain.IsInsufficientStock(err) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// List godoc
// @Summary      Listar facturas
// @Description  Admin ve todas; el resto solo las propias.
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.InvoiceResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	invoices, err := h.queryUC.ListInvoices(c.Context(), userID, IsAdmin(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(invoices)
}

// GetByID godoc
// @Summary      Detalle de una factura con sus líneas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	invoice, err := h.queryUC.GetInvoice(c.Context(), id, userID, IsAdmin(c))
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(invoice)
}

// Outstanding godoc
// @Summary      Saldo pendiente agregado del usuario autenticado
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/invoices/outstanding [get]
func (h *InvoiceHandler) Outstanding(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	total, err := h.queryUC.OutstandingBalance(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"outstanding": total})
}

// Pay godoc
// @Summary      Aplicar un pago externo (parcial o total) a una factura propia
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la factura"
// @Param        body  body  dto.PaymentRequest true  "amount (0 < amount <= saldo pendiente)"
// @Success      200   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments [post]
func (h *InvoiceHandler) Pay(c *fiber.Ctx) error {
	userID := GetUserID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	amount, err := decimal.NewFromString(in.Amount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "amount debe ser un decimal válido"})
	}
	resp, err := h.paymentUC.ApplyPayment(c.Context(), id, userID, amount)
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(resp)
}

// PayWithWallet godoc
// @Summary      Pagar el saldo pendiente completo con la billetera interna
// @Description  Débito de billetera y marca de factura pagada en una sola
//
//	transacción; fondos insuficientes revierten ambos.
//
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {object}  dto.PaymentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pay-with-wallet [post]
func (h *InvoiceHandler) PayWithWallet(c *fiber.Ctx) error {
	userID := GetUserID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	resp, err := h.paymentUC.PayInvoiceFromWallet(c.Context(), id, userID)
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(resp)
}

// PDF godoc
// @Summary      Recibo PDF de una factura
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	userID := GetUserID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	pdfBytes, err := h.queryUC.InvoicePDF(c.Context(), id, userID, IsAdmin(c))
	if err != nil {
		return invoiceError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="invoice-`+id+`.pdf"`)
	return c.Send(pdfBytes)
}

// invoiceError mapea los errores de dominio de facturación a respuestas HTTP.
func invoiceError(c *fiber.Ctx, err error) error {
	if err == domain.ErrInvoiceNotFound {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
	}
	if err == domain.ErrUnauthorized {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "la factura pertenece a otro usuario"})
	}
	if err == domain.ErrInvalidPaymentAmount {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PAYMENT", Message: "el monto excede el saldo pendiente o no hay nada por pagar"})
	}
	if err == domain.ErrInsufficientFunds {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_FUNDS", Message: "fondos insuficientes en la billetera"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
