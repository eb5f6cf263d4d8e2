package dto

import "time"

// InvoiceLineRequest un par (servicio, cantidad) del formulario de facturación.
type InvoiceLineRequest struct {
	ServiceID string `json:"service_id"`
	Quantity  int    `json:"quantity"`
}

// CreateInvoiceRequest cuerpo para generar una factura desde el catálogo.
type CreateInvoiceRequest struct {
	PatientID string               `json:"patient_id"`
	DueDate   string               `json:"due_date"` // YYYY-MM-DD
	Items     []InvoiceLineRequest `json:"items"`
}

// PaymentRequest cuerpo para aplicar un pago (parcial o total) a una factura.
type PaymentRequest struct {
	Amount string `json:"amount"`
}

// InvoiceItemResponse una línea de factura (valores snapshot).
type InvoiceItemResponse struct {
	ServiceName string `json:"service_name"`
	CostPerUnit string `json:"cost_per_unit"`
	Quantity    int    `json:"quantity"`
	Subtotal    string `json:"subtotal"`
}

// InvoiceResponse factura con totales formateados a 2 decimales.
type InvoiceResponse struct {
	ID          string                `json:"id"`
	UserID      string                `json:"user_id"`
	DueDate     string                `json:"due_date"`
	TotalAmount string                `json:"total_amount"`
	AmountPaid  string                `json:"amount_paid"`
	Outstanding string                `json:"outstanding"`
	Status      string                `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
	Items       []InvoiceItemResponse `json:"items,omitempty"`
}

// PaymentResponse resultado de aplicar un pago.
type PaymentResponse struct {
	InvoiceID   string `json:"invoice_id"`
	AmountPaid  string `json:"amount_paid"`
	Outstanding string `json:"outstanding"`
	Status      string `json:"status"`
}
