package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/careflow/hms-api/internal/application/auth"
	"github.com/careflow/hms-api/internal/application/billing"
	"github.com/careflow/hms-api/internal/application/catalog"
	"github.com/careflow/hms-api/internal/application/inventory"
	"github.com/careflow/hms-api/internal/application/ledger"
	"github.com/careflow/hms-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	LedgerUC      *ledger.UseCase
	CreateInvoice *billing.CreateInvoiceUseCase
	PaymentUC     *billing.PaymentUseCase
	InvoiceQuery  *billing.InvoiceQueryUseCase
	InventoryUC   *inventory.UseCase
	CatalogUC     *catalog.UseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	staffOnly := RequireRole(entity.RoleAdmin, entity.RoleDoctor)

	// Wallet (protegido; ajuste solo admin)
	wallet := protected.Group("/wallet")
	walletHandler := NewWalletHandler(deps.LedgerUC)
	wallet.Get("/", walletHandler.GetWallet)
	wallet.Post("/deposit", walletHandler.Deposit)
	wallet.Post("/withdraw", walletHandler.Withdraw)
	wallet.Post("/adjust", adminOnly, walletHandler.Adjust)

	// Invoices (protegido; emisión solo personal clínico)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice, deps.PaymentUC, deps.InvoiceQuery)
	invoices.Post("/", staffOnly, invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/outstanding", invoiceHandler.Outstanding)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Post("/:id/payments", invoiceHandler.Pay)
	invoices.Post("/:id/pay-with-wallet", invoiceHandler.PayWithWallet)

	// Services (protegido; escritura solo admin)
	services := protected.Group("/services")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	services.Get("/", catalogHandler.List)
	services.Post("/", adminOnly, catalogHandler.Create)
	services.Delete("/:id", adminOnly, catalogHandler.Delete)

	// Inventory (solo admin)
	invGroup := protected.Group("/inventory", adminOnly)
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Post("/", inventoryHandler.Create)
	invGroup.Get("/", inventoryHandler.List)
	invGroup.Get("/low-stock-count", inventoryHandler.LowStockCount)
	invGroup.Put("/:id/stock", inventoryHandler.SetStock)
	invGroup.Delete("/:id", inventoryHandler.Delete)
}
