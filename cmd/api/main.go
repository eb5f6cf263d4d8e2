package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/careflow/hms-api/internal/application/auth"
	"github.com/careflow/hms-api/internal/application/billing"
	"github.com/careflow/hms-api/internal/application/catalog"
	"github.com/careflow/hms-api/internal/application/inventory"
	"github.com/careflow/hms-api/internal/application/ledger"
	infrapdf "github.com/careflow/hms-api/internal/infrastructure/pdf"
	"github.com/careflow/hms-api/internal/infrastructure/postgres"
	httpRouter "github.com/careflow/hms-api/internal/interfaces/http"
	"github.com/careflow/hms-api/pkg/config"
	"github.com/careflow/hms-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	accountRepo := postgres.NewAccountRepository(pool)
	walletTxRepo := postgres.NewWalletTransactionRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := ledger.NewUseCase(txRunner, accountRepo, walletTxRepo)
	createInvoiceUC := billing.NewCreateInvoiceUseCase(txRunner, invoiceRepo, serviceRepo, accountRepo)
	paymentUC := billing.NewPaymentUseCase(txRunner)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	invoiceQueryUC := billing.NewInvoiceQueryUseCase(invoiceRepo, accountRepo, pdfGenerator)
	inventoryUC := inventory.NewUseCase(inventoryRepo)
	catalogUC := catalog.NewUseCase(serviceRepo)
	authUC := auth.NewAuthUseCase(accountRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		LedgerUC:      ledgerUC,
		CreateInvoice: createInvoiceUC,
		PaymentUC:     paymentUC,
		InvoiceQuery:  invoiceQueryUC,
		InventoryUC:   inventoryUC,
		CatalogUC:     catalogUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
