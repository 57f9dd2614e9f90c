package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/sirizagaria/editorial-api/internal/application/billing"
	"github.com/sirizagaria/editorial-api/internal/domain/dte"
	"github.com/sirizagaria/editorial-api/internal/infrastructure/postgres"
	httpRouter "github.com/sirizagaria/editorial-api/internal/interfaces/http"
	"github.com/sirizagaria/editorial-api/pkg/config"
	"github.com/sirizagaria/editorial-api/pkg/logger"
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

	dteRepo := postgres.NewDTERepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	shippingRepo := postgres.NewShippingRepository(pool)

	generator := dte.NewGenerator(dte.EmisorProfile{
		RUT:         cfg.Emisor.RUT,
		RazonSocial: cfg.Emisor.RazonSocial,
		Giro:        cfg.Emisor.Giro,
		Acteco:      cfg.Emisor.Acteco,
		Direccion:   cfg.Emisor.Direccion,
		Comuna:      cfg.Emisor.Comuna,
		Ciudad:      cfg.Emisor.Ciudad,
		Email:       cfg.Emisor.Email,
	})

	documentoUC := billing.NewDocumentoUseCase(
		dteRepo, customerRepo, invoiceRepo, shippingRepo, generator, log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Editorial API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		DocumentoUC: documentoUC,
		JWTSecret:   cfg.JWT.Secret,
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
