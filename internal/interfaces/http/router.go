package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sirizagaria/editorial-api/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DocumentoUC *billing.DocumentoUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Las lecturas son públicas (el panel
// las consume sin sesión); las escrituras requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	dteHandler := NewDTEHandler(deps.DocumentoUC)

	dteGroup := app.Group("/dte")

	// Lecturas. El orden importa: las rutas literales van antes que la
	// de clave compuesta :rutEmisor/:tipoDTE/:folio.
	dteGroup.Get("/", dteHandler.List)
	dteGroup.Get("/stats", dteHandler.Stats)
	dteGroup.Get("/pending/:uuid", dteHandler.GetPending)
	dteGroup.Get("/uuid/:uuid", dteHandler.GetByUUID)
	dteGroup.Get("/:rutEmisor/:tipoDTE/:folio", dteHandler.GetByFolio)

	// Escrituras (requieren Bearer Token)
	protected := dteGroup.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/", dteHandler.Create)
	protected.Post("/factura/create", dteHandler.CreateFactura)
	protected.Post("/factura-exenta/create", dteHandler.CreateFacturaExenta)
	protected.Post("/boleta/create", dteHandler.CreateBoleta)
	protected.Post("/boleta-exenta/create", dteHandler.CreateBoletaExenta)
	protected.Post("/guia/create", dteHandler.CreateGuia)
	protected.Post("/nota-credito/create", dteHandler.CreateNotaCredito)
	protected.Post("/nota-debito/create", dteHandler.CreateNotaDebito)
	protected.Post("/from-invoice", dteHandler.CreateFromInvoice)
	protected.Post("/from-shipping", dteHandler.CreateFromShipping)
	protected.Put("/:id/status", dteHandler.UpdateStatus)
}
