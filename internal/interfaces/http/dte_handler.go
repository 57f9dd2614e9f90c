package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sirizagaria/editorial-api/internal/application/billing"
	"github.com/sirizagaria/editorial-api/internal/application/dto"
	"github.com/sirizagaria/editorial-api/internal/domain"
	"github.com/sirizagaria/editorial-api/internal/domain/dte"
	"github.com/sirizagaria/editorial-api/internal/domain/entity"
)

// DTEHandler maneja las peticiones HTTP de documentos tributarios.
type DTEHandler struct {
	uc *billing.DocumentoUseCase
}

// NewDTEHandler construye el handler.
func NewDTEHandler(uc *billing.DocumentoUseCase) *DTEHandler {
	return &DTEHandler{uc: uc}
}

// createdBy devuelve quién emite: el subject del token o "system" si la ruta
// corre sin token (no debería, las de escritura van protegidas).
func createdBy(c *fiber.Ctx) string {
	if userID := GetUserID(c); userID != "" {
		return userID
	}
	return "system"
}

// handleError traduce los errores del dominio a HTTP. Un documento inválido
// devuelve 422 con la lista completa de reglas incumplidas.
func handleError(c *fiber.Ctx, err error) error {
	var verr *dte.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(
			dto.NewErrorResponse("DTE Validation Error", verr.Errors...))
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.NewErrorResponse(err.Error()))
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.NewErrorResponse(err.Error()))
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse(err.Error()))
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.NewErrorResponse("documento duplicado"))
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.NewErrorResponse(err.Error()))
}

func created(c *fiber.Ctx, message string, rec *entity.DTEDocument) error {
	return c.Status(fiber.StatusCreated).JSON(dto.DTEEnvelope{
		Success: true,
		Message: message,
		Data:    dto.ToDTEResponse(rec),
		UUID:    rec.UUID,
		Status:  rec.Status,
	})
}

// Create persiste un documento candidato completo (folio debe venir en 0).
// POST /dte
func (h *DTEHandler) Create(c *fiber.Ctx) error {
	var in dto.RawDTERequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("cuerpo inválido"))
	}
	rec, err := h.uc.CreateDocumento(in, createdBy(c))
	if err != nil {
		return handleError(c, err)
	}
	return created(c, "DTE creado", rec)
}

// CreateFactura construye una factura electrónica (tipo 33).
// POST /dte/factura/create
func (h *DTEHandler) CreateFactura(c *fiber.Ctx) error {
	return h.create(c, h.uc.CreateFactura, "Factura electrónica generada")
}

// CreateFacturaExenta construye una factura exenta (tipo 34).
// POST /dte/factura-exenta/create
func (h *DTEHandler) CreateFacturaExenta(c *fiber.Ctx) error {
	return h.create(c, h.uc.CreateFacturaExenta, "Factura exenta generada")
}

// CreateBoleta construye una boleta electrónica (tipo 39).
// POST /dte/boleta/create
func (h *DTEHandler) CreateBoleta(c *fiber.Ctx) error {
	return h.create(c, h.uc.CreateBoleta, "Boleta electrónica generada")
}

// CreateBoletaExenta construye una boleta exenta (tipo 41).
// POST /dte/boleta-exenta/create
func (h *DTEHandler) CreateBoletaExenta(c *fiber.Ctx) error {
	return h.create(c, h.uc.CreateBoletaExenta, "Boleta exenta generada")
}

// CreateGuia construye una guía de despacho (tipo 52).
// POST /dte/guia/create
func (h *DTEHandler) CreateGuia(c *fiber.Ctx) error {
	return h.create(c, h.uc.CreateGuiaDespacho, "Guía de despacho generada")
}

// CreateNotaCredito construye una nota de crédito (tipo 61).
// POST /dte/nota-credito/create
func (h *DTEHandler) CreateNotaCredito(c *fiber.Ctx) error {
	return h.create(c, h.uc.CreateNotaCredito, "Nota de crédito generada")
}

// CreateNotaDebito construye una nota de débito (tipo 56).
// POST /dte/nota-debito/create
func (h *DTEHandler) CreateNotaDebito(c *fiber.Ctx) error {
	return h.create(c, h.uc.CreateNotaDebito, "Nota de débito generada")
}

func (h *DTEHandler) create(c *fiber.Ctx, fn func(dto.CreateDTERequest, string) (*entity.DTEDocument, error), message string) error {
	var in dto.CreateDTERequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("cuerpo inválido"))
	}
	rec, err := fn(in, createdBy(c))
	if err != nil {
		return handleError(c, err)
	}
	return created(c, message, rec)
}

// CreateFromInvoice deriva una factura o boleta desde una factura interna.
// POST /dte/from-invoice
func (h *DTEHandler) CreateFromInvoice(c *fiber.Ctx) error {
	var in dto.FromInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("cuerpo inválido"))
	}
	if in.InvoiceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("invoiceId requerido"))
	}
	rec, err := h.uc.CreateFromInvoice(in, createdBy(c))
	if err != nil {
		return handleError(c, err)
	}
	return created(c, "DTE generado desde factura interna", rec)
}

// CreateFromShipping deriva una guía de despacho desde un despacho.
// POST /dte/from-shipping
func (h *DTEHandler) CreateFromShipping(c *fiber.Ctx) error {
	var in dto.FromShippingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("cuerpo inválido"))
	}
	if in.ShippingID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("shippingId requerido"))
	}
	rec, err := h.uc.CreateFromShipping(in, createdBy(c))
	if err != nil {
		return handleError(c, err)
	}
	return created(c, "Guía de despacho generada desde despacho", rec)
}

// UpdateStatus aplica el resultado del envío al SII sobre un documento.
// PUT /dte/:id/status
func (h *DTEHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("cuerpo inválido"))
	}
	rec, err := h.uc.UpdateStatus(id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.DTEEnvelope{
		Success: true,
		Message: "Estado actualizado",
		Data:    dto.ToDTEResponse(rec),
		UUID:    rec.UUID,
		Status:  rec.Status,
		Folio:   &rec.Folio,
	})
}

// List lista documentos con filtros y paginación.
// GET /dte
func (h *DTEHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("parámetros inválidos"))
	}
	page.DefaultPage()

	filter := entity.DTEFilter{
		TipoDTE:    c.QueryInt("tipoDTE"),
		Status:     c.Query("status"),
		CustomerID: c.Query("customerId"),
	}

	docs, total, err := h.uc.List(filter, page)
	if err != nil {
		return handleError(c, err)
	}

	responses := make([]*dto.DTEResponse, 0, len(docs))
	for _, d := range docs {
		responses = append(responses, dto.ToDTEResponse(d))
	}
	lastPage := (total + page.Limit - 1) / page.Limit
	if lastPage < 1 {
		lastPage = 1
	}
	return c.JSON(dto.DTEListEnvelope{
		Success: true,
		Data:    responses,
		Meta: dto.PageMeta{
			Total:       total,
			PerPage:     page.Limit,
			CurrentPage: page.Page,
			LastPage:    lastPage,
		},
	})
}

// Stats devuelve el agregado para el panel.
// GET /dte/stats
func (h *DTEHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.uc.Stats()
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.StatsEnvelope{
		Success: true,
		Data: &dto.DTEStatsResponse{
			TotalDocuments: stats.TotalDocuments,
			TotalAmount:    stats.TotalAmount,
			TotalIVA:       stats.TotalIVA,
			ByTipoDTE:      stats.ByTipoDTE,
			ByStatus:       stats.ByStatus,
		},
	})
}

// GetPending consulta el estado de un documento por UUID (polling del paso
// de envío).
// GET /dte/pending/:uuid
func (h *DTEHandler) GetPending(c *fiber.Ctx) error {
	rec, err := h.uc.GetByUUID(c.Params("uuid"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.DTEEnvelope{
		Success: true,
		Data:    dto.ToDTEResponse(rec),
		UUID:    rec.UUID,
		Status:  rec.Status,
		Folio:   &rec.Folio,
	})
}

// GetByUUID obtiene un documento por UUID.
// GET /dte/uuid/:uuid
func (h *DTEHandler) GetByUUID(c *fiber.Ctx) error {
	rec, err := h.uc.GetByUUID(c.Params("uuid"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.DTEEnvelope{Success: true, Data: dto.ToDTEResponse(rec)})
}

// GetByFolio obtiene un documento por la clave natural (emisor, tipo, folio).
// GET /dte/:rutEmisor/:tipoDTE/:folio
func (h *DTEHandler) GetByFolio(c *fiber.Ctx) error {
	tipoDTE, err := strconv.Atoi(c.Params("tipoDTE"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("tipoDTE debe ser numérico"))
	}
	folio, err := strconv.Atoi(c.Params("folio"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("folio debe ser numérico"))
	}
	rec, err := h.uc.GetByFolio(c.Params("rutEmisor"), tipoDTE, folio)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.DTEEnvelope{Success: true, Data: dto.ToDTEResponse(rec)})
}
