// Package billing orquesta el ciclo de vida de los documentos tributarios:
// construcción, persistencia, derivación desde facturas y despachos, y el
// cambio de estado que reporta el paso externo de envío al SII.
package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sirizagaria/editorial-api/internal/application/dto"
	"github.com/sirizagaria/editorial-api/internal/domain"
	"github.com/sirizagaria/editorial-api/internal/domain/dte"
	"github.com/sirizagaria/editorial-api/internal/domain/entity"
	"github.com/sirizagaria/editorial-api/internal/domain/repository"
	"github.com/sirizagaria/editorial-api/pkg/logger"
	"github.com/sirizagaria/editorial-api/pkg/sii"
)

// DocumentoUseCase controla el ciclo de vida de los DTE. Los constructores
// nunca asignan folio (queda en 0) y todo documento nace en estado pending;
// el estado final, el folio y la respuesta del SII llegan después por
// UpdateStatus. Los enlaces a cliente, factura y despacho son de mejor
// esfuerzo: su ausencia o fallo se registra en el log pero no bloquea la
// emisión.
type DocumentoUseCase struct {
	dtes      repository.DTERepository
	customers repository.CustomerRepository
	invoices  repository.InvoiceRepository
	shippings repository.ShippingRepository
	generator *dte.Generator
	log       *logger.Logger
}

// NewDocumentoUseCase crea el caso de uso con sus dependencias.
func NewDocumentoUseCase(
	dtes repository.DTERepository,
	customers repository.CustomerRepository,
	invoices repository.InvoiceRepository,
	shippings repository.ShippingRepository,
	generator *dte.Generator,
	log *logger.Logger,
) *DocumentoUseCase {
	return &DocumentoUseCase{
		dtes:      dtes,
		customers: customers,
		invoices:  invoices,
		shippings: shippings,
		generator: generator,
		log:       log,
	}
}

// CreateDocumento persiste un documento candidato completo que el caller armó
// por su cuenta, saltando los constructores por tipo. Se valida igual que un
// documento construido: folio distinto de 0 o totales inconsistentes lo
// rechazan con la lista completa de reglas incumplidas.
func (uc *DocumentoUseCase) CreateDocumento(in dto.RawDTERequest, createdBy string) (*entity.DTEDocument, error) {
	if in.DTE == nil {
		return nil, fmt.Errorf("%w: objeto DTE requerido", domain.ErrInvalidInput)
	}
	if tipo := in.DTE.Encabezado.IdDoc.TipoDTE; tipo != 0 && !sii.ValidTipoDTE[tipo] {
		return nil, fmt.Errorf("%w: TipoDTE %d no reconocido por el SII", domain.ErrInvalidInput, tipo)
	}
	if res := dte.Validate(in.DTE); !res.Valid {
		return nil, &dte.ValidationError{Errors: res.Errors}
	}
	return uc.persist(uc.generator.NewUUID(), in.DTE, "", "", createdBy)
}

// CreateFactura construye y persiste una factura electrónica (tipo 33).
func (uc *DocumentoUseCase) CreateFactura(in dto.CreateDTERequest, createdBy string) (*entity.DTEDocument, error) {
	u, doc, err := uc.generator.CreateFacturaElectronica(in.DocumentoInput)
	if err != nil {
		return nil, err
	}
	return uc.persist(u, doc, in.InvoiceID, in.ShippingID, createdBy)
}

// CreateFacturaExenta construye y persiste una factura exenta (tipo 34).
func (uc *DocumentoUseCase) CreateFacturaExenta(in dto.CreateDTERequest, createdBy string) (*entity.DTEDocument, error) {
	u, doc, err := uc.generator.CreateFacturaExenta(in.DocumentoInput)
	if err != nil {
		return nil, err
	}
	return uc.persist(u, doc, in.InvoiceID, in.ShippingID, createdBy)
}

// CreateBoleta construye y persiste una boleta electrónica (tipo 39).
func (uc *DocumentoUseCase) CreateBoleta(in dto.CreateDTERequest, createdBy string) (*entity.DTEDocument, error) {
	u, doc, err := uc.generator.CreateBoletaElectronica(in.DocumentoInput)
	if err != nil {
		return nil, err
	}
	return uc.persist(u, doc, in.InvoiceID, in.ShippingID, createdBy)
}

// CreateBoletaExenta construye y persiste una boleta exenta (tipo 41).
func (uc *DocumentoUseCase) CreateBoletaExenta(in dto.CreateDTERequest, createdBy string) (*entity.DTEDocument, error) {
	u, doc, err := uc.generator.CreateBoletaExenta(in.DocumentoInput)
	if err != nil {
		return nil, err
	}
	return uc.persist(u, doc, in.InvoiceID, in.ShippingID, createdBy)
}

// CreateGuiaDespacho construye y persiste una guía de despacho (tipo 52).
// Si viene enlazada a un despacho, marca en él la guía generada; ese marcado
// es de mejor esfuerzo y su fallo no revierte la emisión.
func (uc *DocumentoUseCase) CreateGuiaDespacho(in dto.CreateDTERequest, createdBy string) (*entity.DTEDocument, error) {
	u, doc, err := uc.generator.CreateGuiaDespacho(in.DocumentoInput)
	if err != nil {
		return nil, err
	}
	rec, err := uc.persist(u, doc, in.InvoiceID, in.ShippingID, createdBy)
	if err != nil {
		return nil, err
	}
	if in.ShippingID != "" {
		if err := uc.shippings.MarkGuiaGenerated(in.ShippingID, rec.UUID); err != nil {
			uc.log.Warn().Err(err).
				Str("shipping_id", in.ShippingID).
				Str("dte_uuid", rec.UUID).
				Msg("no se pudo marcar la guía en el despacho")
		}
	}
	return rec, nil
}

// CreateNotaCredito construye y persiste una nota de crédito (tipo 61).
func (uc *DocumentoUseCase) CreateNotaCredito(in dto.CreateDTERequest, createdBy string) (*entity.DTEDocument, error) {
	u, doc, err := uc.generator.CreateNotaCredito(in.DocumentoInput)
	if err != nil {
		return nil, err
	}
	return uc.persist(u, doc, in.InvoiceID, in.ShippingID, createdBy)
}

// CreateNotaDebito construye y persiste una nota de débito (tipo 56).
func (uc *DocumentoUseCase) CreateNotaDebito(in dto.CreateDTERequest, createdBy string) (*entity.DTEDocument, error) {
	u, doc, err := uc.generator.CreateNotaDebito(in.DocumentoInput)
	if err != nil {
		return nil, err
	}
	return uc.persist(u, doc, in.InvoiceID, in.ShippingID, createdBy)
}

// CreateFromInvoice deriva una factura o boleta desde una factura interna ya
// registrada: receptor desde el cliente, montos y líneas desde la factura.
func (uc *DocumentoUseCase) CreateFromInvoice(in dto.FromInvoiceRequest, createdBy string) (*entity.DTEDocument, error) {
	inv, err := uc.invoices.GetByID(in.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("factura %s: %w", in.InvoiceID, domain.ErrNotFound)
	}
	cust, err := uc.customers.GetByID(inv.CustomerID)
	if err != nil {
		return nil, err
	}
	if cust == nil {
		return nil, fmt.Errorf("cliente de la factura %s: %w", in.InvoiceID, domain.ErrNotFound)
	}

	items := make([]dte.ItemInput, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dte.ItemInput{
			NmbItem:   it.Description,
			QtyItem:   it.Quantity,
			PrcItem:   it.UnitPrice,
			MontoItem: it.Total,
		})
	}

	req := dto.CreateDTERequest{
		DocumentoInput: dte.DocumentoInput{
			RutReceptor:         cust.RUT,
			RazonSocialReceptor: cust.Name,
			GiroReceptor:        giroOrDefault(cust.Giro),
			DirReceptor:         cust.Address,
			CmnaReceptor:        cust.Commune,
			CiudadReceptor:      cust.Region,
			CorreoReceptor:      cust.Email,
			MntNeto:             inv.Subtotal,
			TasaIVA:             inv.TaxRate,
			IVA:                 inv.Tax,
			MntTotal:            inv.Total,
			Items:               items,
		},
		InvoiceID: inv.ID,
	}

	switch in.DocumentType {
	case "", "factura":
		return uc.CreateFactura(req, createdBy)
	case "boleta":
		return uc.CreateBoleta(req, createdBy)
	default:
		return nil, fmt.Errorf("%w: documentType debe ser factura o boleta", domain.ErrInvalidInput)
	}
}

// CreateFromShipping deriva una guía de despacho desde un despacho registrado:
// receptor desde el cliente, destino y líneas desde el despacho. El monto de
// la guía es el costo de envío; las líneas van sin precio.
func (uc *DocumentoUseCase) CreateFromShipping(in dto.FromShippingRequest, createdBy string) (*entity.DTEDocument, error) {
	shp, err := uc.shippings.GetByID(in.ShippingID)
	if err != nil {
		return nil, err
	}
	if shp == nil {
		return nil, fmt.Errorf("despacho %s: %w", in.ShippingID, domain.ErrNotFound)
	}
	cust, err := uc.customers.GetByID(shp.CustomerID)
	if err != nil {
		return nil, err
	}
	if cust == nil {
		return nil, fmt.Errorf("cliente del despacho %s: %w", in.ShippingID, domain.ErrNotFound)
	}

	items := make([]dte.ItemInput, 0, len(shp.Items))
	for _, it := range shp.Items {
		items = append(items, dte.ItemInput{
			NmbItem: it.Description,
			QtyItem: it.Quantity,
		})
	}

	chofer := shp.Carrier
	if chofer == "" {
		chofer = "Transportista"
	}

	req := dto.CreateDTERequest{
		DocumentoInput: dte.DocumentoInput{
			RutReceptor:         cust.RUT,
			RazonSocialReceptor: cust.Name,
			GiroReceptor:        giroOrDefault(cust.Giro),
			DirReceptor:         cust.Address,
			CmnaReceptor:        cust.Commune,
			CiudadReceptor:      cust.Region,
			MntTotal:            shp.ShippingCost,
			Items:               items,
			Patente:             shp.TrackingNumber,
			NombreChofer:        chofer,
			DirDestino:          shp.ShippingAddress.Address,
			CmnaDestino:         shp.ShippingAddress.Commune,
			CiudadDestino:       shp.ShippingAddress.Region,
		},
		ShippingID: shp.ID,
	}
	return uc.CreateGuiaDespacho(req, createdBy)
}

// UpdateStatus aplica el resultado del envío al SII sobre un documento
// pendiente: estado final, folio asignado y respuesta o error. Los estados
// terminales congelan el documento: cualquier intento posterior devuelve
// ErrConflict sin tocar el registro.
func (uc *DocumentoUseCase) UpdateStatus(id string, in dto.UpdateStatusRequest) (*entity.DTEDocument, error) {
	if !entity.ValidStatus[in.Status] {
		return nil, fmt.Errorf("%w: status %q no reconocido", domain.ErrInvalidInput, in.Status)
	}
	rec, err := uc.dtes.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("documento %s: %w", id, domain.ErrNotFound)
	}
	if entity.IsTerminalStatus(rec.Status) {
		return nil, fmt.Errorf("documento en estado %s: %w", rec.Status, domain.ErrConflict)
	}

	now := time.Now()
	rec.Status = in.Status
	if in.Folio != 0 {
		rec.Folio = in.Folio
	}
	if in.SiiResponse != nil {
		rec.SiiResponse = in.SiiResponse
	}
	if in.SiiError != "" {
		rec.SiiError = in.SiiError
	}
	if in.Status == entity.StatusCompleted {
		rec.ProcessedAt = &now
	}
	rec.UpdatedAt = now

	if err := uc.dtes.UpdateStatus(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// GetByID busca un documento por su identificador de registro.
func (uc *DocumentoUseCase) GetByID(id string) (*entity.DTEDocument, error) {
	rec, err := uc.dtes.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("documento %s: %w", id, domain.ErrNotFound)
	}
	return rec, nil
}

// GetByUUID busca un documento por su UUID interno.
func (uc *DocumentoUseCase) GetByUUID(uuidStr string) (*entity.DTEDocument, error) {
	rec, err := uc.dtes.GetByUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("documento %s: %w", uuidStr, domain.ErrNotFound)
	}
	return rec, nil
}

// GetByFolio busca por la clave natural (emisor, tipo, folio). El RUT del
// emisor se normaliza (sin puntos ni guión) antes de consultar.
func (uc *DocumentoUseCase) GetByFolio(rutEmisor string, tipoDTE, folio int) (*entity.DTEDocument, error) {
	rec, err := uc.dtes.GetByFolio(sii.CleanRUT(rutEmisor), tipoDTE, folio)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("documento %s/%d/%d: %w", rutEmisor, tipoDTE, folio, domain.ErrNotFound)
	}
	return rec, nil
}

// List devuelve una página de documentos con el total para paginar.
func (uc *DocumentoUseCase) List(filter entity.DTEFilter, page dto.PageRequest) ([]*entity.DTEDocument, int, error) {
	page.DefaultPage()
	docs, err := uc.dtes.List(filter, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.dtes.Count(filter)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// Stats devuelve el agregado de documentos para el panel.
func (uc *DocumentoUseCase) Stats() (*entity.DTEStats, error) {
	return uc.dtes.Stats()
}

// persist materializa el documento validado como registro pendiente. El enlace
// al cliente por RUT o email es de mejor esfuerzo: si no hay coincidencia el
// documento queda sin enlazar y se emite igual.
func (uc *DocumentoUseCase) persist(uuidStr string, doc *dte.Documento, invoiceID, shippingID, createdBy string) (*entity.DTEDocument, error) {
	enc := doc.Encabezado

	fechaEmision, err := time.Parse("2006-01-02", enc.IdDoc.FchEmis)
	if err != nil {
		fechaEmision = time.Now()
	}
	var fechaVencimiento *time.Time
	if enc.IdDoc.FchVenc != "" {
		if t, err := time.Parse("2006-01-02", enc.IdDoc.FchVenc); err == nil {
			fechaVencimiento = &t
		}
	}

	now := time.Now()
	rec := &entity.DTEDocument{
		ID:               uuid.New().String(),
		UUID:             uuidStr,
		TipoDTE:          enc.IdDoc.TipoDTE,
		Folio:            0,
		Status:           entity.StatusPending,
		RUTEmisor:        sii.CleanRUT(enc.Emisor.RUTEmisor),
		RUTReceptor:      sii.CleanRUT(enc.Receptor.RUTRecep),
		InvoiceID:        invoiceID,
		ShippingID:       shippingID,
		FechaEmision:     fechaEmision,
		FechaVencimiento: fechaVencimiento,
		MntNeto:          enc.Totales.MntNeto,
		MntExe:           enc.Totales.MntExe,
		TasaIVA:          enc.Totales.TasaIVA,
		IVA:              enc.Totales.IVA,
		MntTotal:         enc.Totales.MntTotal,
		FormaPago:        enc.IdDoc.FmaPago,
		Detalle:          doc.Detalle,
		Transporte:       enc.Transporte,
		Referencia:       doc.Referencia,
		DteJSON:          doc,
		CreatedBy:        createdBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	cust, err := uc.customers.GetByRUTOrEmail(rec.RUTReceptor, enc.Receptor.CorreoRecep)
	if err != nil {
		uc.log.Warn().Err(err).
			Str("rut_receptor", rec.RUTReceptor).
			Msg("no se pudo buscar el cliente para enlazar el documento")
	} else if cust != nil {
		rec.CustomerID = cust.ID
		rec.CustomerName = cust.Name
	}

	if err := uc.dtes.Create(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func giroOrDefault(giro string) string {
	if giro != "" {
		return giro
	}
	return "Servicios"
}
