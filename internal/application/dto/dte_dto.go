package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sirizagaria/editorial-api/internal/domain/dte"
	"github.com/sirizagaria/editorial-api/internal/domain/entity"
)

// CreateDTERequest body de los endpoints de construcción por tipo
// (POST /dte/factura/create, /dte/boleta/create, etc.). Embebe el input del
// generador y agrega los enlaces opcionales a factura interna o despacho.
type CreateDTERequest struct {
	dte.DocumentoInput
	InvoiceID  string `json:"invoiceId,omitempty"`
	ShippingID string `json:"shippingId,omitempty"`
}

// RawDTERequest body de POST /dte: un documento candidato completo que
// salta los constructores por tipo. Folio debe venir en 0.
type RawDTERequest struct {
	DTE *dte.Documento `json:"DTE"`
}

// FromInvoiceRequest body de POST /dte/from-invoice.
type FromInvoiceRequest struct {
	InvoiceID    string `json:"invoiceId"`
	DocumentType string `json:"documentType,omitempty"` // factura | boleta (default factura)
}

// FromShippingRequest body de POST /dte/from-shipping.
type FromShippingRequest struct {
	ShippingID string `json:"shippingId"`
}

// UpdateStatusRequest body de PUT /dte/:id/status: el paso externo de envío
// al SII reporta el estado final, el folio asignado y el payload de éxito o
// error.
type UpdateStatusRequest struct {
	Status      string                 `json:"status"`
	Folio       int                    `json:"folio,omitempty"`
	SiiResponse map[string]interface{} `json:"siiResponse,omitempty"`
	SiiError    string                 `json:"siiError,omitempty"`
}

// DTEResponse documento en respuestas. CustomerName/InvoiceNumber/GuiaNumber
// se pueblan en listados y lecturas cuando el enlace existe.
type DTEResponse struct {
	ID               string           `json:"id"`
	UUID             string           `json:"uuid"`
	TipoDTE          int              `json:"tipoDTE"`
	Folio            int              `json:"folio"`
	Status           string           `json:"status"`
	RUTEmisor        string           `json:"rutEmisor"`
	RUTReceptor      string           `json:"rutReceptor"`
	CustomerID       string           `json:"customerId,omitempty"`
	CustomerName     string           `json:"customerName,omitempty"`
	InvoiceID        string           `json:"invoiceId,omitempty"`
	InvoiceNumber    string           `json:"invoiceNumber,omitempty"`
	ShippingID       string           `json:"shippingId,omitempty"`
	GuiaNumber       string           `json:"guiaNumber,omitempty"`
	FechaEmision     string           `json:"fechaEmision"`
	FechaVencimiento string           `json:"fechaVencimiento,omitempty"`
	MntNeto          decimal.Decimal  `json:"mntNeto,omitzero"`
	MntExe           decimal.Decimal  `json:"mntExe,omitzero"`
	TasaIVA          decimal.Decimal  `json:"tasaIVA,omitzero"`
	IVA              decimal.Decimal  `json:"iva,omitzero"`
	MntTotal         decimal.Decimal  `json:"mntTotal"`
	FormaPago        int              `json:"formaPago,omitempty"`
	Detalle          []dte.Detalle    `json:"detalle"`
	Transporte       *dte.Transporte  `json:"transporte,omitempty"`
	Referencia       []dte.Referencia `json:"referencia,omitempty"`
	DteJSON          *dte.Documento   `json:"dteJson,omitempty"`
	SiiError         string           `json:"siiError,omitempty"`
	ProcessedAt      *time.Time       `json:"processedAt,omitempty"`
	CreatedBy        string           `json:"createdBy,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// DTEEnvelope respuesta estándar {success, data, ...} para un documento.
type DTEEnvelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    *DTEResponse `json:"data"`
	UUID    string       `json:"uuid,omitempty"`
	Status  string       `json:"status,omitempty"`
	Folio   *int         `json:"folio,omitempty"`
}

// DTEListEnvelope respuesta de listado paginado.
type DTEListEnvelope struct {
	Success bool           `json:"success"`
	Data    []*DTEResponse `json:"data"`
	Meta    PageMeta       `json:"meta"`
}

// DTEStatsResponse agregado de documentos para el panel.
type DTEStatsResponse struct {
	TotalDocuments int             `json:"totalDocuments"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	TotalIVA       decimal.Decimal `json:"totalIVA"`
	ByTipoDTE      map[int]int     `json:"byTipoDTE"`
	ByStatus       map[string]int  `json:"byStatus"`
}

// StatsEnvelope respuesta de GET /dte/stats.
type StatsEnvelope struct {
	Success bool              `json:"success"`
	Data    *DTEStatsResponse `json:"data"`
}

// ToDTEResponse convierte el registro persistido a su DTO de respuesta.
func ToDTEResponse(d *entity.DTEDocument) *DTEResponse {
	if d == nil {
		return nil
	}
	resp := &DTEResponse{
		ID:            d.ID,
		UUID:          d.UUID,
		TipoDTE:       d.TipoDTE,
		Folio:         d.Folio,
		Status:        d.Status,
		RUTEmisor:     d.RUTEmisor,
		RUTReceptor:   d.RUTReceptor,
		CustomerID:    d.CustomerID,
		CustomerName:  d.CustomerName,
		InvoiceID:     d.InvoiceID,
		InvoiceNumber: d.InvoiceNumber,
		ShippingID:    d.ShippingID,
		GuiaNumber:    d.GuiaNumber,
		FechaEmision:  d.FechaEmision.Format("2006-01-02"),
		MntNeto:       d.MntNeto,
		MntExe:        d.MntExe,
		TasaIVA:       d.TasaIVA,
		IVA:           d.IVA,
		MntTotal:      d.MntTotal,
		FormaPago:     d.FormaPago,
		Detalle:       d.Detalle,
		Transporte:    d.Transporte,
		Referencia:    d.Referencia,
		DteJSON:       d.DteJSON,
		SiiError:      d.SiiError,
		ProcessedAt:   d.ProcessedAt,
		CreatedBy:     d.CreatedBy,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.FechaVencimiento != nil {
		resp.FechaVencimiento = d.FechaVencimiento.Format("2006-01-02")
	}
	return resp
}
