package dte

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sirizagaria/editorial-api/pkg/sii"
)

// EmisorProfile perfil del emisor con el que se completan los documentos.
// Se carga una vez desde configuración al arranque y es inmutable; el caller
// puede sobreescribir cualquier campo por documento.
type EmisorProfile struct {
	RUT         string
	RazonSocial string
	Giro        string
	Acteco      []int
	Direccion   string
	Comuna      string
	Ciudad      string
	Email       string
}

// Generator construye los siete tipos de DTE que emite el back-office.
// Cada constructor arma el documento canónico, lo valida y devuelve el UUID
// interno generado junto al documento; nunca devuelve un documento inválido.
type Generator struct {
	emisor EmisorProfile
}

// NewGenerator construye el generador con el perfil del emisor.
func NewGenerator(emisor EmisorProfile) *Generator {
	return &Generator{emisor: emisor}
}

// NewUUID genera el identificador interno de un documento. Es independiente
// del folio: el folio lo asigna el SII después y queda en 0 al construir.
func (g *Generator) NewUUID() string {
	return uuid.New().String()
}

func (g *Generator) fechaEmision(in DocumentoInput) string {
	if in.FechaEmision != "" {
		return in.FechaEmision
	}
	return time.Now().Format("2006-01-02")
}

func pick(override, def string) string {
	if override != "" {
		return override
	}
	return def
}

func (g *Generator) buildEmisor(in DocumentoInput) Emisor {
	acteco := in.Acteco
	if len(acteco) == 0 {
		acteco = g.emisor.Acteco
	}
	if len(acteco) == 0 {
		acteco = []int{620200}
	}
	return Emisor{
		RUTEmisor:    sii.FormatRUT(pick(in.RutEmisor, g.emisor.RUT)),
		RznSoc:       pick(in.RazonSocialEmisor, g.emisor.RazonSocial),
		GiroEmis:     pick(in.GiroEmisor, g.emisor.Giro),
		Acteco:       acteco,
		DirOrigen:    pick(in.DirOrigen, g.emisor.Direccion),
		CmnaOrigen:   pick(in.CmnaOrigen, g.emisor.Comuna),
		CorreoEmisor: pick(in.CorreoEmisor, g.emisor.Email),
	}
}

func (g *Generator) buildReceptor(in DocumentoInput) Receptor {
	return Receptor{
		RUTRecep:    sii.FormatRUT(in.RutReceptor),
		RznSocRecep: in.RazonSocialReceptor,
		GiroRecep:   in.GiroReceptor,
		DirRecep:    in.DirReceptor,
		CmnaRecep:   in.CmnaReceptor,
	}
}

// buildTotalesAfecto arma los totales de un documento afecto a IVA. El IVA se
// deriva con CalculateIVA si no viene explícito, y el total se deriva como
// neto + IVA si no viene explícito; un total explícito inconsistente no se
// corrige, lo rechaza el validador.
func (g *Generator) buildTotalesAfecto(in DocumentoInput) Totales {
	tasa := in.TasaIVA
	if tasa.IsZero() {
		tasa = decimal.NewFromInt(sii.TasaIVADefecto)
	}
	iva := in.IVA
	if iva.IsZero() {
		iva = CalculateIVA(in.MntNeto, tasa)
	}
	total := in.MntTotal
	if total.IsZero() {
		total = in.MntNeto.Add(iva)
	}
	return Totales{MntNeto: in.MntNeto, TasaIVA: tasa, IVA: iva, MntTotal: total}
}

func (g *Generator) buildTotalesExento(in DocumentoInput) Totales {
	total := in.MntTotal
	if total.IsZero() {
		total = in.MntExe
	}
	return Totales{MntExe: in.MntExe, MntTotal: total}
}

func (g *Generator) validated(uuid string, doc *Documento) (string, *Documento, error) {
	if res := Validate(doc); !res.Valid {
		return "", nil, &ValidationError{Errors: res.Errors}
	}
	return uuid, doc, nil
}

// CreateFacturaElectronica construye una factura electrónica (tipo 33).
func (g *Generator) CreateFacturaElectronica(in DocumentoInput) (string, *Documento, error) {
	formaPago := in.FormaPago
	if formaPago == 0 {
		formaPago = sii.FormaPagoContado
	}

	emisor := g.buildEmisor(in)
	emisor.CiudadOrigen = pick(in.CiudadOrigen, g.emisor.Ciudad)
	if in.TelefonoEmisor != "" {
		emisor.Telefono = []string{in.TelefonoEmisor}
	}

	receptor := g.buildReceptor(in)
	receptor.CiudadRecep = in.CiudadReceptor
	receptor.CorreoRecep = in.CorreoReceptor

	doc := &Documento{
		Encabezado: Encabezado{
			IdDoc: IdDoc{
				TipoDTE: sii.TipoFacturaElectronica,
				Folio:   0,
				FchEmis: g.fechaEmision(in),
				FmaPago: formaPago,
				FchVenc: in.FechaVencimiento,
			},
			Emisor:   emisor,
			Receptor: receptor,
			Totales:  g.buildTotalesAfecto(in),
		},
		Detalle: FormatDetalle(in.Items),
	}
	return g.validated(g.NewUUID(), doc)
}

// CreateFacturaExenta construye una factura exenta de IVA (tipo 34).
func (g *Generator) CreateFacturaExenta(in DocumentoInput) (string, *Documento, error) {
	formaPago := in.FormaPago
	if formaPago == 0 {
		formaPago = sii.FormaPagoContado
	}

	emisor := g.buildEmisor(in)
	emisor.CiudadOrigen = pick(in.CiudadOrigen, g.emisor.Ciudad)

	receptor := g.buildReceptor(in)
	receptor.CiudadRecep = in.CiudadReceptor
	receptor.CorreoRecep = in.CorreoReceptor

	doc := &Documento{
		Encabezado: Encabezado{
			IdDoc: IdDoc{
				TipoDTE: sii.TipoFacturaExenta,
				Folio:   0,
				FchEmis: g.fechaEmision(in),
				FmaPago: formaPago,
				FchVenc: in.FechaVencimiento,
			},
			Emisor:   emisor,
			Receptor: receptor,
			Totales:  g.buildTotalesExento(in),
		},
		Detalle: FormatDetalleExento(in.Items),
	}
	return g.validated(g.NewUUID(), doc)
}

// CreateBoletaElectronica construye una boleta electrónica (tipo 39).
// La boleta omite fecha de vencimiento y los campos opcionales de contacto.
func (g *Generator) CreateBoletaElectronica(in DocumentoInput) (string, *Documento, error) {
	formaPago := in.FormaPago
	if formaPago == 0 {
		formaPago = sii.FormaPagoContado
	}

	doc := &Documento{
		Encabezado: Encabezado{
			IdDoc: IdDoc{
				TipoDTE: sii.TipoBoletaElectronica,
				Folio:   0,
				FchEmis: g.fechaEmision(in),
				FmaPago: formaPago,
			},
			Emisor:   g.buildEmisor(in),
			Receptor: g.buildReceptor(in),
			Totales:  g.buildTotalesAfecto(in),
		},
		Detalle: FormatDetalle(in.Items),
	}
	return g.validated(g.NewUUID(), doc)
}

// CreateBoletaExenta construye una boleta exenta (tipo 41).
func (g *Generator) CreateBoletaExenta(in DocumentoInput) (string, *Documento, error) {
	formaPago := in.FormaPago
	if formaPago == 0 {
		formaPago = sii.FormaPagoContado
	}

	doc := &Documento{
		Encabezado: Encabezado{
			IdDoc: IdDoc{
				TipoDTE: sii.TipoBoletaExenta,
				Folio:   0,
				FchEmis: g.fechaEmision(in),
				FmaPago: formaPago,
			},
			Emisor:   g.buildEmisor(in),
			Receptor: g.buildReceptor(in),
			Totales:  g.buildTotalesExento(in),
		},
		Detalle: FormatDetalleExento(in.Items),
	}
	return g.validated(g.NewUUID(), doc)
}

// CreateGuiaDespacho construye una guía de despacho (tipo 52) con su sección
// de transporte. El destino cae al domicilio del receptor si no viene aparte.
func (g *Generator) CreateGuiaDespacho(in DocumentoInput) (string, *Documento, error) {
	indTraslado := in.IndTraslado
	if indTraslado == 0 {
		indTraslado = sii.TrasladoVenta
	}

	transporte := &Transporte{
		Patente:      in.Patente,
		NombreChofer: in.NombreChofer,
		DirDest:      pick(in.DirDestino, in.DirReceptor),
		CmnaDest:     pick(in.CmnaDestino, in.CmnaReceptor),
		CiudadDest:   pick(in.CiudadDestino, in.CiudadReceptor),
	}
	if in.RutTransportista != "" {
		transporte.RUTTrans = sii.FormatRUT(in.RutTransportista)
	}
	if in.RutChofer != "" {
		transporte.RUTChofer = sii.FormatRUT(in.RutChofer)
	}

	doc := &Documento{
		Encabezado: Encabezado{
			IdDoc: IdDoc{
				TipoDTE:     sii.TipoGuiaDespacho,
				Folio:       0,
				FchEmis:     g.fechaEmision(in),
				IndTraslado: indTraslado,
			},
			Emisor:     g.buildEmisor(in),
			Receptor:   g.buildReceptor(in),
			Transporte: transporte,
			Totales:    g.buildTotalesAfecto(in),
		},
		Detalle: FormatDetalle(in.Items),
	}
	return g.validated(g.NewUUID(), doc)
}

// CreateNotaCredito construye una nota de crédito (tipo 61) con exactamente
// una referencia al documento que ajusta. FolioRef debe venir del caller: el
// documento original ya está numerado por el SII.
func (g *Generator) CreateNotaCredito(in DocumentoInput) (string, *Documento, error) {
	doc := &Documento{
		Encabezado: Encabezado{
			IdDoc: IdDoc{
				TipoDTE: sii.TipoNotaCredito,
				Folio:   0,
				FchEmis: g.fechaEmision(in),
			},
			Emisor:   g.buildEmisor(in),
			Receptor: g.buildReceptor(in),
			Totales:  g.buildTotalesAfecto(in),
		},
		Detalle:    FormatDetalle(in.Items),
		Referencia: []Referencia{g.buildReferencia(in, "Devolución de productos")},
	}
	return g.validated(g.NewUUID(), doc)
}

// CreateNotaDebito construye una nota de débito (tipo 56), con la misma
// estructura de referencia que la nota de crédito.
func (g *Generator) CreateNotaDebito(in DocumentoInput) (string, *Documento, error) {
	doc := &Documento{
		Encabezado: Encabezado{
			IdDoc: IdDoc{
				TipoDTE: sii.TipoNotaDebito,
				Folio:   0,
				FchEmis: g.fechaEmision(in),
			},
			Emisor:   g.buildEmisor(in),
			Receptor: g.buildReceptor(in),
			Totales:  g.buildTotalesAfecto(in),
		},
		Detalle:    FormatDetalle(in.Items),
		Referencia: []Referencia{g.buildReferencia(in, "Ajuste por diferencia de precio")},
	}
	return g.validated(g.NewUUID(), doc)
}

func (g *Generator) buildReferencia(in DocumentoInput, razonDefecto string) Referencia {
	tpoDocRef := in.TpoDocRef
	if tpoDocRef == 0 {
		tpoDocRef = sii.TipoFacturaElectronica
	}
	codRef := in.CodRef
	if codRef == 0 {
		codRef = sii.RefAnulaDocumento
	}
	return Referencia{
		NroLinRef: 1,
		TpoDocRef: tpoDocRef,
		FolioRef:  in.FolioRef,
		FchRef:    in.FchRef,
		CodRef:    codRef,
		RazonRef:  pick(in.RazonRef, razonDefecto),
	}
}
