// Package dte modela los Documentos Tributarios Electrónicos del SII (Chile):
// la estructura canónica del documento, los constructores por tipo y la
// validación estructural. Es lógica pura de dominio, sin I/O.
package dte

import "github.com/shopspring/decimal"

// Documento es el DTE canónico con la forma del esquema SII. Las secciones
// específicas por tipo (Transporte, Referencia) son opcionales: solo la guía
// de despacho lleva Transporte y solo las notas de crédito/débito llevan
// Referencia. En el API viaja envuelto en {"DTE": {...}}.
type Documento struct {
	Encabezado Encabezado   `json:"Encabezado"`
	Detalle    []Detalle    `json:"Detalle"`
	Referencia []Referencia `json:"Referencia,omitempty"`
}

// Encabezado agrupa identificación, partes y totales del documento.
type Encabezado struct {
	IdDoc      IdDoc       `json:"IdDoc"`
	Emisor     Emisor      `json:"Emisor"`
	Receptor   Receptor    `json:"Receptor"`
	Transporte *Transporte `json:"Transporte,omitempty"`
	Totales    Totales     `json:"Totales"`
}

// IdDoc identifica el documento. Folio debe ser siempre 0 al construir: la
// numeración es responsabilidad del SII y se registra después vía el cambio
// de estado, nunca del generador (así se evita la carrera del consecutivo).
type IdDoc struct {
	TipoDTE     int    `json:"TipoDTE"`
	Folio       int    `json:"Folio"`
	FchEmis     string `json:"FchEmis"` // YYYY-MM-DD
	FmaPago     int    `json:"FmaPago,omitempty"`
	FchVenc     string `json:"FchVenc,omitempty"`
	IndTraslado int    `json:"IndTraslado,omitempty"`
}

// Emisor datos del emisor del documento.
type Emisor struct {
	RUTEmisor    string   `json:"RUTEmisor"`
	RznSoc       string   `json:"RznSoc"`
	GiroEmis     string   `json:"GiroEmis"`
	Acteco       []int    `json:"Acteco"`
	DirOrigen    string   `json:"DirOrigen"`
	CmnaOrigen   string   `json:"CmnaOrigen"`
	CiudadOrigen string   `json:"CiudadOrigen,omitempty"`
	CorreoEmisor string   `json:"CorreoEmisor,omitempty"`
	Telefono     []string `json:"Telefono,omitempty"`
}

// Receptor datos del receptor (cliente) del documento.
type Receptor struct {
	RUTRecep    string `json:"RUTRecep"`
	RznSocRecep string `json:"RznSocRecep"`
	GiroRecep   string `json:"GiroRecep"`
	DirRecep    string `json:"DirRecep"`
	CmnaRecep   string `json:"CmnaRecep"`
	CiudadRecep string `json:"CiudadRecep,omitempty"`
	CorreoRecep string `json:"CorreoRecep,omitempty"`
}

// Transporte sección exclusiva de la guía de despacho (tipo 52).
type Transporte struct {
	Patente      string `json:"Patente,omitempty"`
	RUTTrans     string `json:"RUTTrans,omitempty"`
	RUTChofer    string `json:"RUTChofer,omitempty"`
	NombreChofer string `json:"NombreChofer,omitempty"`
	DirDest      string `json:"DirDest,omitempty"`
	CmnaDest     string `json:"CmnaDest,omitempty"`
	CiudadDest   string `json:"CiudadDest,omitempty"`
}

// Totales montos del documento en pesos chilenos (sin subunidad: los montos
// son enteros y las comparaciones de invariantes usan igualdad exacta).
type Totales struct {
	MntNeto  decimal.Decimal `json:"MntNeto,omitzero"`
	MntExe   decimal.Decimal `json:"MntExe,omitzero"`
	TasaIVA  decimal.Decimal `json:"TasaIVA,omitzero"`
	IVA      decimal.Decimal `json:"IVA,omitzero"`
	MntTotal decimal.Decimal `json:"MntTotal"`
}

// Detalle línea de detalle del documento (numeración posicional 1..N).
type Detalle struct {
	NroLinDet      int             `json:"NroLinDet"`
	NmbItem        string          `json:"NmbItem"`
	DscItem        string          `json:"DscItem,omitempty"`
	QtyItem        decimal.Decimal `json:"QtyItem"`
	UnmdItem       string          `json:"UnmdItem"`
	PrcItem        decimal.Decimal `json:"PrcItem"`
	DescuentoMonto decimal.Decimal `json:"DescuentoMonto,omitzero"`
	DescuentoPct   decimal.Decimal `json:"DescuentoPct,omitzero"`
	MontoItem      decimal.Decimal `json:"MontoItem"`
	IndExe         int             `json:"IndExe,omitempty"`
	CdgItem        []CodigoItem    `json:"CdgItem,omitempty"`
}

// CodigoItem par código/valor asociado a una línea (ej. ISBN del libro).
type CodigoItem struct {
	TpoCodigo string `json:"TpoCodigo"`
	VlrCodigo string `json:"VlrCodigo"`
}

// Referencia apunta al documento que una nota de crédito/débito ajusta.
// FolioRef es obligatorio: el documento referenciado ya debe estar numerado.
type Referencia struct {
	NroLinRef int    `json:"NroLinRef"`
	TpoDocRef int    `json:"TpoDocRef"`
	FolioRef  int    `json:"FolioRef"`
	FchRef    string `json:"FchRef,omitempty"`
	CodRef    int    `json:"CodRef"`
	RazonRef  string `json:"RazonRef"`
}

// ItemInput línea de detalle tal como la entrega el caller (campos opcionales
// se completan en FormatDetalle).
type ItemInput struct {
	NmbItem        string          `json:"nmbItem"`
	DscItem        string          `json:"dscItem,omitempty"`
	QtyItem        decimal.Decimal `json:"qtyItem,omitzero"`
	UnmdItem       string          `json:"unmdItem,omitempty"`
	PrcItem        decimal.Decimal `json:"prcItem,omitzero"`
	DescuentoMonto decimal.Decimal `json:"descuentoMonto,omitzero"`
	DescuentoPct   decimal.Decimal `json:"descuentoPct,omitzero"`
	MontoItem      decimal.Decimal `json:"montoItem,omitzero"`
	CdgItem        []CodigoItem    `json:"cdgItem,omitempty"`
}

// DocumentoInput datos crudos para los constructores. Los campos del emisor
// son overrides del perfil configurado; los del receptor van siempre del
// caller. Montos ausentes (cero) se derivan donde corresponde.
type DocumentoInput struct {
	FechaEmision     string `json:"fechaEmision,omitempty"`
	FechaVencimiento string `json:"fechaVencimiento,omitempty"`
	FormaPago        int    `json:"formaPago,omitempty"`
	IndTraslado      int    `json:"indTraslado,omitempty"`

	RutEmisor         string `json:"rutEmisor,omitempty"`
	RazonSocialEmisor string `json:"razonSocialEmisor,omitempty"`
	GiroEmisor        string `json:"giroEmisor,omitempty"`
	Acteco            []int  `json:"acteco,omitempty"`
	DirOrigen         string `json:"dirOrigen,omitempty"`
	CmnaOrigen        string `json:"cmnaOrigen,omitempty"`
	CiudadOrigen      string `json:"ciudadOrigen,omitempty"`
	CorreoEmisor      string `json:"correoEmisor,omitempty"`
	TelefonoEmisor    string `json:"telefonoEmisor,omitempty"`

	RutReceptor         string `json:"rutReceptor"`
	RazonSocialReceptor string `json:"razonSocialReceptor"`
	GiroReceptor        string `json:"giroReceptor"`
	DirReceptor         string `json:"dirReceptor"`
	CmnaReceptor        string `json:"cmnaReceptor"`
	CiudadReceptor      string `json:"ciudadReceptor,omitempty"`
	CorreoReceptor      string `json:"correoReceptor,omitempty"`

	MntNeto  decimal.Decimal `json:"mntNeto,omitzero"`
	MntExe   decimal.Decimal `json:"mntExe,omitzero"`
	TasaIVA  decimal.Decimal `json:"tasaIVA,omitzero"`
	IVA      decimal.Decimal `json:"iva,omitzero"`
	MntTotal decimal.Decimal `json:"mntTotal,omitzero"`

	Items []ItemInput `json:"items"`

	// Guía de despacho
	Patente          string `json:"patente,omitempty"`
	RutTransportista string `json:"rutTransportista,omitempty"`
	RutChofer        string `json:"rutChofer,omitempty"`
	NombreChofer     string `json:"nombreChofer,omitempty"`
	DirDestino       string `json:"dirDestino,omitempty"`
	CmnaDestino      string `json:"cmnaDestino,omitempty"`
	CiudadDestino    string `json:"ciudadDestino,omitempty"`

	// Notas de crédito/débito
	TpoDocRef int    `json:"tpoDocRef,omitempty"`
	FolioRef  int    `json:"folioRef,omitempty"`
	FchRef    string `json:"fchRef,omitempty"`
	CodRef    int    `json:"codRef,omitempty"`
	RazonRef  string `json:"razonRef,omitempty"`
}
