// Package sii contiene catálogos y validaciones alineados al formato de
// Documentos Tributarios Electrónicos del SII (Chile).
package sii

// =============================================================================
// Tipos de DTE (códigos oficiales del esquema SII).
// Los valores son contrato bit-exacto con el SII: no renumerar.
// =============================================================================

const (
	TipoFacturaElectronica     = 33  // Factura Electrónica (afecta a IVA)
	TipoFacturaExenta          = 34  // Factura No Afecta o Exenta Electrónica
	TipoBoletaElectronica      = 39  // Boleta Electrónica
	TipoBoletaExenta           = 41  // Boleta No Afecta o Exenta Electrónica
	TipoLiquidacionFactura     = 43  // Liquidación Factura Electrónica
	TipoFacturaCompra          = 46  // Factura de Compra Electrónica
	TipoGuiaDespacho           = 52  // Guía de Despacho Electrónica
	TipoNotaDebito             = 56  // Nota de Débito Electrónica
	TipoNotaCredito            = 61  // Nota de Crédito Electrónica
	TipoFacturaExportacion     = 110 // Factura de Exportación Electrónica
	TipoNotaDebitoExportacion  = 111 // Nota de Débito de Exportación Electrónica
	TipoNotaCreditoExportacion = 112 // Nota de Crédito de Exportación Electrónica
)

// ValidTipoDTE contiene los códigos de tipo de documento aceptados por el
// almacén (los tipos 43/46/110/111/112 se aceptan pero no se construyen aquí).
var ValidTipoDTE = map[int]bool{
	TipoFacturaElectronica: true, TipoFacturaExenta: true,
	TipoBoletaElectronica: true, TipoBoletaExenta: true,
	TipoLiquidacionFactura: true, TipoFacturaCompra: true,
	TipoGuiaDespacho: true, TipoNotaDebito: true, TipoNotaCredito: true,
	TipoFacturaExportacion: true, TipoNotaDebitoExportacion: true,
	TipoNotaCreditoExportacion: true,
}

// =============================================================================
// Forma de pago (campo FmaPago del encabezado).
// =============================================================================

const (
	FormaPagoContado  = 1 // Contado
	FormaPagoCredito  = 2 // Crédito
	FormaPagoSinCosto = 3 // Sin costo (entrega gratuita)
)

// =============================================================================
// Indicador de traslado para Guía de Despacho (campo IndTraslado).
// =============================================================================

const (
	TrasladoVenta            = 1 // Operación constituye venta
	TrasladoVentaPorEfectuar = 2 // Venta por efectuar
	TrasladoConsignacion     = 3 // Consignación
	TrasladoEntregaGratuita  = 4 // Entrega gratuita
	TrasladoInterno          = 5 // Traslado interno
)

// =============================================================================
// Códigos de referencia para notas de crédito/débito (campo CodRef).
// =============================================================================

const (
	RefAnulaDocumento = 1 // Anula documento de referencia
	RefCorrigeTexto   = 2 // Corrige texto del documento de referencia
	RefCorrigeMontos  = 3 // Corrige montos
)

// TasaIVADefecto tasa de IVA vigente en Chile (porcentaje).
const TasaIVADefecto = 19

// UnidadDefecto unidad de medida por defecto en líneas de detalle.
const UnidadDefecto = "UN"
