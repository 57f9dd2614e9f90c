package dte

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() EmisorProfile {
	return EmisorProfile{
		RUT:         "77226199-3",
		RazonSocial: "Siriza Agaria S.A.",
		Giro:        "Comercio",
		Acteco:      []int{620200},
		Direccion:   "Av. Principal 123",
		Comuna:      "Santiago",
		Ciudad:      "Santiago",
		Email:       "contacto@sirizagaria.com",
	}
}

func baseInput() DocumentoInput {
	return DocumentoInput{
		RutReceptor:         "12.345.678-5",
		RazonSocialReceptor: "Librería Andes Ltda.",
		GiroReceptor:        "Venta de libros",
		DirReceptor:         "Calle Falsa 123",
		CmnaReceptor:        "Providencia",
		MntNeto:             decimal.NewFromInt(10000),
		Items: []ItemInput{
			{NmbItem: "Libro: Cien años", QtyItem: decimal.NewFromInt(2), PrcItem: decimal.NewFromInt(5000)},
		},
	}
}

func TestCreateFacturaElectronica(t *testing.T) {
	gen := NewGenerator(testProfile())

	u, doc, err := gen.CreateFacturaElectronica(baseInput())
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.NotEmpty(t, u)

	idDoc := doc.Encabezado.IdDoc
	assert.Equal(t, 33, idDoc.TipoDTE)
	assert.Equal(t, 0, idDoc.Folio)
	assert.Equal(t, time.Now().Format("2006-01-02"), idDoc.FchEmis)
	assert.Equal(t, 1, idDoc.FmaPago)

	emisor := doc.Encabezado.Emisor
	assert.Equal(t, "77226199-3", emisor.RUTEmisor)
	assert.Equal(t, "Siriza Agaria S.A.", emisor.RznSoc)
	assert.Equal(t, []int{620200}, emisor.Acteco)
	assert.Equal(t, "Santiago", emisor.CiudadOrigen)

	receptor := doc.Encabezado.Receptor
	assert.Equal(t, "12345678-5", receptor.RUTRecep, "el RUT del receptor se normaliza")

	totales := doc.Encabezado.Totales
	assert.True(t, totales.IVA.Equal(decimal.NewFromInt(1900)), "IVA = %s", totales.IVA)
	assert.True(t, totales.MntTotal.Equal(decimal.NewFromInt(11900)), "MntTotal = %s", totales.MntTotal)
}

func TestCreateFacturaElectronicaOverrides(t *testing.T) {
	gen := NewGenerator(testProfile())

	in := baseInput()
	in.RazonSocialEmisor = "Sucursal Valparaíso"
	in.FechaEmision = "2026-03-15"
	in.FechaVencimiento = "2026-04-15"
	in.FormaPago = 2
	in.TelefonoEmisor = "+56 2 2345 6789"

	_, doc, err := gen.CreateFacturaElectronica(in)
	require.NoError(t, err)

	assert.Equal(t, "Sucursal Valparaíso", doc.Encabezado.Emisor.RznSoc)
	assert.Equal(t, "2026-03-15", doc.Encabezado.IdDoc.FchEmis)
	assert.Equal(t, "2026-04-15", doc.Encabezado.IdDoc.FchVenc)
	assert.Equal(t, 2, doc.Encabezado.IdDoc.FmaPago)
	assert.Equal(t, []string{"+56 2 2345 6789"}, doc.Encabezado.Emisor.Telefono)
}

func TestCreateFacturaElectronicaInconsistentTotal(t *testing.T) {
	gen := NewGenerator(testProfile())

	in := baseInput()
	in.MntTotal = decimal.NewFromInt(11000) // neto 10000 + IVA 1900 = 11900

	_, _, err := gen.CreateFacturaElectronica(in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "MntTotal must equal MntNeto + IVA")
}

func TestCreateFacturaElectronicaIncomplete(t *testing.T) {
	gen := NewGenerator(testProfile())

	in := baseInput()
	in.RazonSocialReceptor = ""
	in.DirReceptor = ""

	_, _, err := gen.CreateFacturaElectronica(in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "RznSocRecep is required")
	assert.Contains(t, verr.Errors, "DirRecep is required")
}

func TestCreateFacturaExenta(t *testing.T) {
	gen := NewGenerator(testProfile())

	in := baseInput()
	in.MntNeto = decimal.Zero
	in.MntExe = decimal.NewFromInt(8000)

	_, doc, err := gen.CreateFacturaExenta(in)
	require.NoError(t, err)

	assert.Equal(t, 34, doc.Encabezado.IdDoc.TipoDTE)
	assert.True(t, doc.Encabezado.Totales.MntTotal.Equal(decimal.NewFromInt(8000)), "total = exento")
	assert.True(t, doc.Encabezado.Totales.IVA.IsZero())
	for _, line := range doc.Detalle {
		assert.Equal(t, 1, line.IndExe)
	}
}

func TestCreateBoletaElectronica(t *testing.T) {
	gen := NewGenerator(testProfile())

	_, doc, err := gen.CreateBoletaElectronica(baseInput())
	require.NoError(t, err)

	assert.Equal(t, 39, doc.Encabezado.IdDoc.TipoDTE)
	assert.Equal(t, 0, doc.Encabezado.IdDoc.Folio)
	assert.Empty(t, doc.Encabezado.IdDoc.FchVenc, "la boleta no lleva vencimiento")
}

func TestCreateBoletaExenta(t *testing.T) {
	gen := NewGenerator(testProfile())

	in := baseInput()
	in.MntNeto = decimal.Zero
	in.MntExe = decimal.NewFromInt(5000)

	_, doc, err := gen.CreateBoletaExenta(in)
	require.NoError(t, err)
	assert.Equal(t, 41, doc.Encabezado.IdDoc.TipoDTE)
	assert.True(t, doc.Encabezado.Totales.MntTotal.Equal(decimal.NewFromInt(5000)))
}

func TestCreateGuiaDespacho(t *testing.T) {
	gen := NewGenerator(testProfile())

	in := baseInput()
	in.Patente = "ABCD12"
	in.RutChofer = "11.111.111-1"
	in.NombreChofer = "Pedro Soto"

	_, doc, err := gen.CreateGuiaDespacho(in)
	require.NoError(t, err)

	assert.Equal(t, 52, doc.Encabezado.IdDoc.TipoDTE)
	assert.Equal(t, 1, doc.Encabezado.IdDoc.IndTraslado, "traslado por venta por defecto")

	tr := doc.Encabezado.Transporte
	require.NotNil(t, tr)
	assert.Equal(t, "ABCD12", tr.Patente)
	assert.Equal(t, "11111111-1", tr.RUTChofer)
	assert.Equal(t, "Calle Falsa 123", tr.DirDest, "destino cae al domicilio del receptor")
	assert.Equal(t, "Providencia", tr.CmnaDest)
}

func TestCreateGuiaDespachoDestinoExplicito(t *testing.T) {
	gen := NewGenerator(testProfile())

	in := baseInput()
	in.DirDestino = "Bodega 7, Parque Industrial"
	in.CmnaDestino = "Quilicura"
	in.IndTraslado = 5

	_, doc, err := gen.CreateGuiaDespacho(in)
	require.NoError(t, err)
	assert.Equal(t, 5, doc.Encabezado.IdDoc.IndTraslado)
	assert.Equal(t, "Bodega 7, Parque Industrial", doc.Encabezado.Transporte.DirDest)
	assert.Equal(t, "Quilicura", doc.Encabezado.Transporte.CmnaDest)
}

func TestCreateNotaCredito(t *testing.T) {
	gen := NewGenerator(testProfile())

	in := baseInput()
	in.FolioRef = 4321
	in.FchRef = "2026-02-01"

	_, doc, err := gen.CreateNotaCredito(in)
	require.NoError(t, err)

	assert.Equal(t, 61, doc.Encabezado.IdDoc.TipoDTE)
	require.Len(t, doc.Referencia, 1)
	ref := doc.Referencia[0]
	assert.Equal(t, 1, ref.NroLinRef)
	assert.Equal(t, 33, ref.TpoDocRef, "referencia a factura por defecto")
	assert.Equal(t, 4321, ref.FolioRef)
	assert.Equal(t, 1, ref.CodRef)
	assert.Equal(t, "Devolución de productos", ref.RazonRef)
}

func TestCreateNotaDebito(t *testing.T) {
	gen := NewGenerator(testProfile())

	in := baseInput()
	in.TpoDocRef = 61
	in.FolioRef = 99
	in.CodRef = 2
	in.RazonRef = "Intereses por mora"

	_, doc, err := gen.CreateNotaDebito(in)
	require.NoError(t, err)

	assert.Equal(t, 56, doc.Encabezado.IdDoc.TipoDTE)
	require.Len(t, doc.Referencia, 1)
	assert.Equal(t, 61, doc.Referencia[0].TpoDocRef)
	assert.Equal(t, 2, doc.Referencia[0].CodRef)
	assert.Equal(t, "Intereses por mora", doc.Referencia[0].RazonRef)
}

func TestCreateNotaDebitoRazonDefecto(t *testing.T) {
	gen := NewGenerator(testProfile())

	in := baseInput()
	in.FolioRef = 99

	_, doc, err := gen.CreateNotaDebito(in)
	require.NoError(t, err)
	assert.Equal(t, "Ajuste por diferencia de precio", doc.Referencia[0].RazonRef)
}

func TestNewUUIDUnique(t *testing.T) {
	gen := NewGenerator(testProfile())

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		u := gen.NewUUID()
		require.False(t, seen[u], "UUID repetido: %s", u)
		seen[u] = true
	}
}
