package dte

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFactura() *Documento {
	return &Documento{
		Encabezado: Encabezado{
			IdDoc: IdDoc{TipoDTE: 33, Folio: 0, FchEmis: "2026-01-15"},
			Emisor: Emisor{
				RUTEmisor: "77226199-3", RznSoc: "Siriza Agaria S.A.", GiroEmis: "Comercio",
				Acteco: []int{620200}, DirOrigen: "Av. Principal 123", CmnaOrigen: "Santiago",
			},
			Receptor: Receptor{
				RUTRecep: "12345678-5", RznSocRecep: "Librería Andes Ltda.",
				GiroRecep: "Venta de libros", DirRecep: "Calle Falsa 123", CmnaRecep: "Providencia",
			},
			Totales: Totales{
				MntNeto: decimal.NewFromInt(10000), TasaIVA: decimal.NewFromInt(19),
				IVA: decimal.NewFromInt(1900), MntTotal: decimal.NewFromInt(11900),
			},
		},
		Detalle: []Detalle{{NroLinDet: 1, NmbItem: "Libro", QtyItem: decimal.NewFromInt(1), UnmdItem: "UN", PrcItem: decimal.NewFromInt(10000), MontoItem: decimal.NewFromInt(10000)}},
	}
}

func TestValidateOK(t *testing.T) {
	res := Validate(validFactura())
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateNil(t *testing.T) {
	res := Validate(nil)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"Encabezado is required"}, res.Errors)
}

func TestValidateFolioNoCero(t *testing.T) {
	doc := validFactura()
	doc.Encabezado.IdDoc.Folio = 555

	res := Validate(doc)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "Folio must be 0 (system generates it)")
}

// La validación acumula todas las reglas incumplidas, sin cortocircuito.
func TestValidateAcumulaErrores(t *testing.T) {
	doc := validFactura()
	doc.Encabezado.Receptor.RznSocRecep = ""
	doc.Encabezado.Totales.MntTotal = decimal.NewFromInt(11000)

	res := Validate(doc)
	require.False(t, res.Valid)
	assert.Contains(t, res.Errors, "RznSocRecep is required")
	assert.Contains(t, res.Errors, "MntTotal must equal MntNeto + IVA")
	assert.Len(t, res.Errors, 2)
}

func TestValidateSinDetalle(t *testing.T) {
	doc := validFactura()
	doc.Detalle = nil

	res := Validate(doc)
	assert.Contains(t, res.Errors, "At least one item is required")
}

func TestValidateAfectoSinIVA(t *testing.T) {
	doc := validFactura()
	doc.Encabezado.Totales.IVA = decimal.Zero
	doc.Encabezado.Totales.MntTotal = decimal.NewFromInt(10000)

	res := Validate(doc)
	require.False(t, res.Valid)
	assert.Contains(t, res.Errors, "IVA is required for invoice with IVA")
}

func TestValidateExento(t *testing.T) {
	doc := validFactura()
	doc.Encabezado.IdDoc.TipoDTE = 34
	doc.Encabezado.Totales = Totales{
		MntExe:   decimal.NewFromInt(8000),
		MntTotal: decimal.NewFromInt(8000),
	}

	res := Validate(doc)
	assert.True(t, res.Valid, "errores: %v", res.Errors)
}

func TestValidateExentoInconsistente(t *testing.T) {
	doc := validFactura()
	doc.Encabezado.IdDoc.TipoDTE = 41
	doc.Encabezado.Totales = Totales{
		MntExe:   decimal.NewFromInt(8000),
		MntTotal: decimal.NewFromInt(9000),
	}

	res := Validate(doc)
	require.False(t, res.Valid)
	assert.Contains(t, res.Errors, "MntTotal must equal MntExe for exempt invoice")
}

// La guía y las notas no exigen el desglose afecto: basta el total.
func TestValidateGuiaSoloTotal(t *testing.T) {
	doc := validFactura()
	doc.Encabezado.IdDoc.TipoDTE = 52
	doc.Encabezado.Totales = Totales{MntTotal: decimal.NewFromInt(4500)}

	res := Validate(doc)
	assert.True(t, res.Valid, "errores: %v", res.Errors)
}

func TestValidateTotalRequerido(t *testing.T) {
	doc := validFactura()
	doc.Encabezado.IdDoc.TipoDTE = 52
	doc.Encabezado.Totales = Totales{}

	res := Validate(doc)
	require.False(t, res.Valid)
	assert.Contains(t, res.Errors, "MntTotal is required")
}
