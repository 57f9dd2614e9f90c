package dte

import (
	"github.com/shopspring/decimal"

	"github.com/sirizagaria/editorial-api/pkg/sii"
)

// CalculateIVA calcula el IVA de un monto neto: round(neto * tasa / 100),
// redondeo al entero más cercano (el peso chileno no tiene subunidad).
// Toda derivación de IVA del sistema pasa por aquí, de modo que un IVA
// entregado por el caller y uno recalculado sean comparables exactamente.
func CalculateIVA(mntNeto, tasaIVA decimal.Decimal) decimal.Decimal {
	if tasaIVA.IsZero() {
		tasaIVA = decimal.NewFromInt(sii.TasaIVADefecto)
	}
	return mntNeto.Mul(tasaIVA).Div(decimal.NewFromInt(100)).Round(0)
}
