package dte

import (
	"github.com/shopspring/decimal"

	"github.com/sirizagaria/editorial-api/pkg/sii"
)

// FormatDetalle normaliza las líneas de detalle del caller: asigna NroLinDet
// posicional (1..N, el orden de entrada manda), aplica defaults (cantidad 1,
// unidad "UN", descuentos 0) y calcula MontoItem = QtyItem * PrcItem cuando
// no viene explícito.
func FormatDetalle(items []ItemInput) []Detalle {
	return formatDetalle(items, false)
}

// FormatDetalleExento igual que FormatDetalle pero marca cada línea con el
// indicador de exención (IndExe=1), para facturas y boletas exentas.
func FormatDetalleExento(items []ItemInput) []Detalle {
	return formatDetalle(items, true)
}

func formatDetalle(items []ItemInput, exento bool) []Detalle {
	lines := make([]Detalle, 0, len(items))
	for i, item := range items {
		qty := item.QtyItem
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}
		unmd := item.UnmdItem
		if unmd == "" {
			unmd = sii.UnidadDefecto
		}
		monto := item.MontoItem
		if monto.IsZero() {
			monto = qty.Mul(item.PrcItem)
		}
		cdg := item.CdgItem
		if cdg == nil {
			cdg = []CodigoItem{}
		}
		line := Detalle{
			NroLinDet:      i + 1,
			NmbItem:        item.NmbItem,
			DscItem:        item.DscItem,
			QtyItem:        qty,
			UnmdItem:       unmd,
			PrcItem:        item.PrcItem,
			DescuentoMonto: item.DescuentoMonto,
			DescuentoPct:   item.DescuentoPct,
			MontoItem:      monto,
			CdgItem:        cdg,
		}
		if exento {
			line.IndExe = 1
		}
		lines = append(lines, line)
	}
	return lines
}
