package dte

import (
	"strings"

	"github.com/sirizagaria/editorial-api/pkg/sii"
)

// ValidationResult resultado de validar un documento: Valid y la lista
// ordenada de reglas incumplidas. Validate nunca falla con error de Go.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidationError error de construcción de un DTE inválido. Conserva la
// lista estructurada de reglas para que la capa HTTP pueda devolver el
// detalle por regla, no solo el string concatenado.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "DTE Validation Error: " + strings.Join(e.Errors, ", ")
}

// Validate aplica la validación estructural y de invariantes cruzados según
// el tipo declarado del documento. Evalúa todas las reglas aplicables y
// acumula cada incumplimiento (sin cortocircuito), en orden estable.
//
// Los montos se comparan con igualdad exacta, no con tolerancia: la moneda
// es el peso entero y cualquier deriva de redondeo aguas arriba debe
// detectarse aquí, no enmascararse.
func Validate(doc *Documento) ValidationResult {
	var errs []string

	if doc == nil {
		return ValidationResult{Valid: false, Errors: []string{"Encabezado is required"}}
	}
	if len(doc.Detalle) == 0 {
		errs = append(errs, "At least one item is required")
	}

	idDoc := doc.Encabezado.IdDoc
	if idDoc.Folio != 0 {
		errs = append(errs, "Folio must be 0 (system generates it)")
	}
	if idDoc.TipoDTE == 0 {
		errs = append(errs, "TipoDTE is required")
	}
	if idDoc.FchEmis == "" {
		errs = append(errs, "FchEmis is required")
	}

	emisor := doc.Encabezado.Emisor
	if emisor.RUTEmisor == "" {
		errs = append(errs, "RUTEmisor is required")
	}
	if emisor.RznSoc == "" {
		errs = append(errs, "RznSoc is required")
	}
	if emisor.GiroEmis == "" {
		errs = append(errs, "GiroEmis is required")
	}
	if len(emisor.Acteco) == 0 {
		errs = append(errs, "Acteco is required")
	}
	if emisor.DirOrigen == "" {
		errs = append(errs, "DirOrigen is required")
	}
	if emisor.CmnaOrigen == "" {
		errs = append(errs, "CmnaOrigen is required")
	}

	receptor := doc.Encabezado.Receptor
	if receptor.RUTRecep == "" {
		errs = append(errs, "RUTRecep is required")
	}
	if receptor.RznSocRecep == "" {
		errs = append(errs, "RznSocRecep is required")
	}
	if receptor.GiroRecep == "" {
		errs = append(errs, "GiroRecep is required")
	}
	if receptor.DirRecep == "" {
		errs = append(errs, "DirRecep is required")
	}
	if receptor.CmnaRecep == "" {
		errs = append(errs, "CmnaRecep is required")
	}

	totales := doc.Encabezado.Totales
	if totales.MntTotal.IsZero() {
		errs = append(errs, "MntTotal is required")
	}

	// Tipos afectos: neto e IVA obligatorios y total = neto + IVA exacto.
	if idDoc.TipoDTE == sii.TipoFacturaElectronica || idDoc.TipoDTE == sii.TipoBoletaElectronica {
		if totales.MntNeto.IsZero() {
			errs = append(errs, "MntNeto is required for invoice with IVA")
		}
		if totales.IVA.IsZero() {
			errs = append(errs, "IVA is required for invoice with IVA")
		}
		if !totales.MntTotal.Equal(totales.MntNeto.Add(totales.IVA)) {
			errs = append(errs, "MntTotal must equal MntNeto + IVA")
		}
	}

	// Tipos exentos: monto exento obligatorio y total = exento exacto.
	if idDoc.TipoDTE == sii.TipoFacturaExenta || idDoc.TipoDTE == sii.TipoBoletaExenta {
		if totales.MntExe.IsZero() {
			errs = append(errs, "MntExe is required for exempt invoice")
		}
		if !totales.MntTotal.Equal(totales.MntExe) {
			errs = append(errs, "MntTotal must equal MntExe for exempt invoice")
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
