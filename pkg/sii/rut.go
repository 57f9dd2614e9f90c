package sii

import "strings"

// CleanRUT deja solo los dígitos 0-9 de un RUT y la K de verificación
// (en mayúscula). Es la forma en que se indexan emisor y receptor en el
// almacén: número completo con dígito verificador, sin puntos ni guión.
func CleanRUT(rut string) string {
	var b strings.Builder
	for _, r := range rut {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'k' || r == 'K':
			b.WriteRune('K')
		}
	}
	return b.String()
}

// FormatRUT normaliza un RUT a la forma <número>-<dígito verificador>.
// Es deliberadamente permisivo: los RUT de receptores llegan en formatos
// inconsistentes desde formularios, así que se degrada a un string de mejor
// esfuerzo en vez de fallar. Con menos de 2 dígitos devuelve lo que quede.
func FormatRUT(rut string) string {
	if rut == "" {
		return ""
	}
	digits := CleanRUT(rut)
	if len(digits) < 2 {
		return digits
	}
	dv := digits[len(digits)-1:]
	number := digits[:len(digits)-1]
	return number + "-" + dv
}

// VerificationDigit calcula el dígito verificador módulo 11 para la parte
// numérica de un RUT: "0"-"9" o "K".
func VerificationDigit(number string) string {
	factor := 2
	sum := 0
	for i := len(number) - 1; i >= 0; i-- {
		d := number[i]
		if d < '0' || d > '9' {
			return ""
		}
		sum += int(d-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}
	switch rest := 11 - (sum % 11); rest {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return string(rune('0' + rest))
	}
}

// ValidRUT verifica el dígito verificador de un RUT (acepta puntos y guión).
// No se usa en la ruta obligatoria de generación (FormatRUT es permisivo),
// pero permite a los callers rechazar receptores mal tipeados.
func ValidRUT(rut string) bool {
	s := strings.ToUpper(strings.TrimSpace(rut))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "-", "")
	if len(s) < 2 {
		return false
	}
	dv := s[len(s)-1:]
	number := s[:len(s)-1]
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}
	return VerificationDigit(number) == dv
}
