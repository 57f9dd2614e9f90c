package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice factura interna del back-office (colaborador externo, solo
// lectura: fuente de datos para derivar un DTE con from-invoice).
type Invoice struct {
	ID            string
	InvoiceNumber string
	CustomerID    string
	Subtotal      decimal.Decimal
	TaxRate       decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Items         []InvoiceItem
	CreatedAt     time.Time
}

// InvoiceItem línea de una factura interna.
type InvoiceItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}
