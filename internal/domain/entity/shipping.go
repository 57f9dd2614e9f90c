package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shipping despacho de un pedido (colaborador externo). La guía de despacho
// electrónica derivada actualiza aquí GuiaElectronica/GuiaElectronicaNumber
// como efecto secundario de mejor esfuerzo.
type Shipping struct {
	ID                    string
	GuiaNumber            string
	OrderID               string
	CustomerID            string
	InvoiceID             string
	Carrier               string
	TrackingNumber        string
	ShippingCost          decimal.Decimal
	ShippingAddress       ShippingAddress
	Items                 []ShippingItem
	GuiaElectronica       string // "" | "generated"
	GuiaElectronicaNumber string // UUID del DTE generado
	ShippingDate          time.Time
}

// ShippingAddress dirección de destino del despacho.
type ShippingAddress struct {
	Name    string
	Address string
	Commune string
	Region  string
}

// ShippingItem línea de un despacho.
type ShippingItem struct {
	Description string
	Quantity    decimal.Decimal
}
