package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sirizagaria/editorial-api/internal/domain/dte"
)

// Estados del ciclo de vida de un documento. pending es el estado inicial;
// completed/rejected/cancelled son terminales y el documento queda congelado.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// IsTerminalStatus indica si un estado no admite más transiciones.
func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusRejected || status == StatusCancelled
}

// ValidStatus estados aceptados por el almacén.
var ValidStatus = map[string]bool{
	StatusPending: true, StatusCompleted: true,
	StatusRejected: true, StatusCancelled: true,
}

// DTEDocument es el registro persistido de un documento tributario.
// UUID es el identificador interno asignado al construir; Folio es el número
// que asigna el SII y permanece en 0 hasta que el paso externo de envío
// reporta el estado final. DteJSON conserva el documento canónico completo
// tal como se generó, para auditoría y reproceso.
type DTEDocument struct {
	ID               string
	UUID             string
	TipoDTE          int
	Folio            int
	Status           string
	RUTEmisor        string // solo dígitos
	RUTReceptor      string // solo dígitos
	CustomerID       string
	InvoiceID        string
	ShippingID       string
	FechaEmision     time.Time
	FechaVencimiento *time.Time
	MntNeto          decimal.Decimal
	MntExe           decimal.Decimal
	TasaIVA          decimal.Decimal
	IVA              decimal.Decimal
	MntTotal         decimal.Decimal
	FormaPago        int
	Detalle          []dte.Detalle
	Transporte       *dte.Transporte
	Referencia       []dte.Referencia
	DteJSON          *dte.Documento
	SiiResponse      map[string]interface{} // respuesta del SII (placeholder hasta el envío real)
	SiiError         string
	ProcessedAt      *time.Time
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Campos poblados por LEFT JOIN en lecturas/listados (no se persisten aquí).
	CustomerName  string
	InvoiceNumber string
	GuiaNumber    string
}

// DTEStats agregado para el panel: conteos por tipo y estado, y sumas de
// montos e IVA sobre todos los documentos.
type DTEStats struct {
	TotalDocuments int
	TotalAmount    decimal.Decimal
	TotalIVA       decimal.Decimal
	ByTipoDTE      map[int]int
	ByStatus       map[string]int
}

// DTEFilter filtros de listado (todos opcionales).
type DTEFilter struct {
	TipoDTE    int
	Status     string
	CustomerID string
}
