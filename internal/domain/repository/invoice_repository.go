package repository

import "github.com/sirizagaria/editorial-api/internal/domain/entity"

// InvoiceRepository puerto de solo lectura sobre facturas internas
// (colaborador externo: fuente de from-invoice).
type InvoiceRepository interface {
	GetByID(id string) (*entity.Invoice, error)
}
