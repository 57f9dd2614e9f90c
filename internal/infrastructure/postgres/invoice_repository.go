package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sirizagaria/editorial-api/internal/domain/entity"
	"github.com/sirizagaria/editorial-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo adaptador de solo lectura sobre facturas internas: la fuente
// de datos para derivar un DTE con from-invoice. Las líneas van en JSONB.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// GetByID obtiene una factura interna por ID. Devuelve nil, nil si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `
		SELECT id, COALESCE(invoice_number, ''), COALESCE(customer_id, ''),
		       subtotal, tax_rate, tax, total, items, created_at
		FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.CustomerID,
		&inv.Subtotal, &inv.TaxRate, &inv.Tax, &inv.Total, &inv.Items, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}
