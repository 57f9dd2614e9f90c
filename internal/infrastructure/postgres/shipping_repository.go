package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sirizagaria/editorial-api/internal/domain/entity"
	"github.com/sirizagaria/editorial-api/internal/domain/repository"
)

var _ repository.ShippingRepository = (*ShippingRepo)(nil)

// ShippingRepo adaptador sobre despachos. Lectura para derivar guías con
// from-shipping, y una única escritura: el sub-estado de guía electrónica.
type ShippingRepo struct {
	q Querier
}

// NewShippingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShippingRepository(q Querier) *ShippingRepo {
	return &ShippingRepo{q: q}
}

// GetByID obtiene un despacho por ID. Devuelve nil, nil si no existe.
func (r *ShippingRepo) GetByID(id string) (*entity.Shipping, error) {
	query := `
		SELECT id, COALESCE(guia_number, ''), COALESCE(order_id, ''), COALESCE(customer_id, ''),
		       COALESCE(invoice_id, ''), COALESCE(carrier, ''), COALESCE(tracking_number, ''),
		       shipping_cost, shipping_address, items,
		       COALESCE(guia_electronica, ''), COALESCE(guia_electronica_number, ''), shipping_date
		FROM shippings WHERE id = $1`
	var s entity.Shipping
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.GuiaNumber, &s.OrderID, &s.CustomerID,
		&s.InvoiceID, &s.Carrier, &s.TrackingNumber,
		&s.ShippingCost, &s.ShippingAddress, &s.Items,
		&s.GuiaElectronica, &s.GuiaElectronicaNumber, &s.ShippingDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipping: %w", err)
	}
	return &s, nil
}

// MarkGuiaGenerated registra en el despacho la guía electrónica generada.
func (r *ShippingRepo) MarkGuiaGenerated(id, dteUUID string) error {
	query := `
		UPDATE shippings
		SET guia_electronica = 'generated', guia_electronica_number = $2, updated_at = $3
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, dteUUID, time.Now())
	if err != nil {
		return fmt.Errorf("mark guia generada: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("despacho %s no existe", id)
	}
	return nil
}
