package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sirizagaria/editorial-api/internal/domain/entity"
	"github.com/sirizagaria/editorial-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo adaptador de solo lectura sobre la tabla de clientes (la
// administra otro módulo del back-office; aquí solo se consulta para enlazar
// documentos).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerSelect = `
	SELECT id, name, rut, COALESCE(email, ''), COALESCE(phone, ''),
	       COALESCE(address, ''), COALESCE(commune, ''), COALESCE(region, ''),
	       COALESCE(business_type, ''), COALESCE(giro, ''), created_at, updated_at
	FROM customers`

// GetByID obtiene un cliente por ID. Devuelve nil, nil si no existe.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	row := r.q.QueryRow(context.Background(), customerSelect+` WHERE id = $1`, id)
	return scanCustomer(row)
}

// GetByRUTOrEmail busca el cliente por RUT (solo dígitos) o, en su defecto,
// por email. Devuelve nil, nil si no hay coincidencia.
func (r *CustomerRepo) GetByRUTOrEmail(rut, email string) (*entity.Customer, error) {
	row := r.q.QueryRow(context.Background(),
		customerSelect+` WHERE rut = $1 OR ($2 <> '' AND email = $2) ORDER BY (rut = $1) DESC LIMIT 1`,
		rut, email)
	return scanCustomer(row)
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.RUT, &c.Email, &c.Phone,
		&c.Address, &c.Commune, &c.Region,
		&c.BusinessType, &c.Giro, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}
