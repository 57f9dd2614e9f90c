package repository

import "github.com/sirizagaria/editorial-api/internal/domain/entity"

// CustomerRepository puerto de solo lectura sobre clientes (colaborador
// externo: este subsistema no crea ni modifica clientes).
type CustomerRepository interface {
	GetByID(id string) (*entity.Customer, error)
	// GetByRUTOrEmail busca el cliente para enlazarlo a un documento recién
	// creado. RUT solo dígitos. Devuelve nil, nil si no existe.
	GetByRUTOrEmail(rut, email string) (*entity.Customer, error)
}
