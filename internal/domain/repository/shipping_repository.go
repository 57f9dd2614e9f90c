package repository

import "github.com/sirizagaria/editorial-api/internal/domain/entity"

// ShippingRepository puerto sobre despachos (colaborador externo). La única
// escritura permitida es el sub-estado de guía electrónica, actualizado como
// efecto secundario de mejor esfuerzo al generar la guía.
type ShippingRepository interface {
	GetByID(id string) (*entity.Shipping, error)
	MarkGuiaGenerated(id, dteUUID string) error
}
