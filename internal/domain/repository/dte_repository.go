package repository

import "github.com/sirizagaria/editorial-api/internal/domain/entity"

// DTERepository define el puerto de persistencia para los documentos
// tributarios. Los documentos nunca se borran; después de un estado terminal
// el único escritor legítimo es nadie (el use case lo garantiza).
type DTERepository interface {
	Create(doc *entity.DTEDocument) error
	GetByID(id string) (*entity.DTEDocument, error)
	GetByUUID(uuid string) (*entity.DTEDocument, error)
	// GetByFolio busca por la clave compuesta (rutEmisor solo dígitos, tipo, folio).
	GetByFolio(rutEmisor string, tipoDTE, folio int) (*entity.DTEDocument, error)
	List(filter entity.DTEFilter, limit, offset int) ([]*entity.DTEDocument, error)
	Count(filter entity.DTEFilter) (int, error)
	// UpdateStatus actualiza estado, folio, respuesta/error del SII y processed_at.
	UpdateStatus(doc *entity.DTEDocument) error
	Stats() (*entity.DTEStats, error)
}
