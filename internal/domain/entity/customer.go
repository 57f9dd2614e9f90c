package entity

import "time"

// Customer cliente de la editorial. Este subsistema no es dueño de la
// entidad: solo la consulta para enlazar documentos por RUT o email.
type Customer struct {
	ID           string
	Name         string
	RUT          string
	Email        string
	Phone        string
	Address      string
	Commune      string
	Region       string
	BusinessType string // individual | business
	Giro         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
