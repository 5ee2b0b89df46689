package assets

import "time"

// Asset representa un equipo o instalación registrada en un condominio
// (ascensor, extintor, generador, bomba, etc.).
type Asset struct {
	ID      string
	CondoID string

	Name     string
	Category Category
	Location string // "Torre A - Subsuelo", "Hall social", ...

	SerialNumber string
	InstalledAt  *time.Time

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
