package condos

import "time"

// Plan define los planes de facturación soportados.
// @Enum basic, professional
type Plan string

const (
	PlanBasic        Plan = "basic"
	PlanProfessional Plan = "professional"
)

// Condominium representa un condominio administrado en el sistema.
// Es el "tenant": todo activo, ítem de mantenimiento, OS y membresía
// cuelga de un condominio explícito (nunca de estado ambiente).
type Condominium struct {
	ID string

	Name    string
	CNPJ    string
	Address string

	Plan Plan

	// ManagerUserID es el síndico: bypass de permisos en su condominio.
	ManagerUserID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
