package memberships

import "time"

type Scope string

const (
	ScopeAssetsRead          Scope = "assets:read"
	ScopeAssetsWrite         Scope = "assets:write"
	ScopeMaintenanceRead     Scope = "maintenance:read"
	ScopeMaintenanceComplete Scope = "maintenance:complete"
	ScopeWorkOrdersRead      Scope = "workorders:read"
	ScopeWorkOrdersWrite     Scope = "workorders:write"
)

type Status string

const (
	StatusInvited Status = "invited"
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

// Membership es la delegación de operaciones de un condominio a un
// miembro del equipo (zelador, técnico, administradora). El síndico no
// necesita membresía: tiene bypass en los handlers.
type Membership struct {
	ID string

	CondoID string

	ManagerUserID string // quien invita (síndico)
	MemberUserID  string // invitado

	Scopes []Scope
	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
