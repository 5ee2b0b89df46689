package capabilities

import "context"

// CapabilityCheck pregunta si un condominio (según su plan) tiene una
// feature habilitada, p.ej. "workorders:auto".
type CapabilityCheck struct {
	CondoID string
	UserID  string
	Feature string
}

type CapabilitiesResolver interface {
	HasFeature(ctx context.Context, in CapabilityCheck) (bool, error)
}
