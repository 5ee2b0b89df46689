package plansfeatures

import (
	"context"
	"errors"
	"os"
	"strings"

	"condo-facility-management/internal/ports/capabilities"
)

// Resolver implementa capabilities.CapabilitiesResolver contra el
// servicio de planes. Los features son por condominio (el plan vive en
// el condominio, no en el usuario).
type Resolver struct {
	client   *Client
	allowAll bool
}

// NewResolver crea un resolver.
// Si ALLOW_ALL_CAPABILITIES=true (env), todo devuelve true (modo dev / fallback).
func NewResolver(client *Client) *Resolver {
	allowAll := strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_ALL_CAPABILITIES")), "true")
	return &Resolver{
		client:   client,
		allowAll: allowAll,
	}
}

func (r *Resolver) HasFeature(ctx context.Context, in capabilities.CapabilityCheck) (bool, error) {
	feature := strings.TrimSpace(in.Feature)
	if feature == "" {
		return false, errors.New("feature required")
	}

	if r.allowAll {
		return true, nil
	}

	if r == nil || r.client == nil || !r.client.IsConfigured() {
		// Preferimos fallar explícito en vez de “permitir” sin control.
		return false, ErrPlansNotConfigured
	}

	resp, err := r.client.GetFeatures(ctx, in.CondoID)
	if err != nil {
		return false, err
	}

	return resp.Features[feature], nil
}

// Resolve devuelve el mapa completo de features del condominio.
func (r *Resolver) Resolve(ctx context.Context, condoID string) (map[string]bool, error) {
	if r.allowAll {
		return map[string]bool{"*": true}, nil
	}
	if r == nil || r.client == nil || !r.client.IsConfigured() {
		return nil, ErrPlansNotConfigured
	}
	resp, err := r.client.GetFeatures(ctx, condoID)
	if err != nil {
		return nil, err
	}
	return resp.Features, nil
}
