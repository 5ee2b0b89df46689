package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"condo-facility-management/internal/domain/condos"
)

var (
	ErrNotFound = errors.New("not found")
)

type condoRepo struct {
	mu   sync.RWMutex
	byID map[string]condos.Condominium
}

func NewCondoRepo() condos.Repository {
	return &condoRepo{
		byID: make(map[string]condos.Condominium),
	}
}

func (r *condoRepo) Create(ctx context.Context, c condos.Condominium) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("condo id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("condo already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *condoRepo) GetByID(ctx context.Context, id string) (condos.Condominium, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return condos.Condominium{}, ErrNotFound
	}
	return c, nil
}

func (r *condoRepo) ListByManager(ctx context.Context, managerUserID string) ([]condos.Condominium, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]condos.Condominium, 0)
	for _, c := range r.byID {
		if c.ManagerUserID == managerUserID {
			out = append(out, c)
		}
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
