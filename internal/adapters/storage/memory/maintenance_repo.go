package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"condo-facility-management/internal/domain/maintenance"
)

type maintenanceRepo struct {
	mu   sync.RWMutex
	byID map[string]maintenance.Item
}

func NewMaintenanceRepo() maintenance.Repository {
	return &maintenanceRepo{
		byID: make(map[string]maintenance.Item),
	}
}

func (r *maintenanceRepo) Create(ctx context.Context, it maintenance.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(it.ID) == "" {
		return errors.New("item id required")
	}
	if _, exists := r.byID[it.ID]; exists {
		return errors.New("item already exists")
	}
	r.byID[it.ID] = it
	return nil
}

func (r *maintenanceRepo) Update(ctx context.Context, it maintenance.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(it.ID) == "" {
		return errors.New("item id required")
	}
	if _, exists := r.byID[it.ID]; !exists {
		return ErrNotFound
	}
	r.byID[it.ID] = it
	return nil
}

func (r *maintenanceRepo) GetByID(ctx context.Context, id string) (maintenance.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.byID[id]
	if !ok {
		return maintenance.Item{}, ErrNotFound
	}
	return it, nil
}

func (r *maintenanceRepo) ListByCondo(ctx context.Context, condoID string, filter maintenance.ListFilter) ([]maintenance.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]maintenance.Item, 0)
	for _, it := range r.byID {
		if it.CondoID != condoID {
			continue
		}
		if filter.AssetID != "" && it.AssetID != filter.AssetID {
			continue
		}
		out = append(out, it)
	}

	// Orden por vencimiento: lo más urgente primero.
	sort.Slice(out, func(i, j int) bool {
		return out[i].NextDue.Before(out[j].NextDue)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}

func (r *maintenanceRepo) ListByAsset(ctx context.Context, assetID string) ([]maintenance.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]maintenance.Item, 0)
	for _, it := range r.byID {
		if it.AssetID == assetID {
			out = append(out, it)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].NextDue.Before(out[j].NextDue)
	})

	return out, nil
}
