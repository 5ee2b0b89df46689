package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"condo-facility-management/internal/domain/assets"
)

type assetRepo struct {
	mu   sync.RWMutex
	byID map[string]assets.Asset
}

func NewAssetRepo() assets.Repository {
	return &assetRepo{
		byID: make(map[string]assets.Asset),
	}
}

func (r *assetRepo) Create(ctx context.Context, a assets.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("asset id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("asset already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *assetRepo) Update(ctx context.Context, a assets.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("asset id required")
	}
	if _, exists := r.byID[a.ID]; !exists {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *assetRepo) GetByID(ctx context.Context, id string) (assets.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return assets.Asset{}, ErrNotFound
	}
	return a, nil
}

func (r *assetRepo) ListByCondo(ctx context.Context, condoID string) ([]assets.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]assets.Asset, 0)
	for _, a := range r.byID {
		if a.CondoID == condoID {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
