package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"condo-facility-management/internal/domain/workorders"
)

type workOrderRepo struct {
	mu   sync.RWMutex
	byID map[string]workorders.WorkOrder

	// seq lleva la numeración por (condoID, año). En Postgres esto
	// sale de un MAX por índice; acá alcanza con un contador.
	seq map[string]int
}

func NewWorkOrderRepo() workorders.Repository {
	return &workOrderRepo{
		byID: make(map[string]workorders.WorkOrder),
		seq:  make(map[string]int),
	}
}

func (r *workOrderRepo) Create(ctx context.Context, wo workorders.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(wo.ID) == "" {
		return errors.New("work order id required")
	}
	if _, exists := r.byID[wo.ID]; exists {
		return errors.New("work order already exists")
	}
	r.byID[wo.ID] = wo
	return nil
}

func (r *workOrderRepo) Update(ctx context.Context, wo workorders.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(wo.ID) == "" {
		return errors.New("work order id required")
	}
	if _, exists := r.byID[wo.ID]; !exists {
		return ErrNotFound
	}
	r.byID[wo.ID] = wo
	return nil
}

func (r *workOrderRepo) GetByID(ctx context.Context, id string) (workorders.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wo, ok := r.byID[id]
	if !ok {
		return workorders.WorkOrder{}, ErrNotFound
	}
	return wo, nil
}

func (r *workOrderRepo) ListByCondo(ctx context.Context, condoID string, filter workorders.ListFilter) ([]workorders.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]workorders.WorkOrder, 0)
	for _, wo := range r.byID {
		if wo.CondoID != condoID {
			continue
		}
		if filter.Status != "" && wo.Status != filter.Status {
			continue
		}
		if filter.AssetID != "" && wo.AssetID != filter.AssetID {
			continue
		}
		out = append(out, wo)
	}

	// Más recientes primero.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}

func (r *workOrderRepo) NextSequence(ctx context.Context, condoID string, year int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s:%d", condoID, year)
	r.seq[key]++
	return r.seq[key], nil
}
