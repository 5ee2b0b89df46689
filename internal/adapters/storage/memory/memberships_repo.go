package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"condo-facility-management/internal/domain/memberships"
)

type membershipRepo struct {
	mu   sync.RWMutex
	byID map[string]memberships.Membership
}

func NewMembershipRepo() memberships.Repository {
	return &membershipRepo{
		byID: make(map[string]memberships.Membership),
	}
}

func (r *membershipRepo) Create(ctx context.Context, m memberships.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("membership id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("membership already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *membershipRepo) Update(ctx context.Context, m memberships.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("membership id required")
	}
	if _, exists := r.byID[m.ID]; !exists {
		return ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *membershipRepo) GetByID(ctx context.Context, id string) (memberships.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return memberships.Membership{}, ErrNotFound
	}
	return m, nil
}

func (r *membershipRepo) ListByCondo(ctx context.Context, condoID string) ([]memberships.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]memberships.Membership, 0)
	for _, m := range r.byID {
		if m.CondoID == condoID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *membershipRepo) ListByMember(ctx context.Context, memberUserID string) ([]memberships.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]memberships.Membership, 0)
	for _, m := range r.byID {
		if m.MemberUserID == memberUserID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *membershipRepo) GetActiveMembership(ctx context.Context, condoID, memberUserID string) (memberships.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var winner memberships.Membership
	has := false

	for _, m := range r.byID {
		if m.CondoID != condoID {
			continue
		}
		if m.MemberUserID != memberUserID {
			continue
		}
		if m.Status != memberships.StatusActive {
			continue
		}

		if !has {
			winner = m
			has = true
			continue
		}
		if m.UpdatedAt.After(winner.UpdatedAt) {
			winner = m
			continue
		}
		if m.UpdatedAt.Equal(winner.UpdatedAt) && m.CreatedAt.After(winner.CreatedAt) {
			winner = m
		}
	}

	if !has {
		return memberships.Membership{}, ErrNotFound
	}
	return winner, nil
}
