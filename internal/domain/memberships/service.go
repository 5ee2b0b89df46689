package memberships

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type InviteInput struct {
	CondoID       string
	ManagerUserID string
	MemberUserID  string
	Scopes        []Scope
}

func (s *Service) Invite(ctx context.Context, in InviteInput) (Membership, error) {
	condoID := strings.TrimSpace(in.CondoID)
	managerID := strings.TrimSpace(in.ManagerUserID)
	memberID := strings.TrimSpace(in.MemberUserID)

	if condoID == "" || managerID == "" || memberID == "" {
		return Membership{}, ErrInvalidInput
	}
	if managerID == memberID {
		return Membership{}, ErrInvalidInput
	}

	// Scopes: si viene vacío, aplicamos un default operativo (ver
	// activos + ver mantenimiento). Si viene con valores, validación
	// estricta.
	var scopes []Scope
	var err error
	if len(in.Scopes) == 0 {
		scopes = []Scope{ScopeAssetsRead, ScopeMaintenanceRead}
	} else {
		scopes, err = normalizeScopesStrict(in.Scopes)
		if err != nil {
			return Membership{}, err
		}
		if len(scopes) == 0 {
			return Membership{}, ErrInvalidInput
		}
	}

	now := s.now()

	// Re-invitar actualiza la membresía vigente en vez de duplicarla;
	// las duplicadas no revocadas se revocan best-effort.
	existing, allMatches, err := s.findLatestMatch(ctx, condoID, managerID, memberID)
	if err == nil && existing.ID != "" {
		if existing.Status != StatusRevoked {
			_ = s.revokeOtherMatches(ctx, existing.ID, allMatches, now)

			existing.Scopes = scopes
			existing.UpdatedAt = now

			if err := s.repo.Update(ctx, existing); err != nil {
				return Membership{}, err
			}
			return existing, nil
		}
	}

	m := Membership{
		ID:            uuid.NewString(),
		CondoID:       condoID,
		ManagerUserID: managerID,
		MemberUserID:  memberID,
		Scopes:        scopes,
		Status:        StatusInvited,
		CreatedAt:     now,
		UpdatedAt:     now,
		RevokedAt:     nil,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Membership{}, err
	}
	return m, nil
}

func (s *Service) Accept(ctx context.Context, membershipID, memberUserID string) (Membership, error) {
	membershipID = strings.TrimSpace(membershipID)
	memberUserID = strings.TrimSpace(memberUserID)

	if membershipID == "" || memberUserID == "" {
		return Membership{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, membershipID)
	if err != nil {
		return Membership{}, ErrNotFound
	}

	if m.MemberUserID != memberUserID {
		return Membership{}, ErrForbidden
	}
	if m.Status == StatusRevoked {
		return Membership{}, ErrBadState
	}

	// Idempotente
	if m.Status == StatusActive {
		return m, nil
	}
	if m.Status != StatusInvited {
		return Membership{}, ErrBadState
	}

	now := s.now()
	m.Status = StatusActive
	m.UpdatedAt = now

	if err := s.repo.Update(ctx, m); err != nil {
		return Membership{}, err
	}
	return m, nil
}

func (s *Service) Revoke(ctx context.Context, membershipID, managerUserID string) (Membership, error) {
	membershipID = strings.TrimSpace(membershipID)
	managerUserID = strings.TrimSpace(managerUserID)

	if membershipID == "" || managerUserID == "" {
		return Membership{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, membershipID)
	if err != nil {
		return Membership{}, ErrNotFound
	}

	if m.ManagerUserID != managerUserID {
		return Membership{}, ErrForbidden
	}

	// Idempotente
	if m.Status == StatusRevoked {
		return m, nil
	}

	now := s.now()
	m.Status = StatusRevoked
	m.UpdatedAt = now
	m.RevokedAt = &now

	if err := s.repo.Update(ctx, m); err != nil {
		return Membership{}, err
	}
	return m, nil
}

func (s *Service) ListByCondo(ctx context.Context, condoID string) ([]Membership, error) {
	condoID = strings.TrimSpace(condoID)
	if condoID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByCondo(ctx, condoID)
}

func (s *Service) ListByMember(ctx context.Context, memberUserID string) ([]Membership, error) {
	memberUserID = strings.TrimSpace(memberUserID)
	if memberUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByMember(ctx, memberUserID)
}

func (s *Service) GetActiveMembership(ctx context.Context, condoID, memberUserID string) (Membership, error) {
	condoID = strings.TrimSpace(condoID)
	memberUserID = strings.TrimSpace(memberUserID)

	if condoID == "" || memberUserID == "" {
		return Membership{}, ErrInvalidInput
	}
	m, err := s.repo.GetActiveMembership(ctx, condoID, memberUserID)
	if err != nil {
		return Membership{}, ErrNotFound
	}
	return m, nil
}

// HasScope valida si la membresía incluye un scope.
func HasScope(m Membership, scope Scope) bool {
	for _, s := range m.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

func (s *Service) findLatestMatch(ctx context.Context, condoID, managerID, memberID string) (Membership, []Membership, error) {
	items, err := s.repo.ListByCondo(ctx, condoID)
	if err != nil {
		return Membership{}, nil, err
	}

	matches := make([]Membership, 0)
	var winner Membership
	hasWinner := false

	for _, m := range items {
		if m.CondoID != condoID || m.ManagerUserID != managerID || m.MemberUserID != memberID {
			continue
		}
		matches = append(matches, m)

		if !hasWinner || m.UpdatedAt.After(winner.UpdatedAt) {
			winner = m
			hasWinner = true
		}
	}

	if !hasWinner {
		return Membership{}, matches, ErrNotFound
	}
	return winner, matches, nil
}

func (s *Service) revokeOtherMatches(ctx context.Context, winnerID string, matches []Membership, now time.Time) error {
	for _, m := range matches {
		if m.ID == "" || m.ID == winnerID {
			continue
		}
		if m.Status == StatusRevoked {
			continue
		}
		m.Status = StatusRevoked
		m.UpdatedAt = now
		m.RevokedAt = &now
		_ = s.repo.Update(ctx, m) // best-effort (MVP)
	}
	return nil
}

func normalizeScopesStrict(in []Scope) ([]Scope, error) {
	allowed := map[Scope]struct{}{
		ScopeAssetsRead:          {},
		ScopeAssetsWrite:         {},
		ScopeMaintenanceRead:     {},
		ScopeMaintenanceComplete: {},
		ScopeWorkOrdersRead:      {},
		ScopeWorkOrdersWrite:     {},
	}

	seen := map[Scope]struct{}{}
	out := make([]Scope, 0, len(in))

	for _, raw := range in {
		s := Scope(strings.TrimSpace(string(raw)))
		if s == "" {
			continue
		}
		if _, ok := allowed[s]; !ok {
			return nil, ErrInvalidInput
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out, nil
}
