package memberships

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Membership
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Membership{}}
}

func (r *testRepo) Create(ctx context.Context, m Membership) error {
	if m.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[m.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Update(ctx context.Context, m Membership) error {
	if _, ok := r.byID[m.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Membership, error) {
	m, ok := r.byID[id]
	if !ok {
		return Membership{}, errRepoNotFound
	}
	return m, nil
}

func (r *testRepo) ListByCondo(ctx context.Context, condoID string) ([]Membership, error) {
	out := make([]Membership, 0)
	for _, m := range r.byID {
		if m.CondoID == condoID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) ListByMember(ctx context.Context, memberUserID string) ([]Membership, error) {
	out := make([]Membership, 0)
	for _, m := range r.byID {
		if m.MemberUserID == memberUserID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) GetActiveMembership(ctx context.Context, condoID, memberUserID string) (Membership, error) {
	var winner Membership
	has := false

	for _, m := range r.byID {
		if m.CondoID != condoID || m.MemberUserID != memberUserID || m.Status != StatusActive {
			continue
		}
		if !has || m.UpdatedAt.After(winner.UpdatedAt) {
			winner = m
			has = true
		}
	}

	if !has {
		return Membership{}, errRepoNotFound
	}
	return winner, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Invite_DefaultScopes_WhenEmpty(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2025, time.December, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	m, err := svc.Invite(context.Background(), InviteInput{
		CondoID:       "condo-1",
		ManagerUserID: "sindico-1",
		MemberUserID:  "zelador-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.Status != StatusInvited {
		t.Fatalf("status = %s, want invited", m.Status)
	}
	if len(m.Scopes) != 2 || !HasScope(m, ScopeAssetsRead) || !HasScope(m, ScopeMaintenanceRead) {
		t.Fatalf("default scopes = %v", m.Scopes)
	}
}

func TestService_Invite_RejectsUnknownScope(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	_, err := svc.Invite(context.Background(), InviteInput{
		CondoID:       "condo-1",
		ManagerUserID: "sindico-1",
		MemberUserID:  "zelador-1",
		Scopes:        []Scope{"condos:delete"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Invite_SelfInviteRejected(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	_, err := svc.Invite(context.Background(), InviteInput{
		CondoID:       "condo-1",
		ManagerUserID: "sindico-1",
		MemberUserID:  "sindico-1",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Invite_ReinviteUpdatesInsteadOfDuplicating(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2025, time.December, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	first, err := svc.Invite(context.Background(), InviteInput{
		CondoID:       "condo-1",
		ManagerUserID: "sindico-1",
		MemberUserID:  "zelador-1",
		Scopes:        []Scope{ScopeAssetsRead},
	})
	if err != nil {
		t.Fatalf("first invite: %v", err)
	}

	svc.now = func() time.Time { return now.Add(time.Hour) }

	second, err := svc.Invite(context.Background(), InviteInput{
		CondoID:       "condo-1",
		ManagerUserID: "sindico-1",
		MemberUserID:  "zelador-1",
		Scopes:        []Scope{ScopeAssetsRead, ScopeMaintenanceComplete},
	})
	if err != nil {
		t.Fatalf("second invite: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("re-invite created a duplicate: %s vs %s", second.ID, first.ID)
	}
	if !HasScope(second, ScopeMaintenanceComplete) {
		t.Fatalf("scopes not updated: %v", second.Scopes)
	}

	all, _ := repo.ListByCondo(context.Background(), "condo-1")
	if len(all) != 1 {
		t.Fatalf("expected 1 membership, got %d", len(all))
	}
}

func TestService_Accept_OnlyGranteeAndIdempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	m, err := svc.Invite(context.Background(), InviteInput{
		CondoID:       "condo-1",
		ManagerUserID: "sindico-1",
		MemberUserID:  "zelador-1",
	})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}

	if _, err := svc.Accept(context.Background(), m.ID, "otro-user"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("accept by stranger: expected ErrForbidden, got %v", err)
	}

	accepted, err := svc.Accept(context.Background(), m.ID, "zelador-1")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != StatusActive {
		t.Fatalf("status = %s, want active", accepted.Status)
	}

	// Aceptar dos veces no es error.
	again, err := svc.Accept(context.Background(), m.ID, "zelador-1")
	if err != nil {
		t.Fatalf("second accept: %v", err)
	}
	if again.Status != StatusActive {
		t.Fatalf("second accept status = %s", again.Status)
	}
}

func TestService_Revoke_OnlyManagerAndIdempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	m, err := svc.Invite(context.Background(), InviteInput{
		CondoID:       "condo-1",
		ManagerUserID: "sindico-1",
		MemberUserID:  "zelador-1",
	})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if _, err := svc.Accept(context.Background(), m.ID, "zelador-1"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if _, err := svc.Revoke(context.Background(), m.ID, "zelador-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("revoke by member: expected ErrForbidden, got %v", err)
	}

	revoked, err := svc.Revoke(context.Background(), m.ID, "sindico-1")
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if revoked.Status != StatusRevoked || revoked.RevokedAt == nil {
		t.Fatalf("revoke: status=%s revokedAt=%v", revoked.Status, revoked.RevokedAt)
	}

	again, err := svc.Revoke(context.Background(), m.ID, "sindico-1")
	if err != nil {
		t.Fatalf("second revoke: %v", err)
	}
	if again.Status != StatusRevoked {
		t.Fatalf("second revoke status = %s", again.Status)
	}

	// Aceptar una membresía revocada falla.
	if _, err := svc.Accept(context.Background(), m.ID, "zelador-1"); !errors.Is(err, ErrBadState) {
		t.Fatalf("accept revoked: expected ErrBadState, got %v", err)
	}
}

func TestService_GetActiveMembership(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	m, err := svc.Invite(context.Background(), InviteInput{
		CondoID:       "condo-1",
		ManagerUserID: "sindico-1",
		MemberUserID:  "zelador-1",
		Scopes:        []Scope{ScopeMaintenanceRead, ScopeMaintenanceComplete},
	})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}

	// Antes de aceptar no hay membresía activa.
	if _, err := svc.GetActiveMembership(context.Background(), "condo-1", "zelador-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("before accept: expected ErrNotFound, got %v", err)
	}

	if _, err := svc.Accept(context.Background(), m.ID, "zelador-1"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	active, err := svc.GetActiveMembership(context.Background(), "condo-1", "zelador-1")
	if err != nil {
		t.Fatalf("after accept: %v", err)
	}
	if !HasScope(active, ScopeMaintenanceComplete) {
		t.Fatalf("scopes = %v", active.Scopes)
	}
}
