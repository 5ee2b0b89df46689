package workorders

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]WorkOrder
	seq  map[string]int
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID: map[string]WorkOrder{},
		seq:  map[string]int{},
	}
}

func (r *testRepo) Create(ctx context.Context, wo WorkOrder) error {
	if wo.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[wo.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[wo.ID] = wo
	return nil
}

func (r *testRepo) Update(ctx context.Context, wo WorkOrder) error {
	if _, ok := r.byID[wo.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[wo.ID] = wo
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (WorkOrder, error) {
	wo, ok := r.byID[id]
	if !ok {
		return WorkOrder{}, errRepoNotFound
	}
	return wo, nil
}

func (r *testRepo) ListByCondo(ctx context.Context, condoID string, filter ListFilter) ([]WorkOrder, error) {
	out := make([]WorkOrder, 0)
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
	return out, nil
}

func (r *testRepo) NextSequence(ctx context.Context, condoID string, year int) (int, error) {
	key := fmt.Sprintf("%s:%d", condoID, year)
	r.seq[key]++
	return r.seq[key], nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_NumbersPerCondoAndYear(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	first, err := svc.Create(context.Background(), "condo-1", "user-1", CreateInput{Title: "Troca de lâmpadas"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Number != "OS-2025-0001" {
		t.Fatalf("first number = %q", first.Number)
	}

	second, err := svc.Create(context.Background(), "condo-1", "user-1", CreateInput{Title: "Reparo de portão"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Number != "OS-2025-0002" {
		t.Fatalf("second number = %q", second.Number)
	}

	// Otro condominio arranca su propia secuencia.
	other, err := svc.Create(context.Background(), "condo-2", "user-2", CreateInput{Title: "Pintura"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other.Number != "OS-2025-0001" {
		t.Fatalf("other condo number = %q", other.Number)
	}

	// Año nuevo reinicia la secuencia.
	svc.now = func() time.Time {
		return time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	}
	nextYear, err := svc.Create(context.Background(), "condo-1", "user-1", CreateInput{Title: "Jardinagem"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nextYear.Number != "OS-2026-0001" {
		t.Fatalf("next year number = %q", nextYear.Number)
	}
}

func TestService_Create_Defaults(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	wo, err := svc.Create(context.Background(), "condo-1", "user-1", CreateInput{Title: "Teste"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wo.Priority != PriorityMedium {
		t.Fatalf("priority = %s, want medium", wo.Priority)
	}
	if wo.Origin != OriginManual {
		t.Fatalf("origin = %s, want manual", wo.Origin)
	}
	if wo.Status != StatusOpen {
		t.Fatalf("status = %s, want open", wo.Status)
	}
}

func TestService_Create_RejectsBadInput(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	if _, err := svc.Create(context.Background(), "condo-1", "user-1", CreateInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing title: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "", "user-1", CreateInput{Title: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing condo: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "condo-1", "user-1", CreateInput{Title: "x", Priority: "urgent"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad priority: expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Transitions(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	wo, err := svc.Create(context.Background(), "condo-1", "user-1", CreateInput{Title: "Troca de bomba"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	started, err := svc.Start(context.Background(), wo.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != StatusInProgress || started.StartedAt == nil {
		t.Fatalf("start: status=%s startedAt=%v", started.Status, started.StartedAt)
	}

	// Start sobre in_progress no se permite.
	if _, err := svc.Start(context.Background(), wo.ID); !errors.Is(err, ErrBadState) {
		t.Fatalf("double start: expected ErrBadState, got %v", err)
	}

	completed, err := svc.Complete(context.Background(), wo.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != StatusCompleted || completed.CompletedAt == nil {
		t.Fatalf("complete: status=%s completedAt=%v", completed.Status, completed.CompletedAt)
	}

	// Estados terminales no se reabren ni se cancelan.
	if _, err := svc.Cancel(context.Background(), wo.ID); !errors.Is(err, ErrBadState) {
		t.Fatalf("cancel after complete: expected ErrBadState, got %v", err)
	}
	if _, err := svc.Start(context.Background(), wo.ID); !errors.Is(err, ErrBadState) {
		t.Fatalf("start after complete: expected ErrBadState, got %v", err)
	}
}

func TestService_CompleteFromOpen(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	wo, err := svc.Create(context.Background(), "condo-1", "user-1", CreateInput{Title: "Reparo rápido"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cerrar directo sin pasar por in_progress está permitido.
	completed, err := svc.Complete(context.Background(), wo.ID)
	if err != nil {
		t.Fatalf("complete from open: %v", err)
	}
	if completed.Status != StatusCompleted {
		t.Fatalf("status = %s", completed.Status)
	}
}

func TestService_CancelIsTerminal(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	wo, err := svc.Create(context.Background(), "condo-1", "user-1", CreateInput{Title: "Cancelável"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), wo.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != StatusCancelled || cancelled.CancelledAt == nil {
		t.Fatalf("cancel: status=%s cancelledAt=%v", cancelled.Status, cancelled.CancelledAt)
	}

	if _, err := svc.Complete(context.Background(), wo.ID); !errors.Is(err, ErrBadState) {
		t.Fatalf("complete after cancel: expected ErrBadState, got %v", err)
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(2025, 7); got != "OS-2025-0007" {
		t.Fatalf("got %q", got)
	}
	if got := FormatNumber(2025, 12345); got != "OS-2025-12345" {
		t.Fatalf("got %q", got)
	}
}
