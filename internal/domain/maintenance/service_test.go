package maintenance

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"condo-facility-management/internal/domain/assets"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Item
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Item{}}
}

func (r *testRepo) Create(ctx context.Context, it Item) error {
	if it.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[it.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[it.ID] = it
	return nil
}

func (r *testRepo) Update(ctx context.Context, it Item) error {
	if _, ok := r.byID[it.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[it.ID] = it
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Item, error) {
	it, ok := r.byID[id]
	if !ok {
		return Item{}, errRepoNotFound
	}
	return it, nil
}

func (r *testRepo) ListByCondo(ctx context.Context, condoID string, filter ListFilter) ([]Item, error) {
	out := make([]Item, 0)
	for _, it := range r.byID {
		if it.CondoID != condoID {
			continue
		}
		if filter.AssetID != "" && it.AssetID != filter.AssetID {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (r *testRepo) ListByAsset(ctx context.Context, assetID string) ([]Item, error) {
	out := make([]Item, 0)
	for _, it := range r.byID {
		if it.AssetID == assetID {
			out = append(out, it)
		}
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_ProvisionForAsset_CreatesCatalogItems(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := date(2025, time.January, 1)
	svc.now = func() time.Time { return now }

	items, err := svc.ProvisionForAsset(context.Background(), "condo-1", "asset-1", assets.CategoryElevator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) == 0 {
		t.Fatalf("expected provisioned items for elevator")
	}

	for _, it := range items {
		if it.LastDone != nil {
			t.Fatalf("provisioned item should have no last done")
		}
		if it.Status != StatusRed && it.Status != StatusYellow {
			// Nunca ejecutado jamás puede nacer verde.
			t.Fatalf("provisioned item born %s", it.Status)
		}
		if it.NextDue.Before(now) {
			t.Fatalf("next due %v before provisioning date %v", it.NextDue, now)
		}
	}
}

func TestService_ProvisionForAsset_NoObligationsForOther(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	items, err := svc.ProvisionForAsset(context.Background(), "condo-1", "asset-1", assets.CategoryOther)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items for category other, got %d", len(items))
	}
}

func TestService_NeverExecutedDistantDueIsRed(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	today := date(2025, time.January, 1)
	svc.now = func() time.Time { return today }

	it := Item{
		ID:          "item-1",
		CondoID:     "condo-1",
		AssetID:     "asset-1",
		Title:       "Manutenção preventiva",
		Periodicity: Periodicity{6, UnitMonth},
		LastDone:    nil,
		NextDue:     date(2025, time.June, 1),
	}
	if err := repo.Create(context.Background(), it); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := svc.GetByID(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusRed {
		t.Fatalf("never executed item: got %s, want red", got.Status)
	}
}

func TestService_Complete_WithoutSpawn(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	today := date(2025, time.March, 10)
	svc.now = func() time.Time { return today }

	seed := Item{
		ID:          "item-1",
		CondoID:     "condo-1",
		AssetID:     "asset-1",
		Title:       "Limpeza de caixa d'água",
		Periodicity: Periodicity{6, UnitMonth},
		NextDue:     date(2025, time.March, 1),
	}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	done := date(2025, time.March, 10)
	it, woReq, err := svc.Complete(context.Background(), "item-1", CompleteInput{
		CompletionDate: done,
		SpawnWorkOrder: false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if woReq != nil {
		t.Fatalf("expected no work order request")
	}

	if it.LastDone == nil || !it.LastDone.Equal(done) {
		t.Fatalf("last done = %v, want %v", it.LastDone, done)
	}
	if want := date(2025, time.September, 10); !it.NextDue.Equal(want) {
		t.Fatalf("next due = %v, want %v", it.NextDue, want)
	}
	if it.Status != StatusGreen {
		t.Fatalf("status = %s, want green", it.Status)
	}
}

func TestService_Complete_FutureDateFailsWithoutMutation(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	today := date(2025, time.March, 10)
	svc.now = func() time.Time { return today }

	seed := Item{
		ID:          "item-1",
		CondoID:     "condo-1",
		AssetID:     "asset-1",
		Title:       "Teste de gerador",
		Periodicity: Periodicity{1, UnitMonth},
		NextDue:     date(2025, time.March, 15),
	}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, _, err := svc.Complete(context.Background(), "item-1", CompleteInput{
		CompletionDate: date(2025, time.March, 11),
	})
	if !errors.Is(err, ErrFutureCompletionDate) {
		t.Fatalf("expected ErrFutureCompletionDate, got %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), "item-1")
	if stored.LastDone != nil {
		t.Fatalf("failed complete must not mutate: last done = %v", stored.LastDone)
	}
	if !stored.NextDue.Equal(seed.NextDue) {
		t.Fatalf("failed complete must not mutate: next due = %v", stored.NextDue)
	}
}

func TestService_Complete_SameDayIsAllowed(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	// now con hora avanzada; la fecha de conclusión a medianoche del
	// mismo día no debe contar como "futuro".
	svc.now = func() time.Time {
		return time.Date(2025, time.March, 10, 8, 30, 0, 0, time.UTC)
	}

	seed := Item{
		ID:          "item-1",
		CondoID:     "condo-1",
		AssetID:     "asset-1",
		Title:       "Inspeção de extintores",
		Periodicity: Periodicity{1, UnitMonth},
		NextDue:     date(2025, time.March, 15),
	}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, _, err := svc.Complete(context.Background(), "item-1", CompleteInput{
		CompletionDate: date(2025, time.March, 10),
	})
	if err != nil {
		t.Fatalf("same-day completion rejected: %v", err)
	}
}

func TestService_Complete_SpawnsWorkOrderRequest(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	today := date(2025, time.January, 1)
	svc.now = func() time.Time { return today }

	seed := Item{
		ID:          "item-1",
		CondoID:     "condo-1",
		AssetID:     "asset-1",
		Title:       "Manutenção preventiva",
		Periodicity: Periodicity{6, UnitMonth},
		LastDone:    nil,
		NextDue:     date(2025, time.June, 1),
	}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	it, woReq, err := svc.Complete(context.Background(), "item-1", CompleteInput{
		CompletionDate: date(2025, time.January, 1),
		SpawnWorkOrder: true,
		AssetName:      "Elevador social",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := date(2025, time.July, 1); !it.NextDue.Equal(want) {
		t.Fatalf("next due = %v, want %v", it.NextDue, want)
	}
	if it.Status != StatusGreen {
		t.Fatalf("status = %s, want green", it.Status)
	}

	if woReq == nil {
		t.Fatalf("expected work order request")
	}
	if !woReq.DueDate.Equal(date(2025, time.July, 1)) {
		t.Fatalf("work order due date = %v", woReq.DueDate)
	}
	if woReq.SourceItemID != "item-1" || woReq.CondoID != "condo-1" || woReq.AssetID != "asset-1" {
		t.Fatalf("work order request references wrong entities: %+v", woReq)
	}
	if !strings.Contains(woReq.Title, "Elevador social") {
		t.Fatalf("work order title missing asset name: %q", woReq.Title)
	}
}

func TestService_Complete_ShortPeriodicityMayStayYellow(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	today := date(2025, time.March, 10)
	svc.now = func() time.Time { return today }

	seed := Item{
		ID:          "item-1",
		CondoID:     "condo-1",
		AssetID:     "asset-1",
		Title:       "Ronda diária",
		Periodicity: Periodicity{10, UnitDay},
		NextDue:     date(2025, time.March, 10),
	}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	it, _, err := svc.Complete(context.Background(), "item-1", CompleteInput{
		CompletionDate: today,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Con periodicidad de 10 días el nuevo vencimiento cae dentro de la
	// ventana de aviso; no es un bug.
	if it.Status != StatusYellow {
		t.Fatalf("status = %s, want yellow", it.Status)
	}
}

func TestService_Postpone(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	today := date(2025, time.January, 20)
	svc.now = func() time.Time { return today }

	done := date(2024, time.July, 15)
	seed := Item{
		ID:           "item-1",
		CondoID:      "condo-1",
		AssetID:      "asset-1",
		Title:        "Limpeza de caixa d'água",
		Periodicity:  Periodicity{6, UnitMonth},
		LastDone:     &done,
		NextDue:      date(2025, time.January, 15),
		Observations: "fornecedor agendado",
	}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	it, err := svc.Postpone(context.Background(), "item-1", date(2025, time.February, 1), "supplier delay")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !it.NextDue.Equal(date(2025, time.February, 1)) {
		t.Fatalf("next due = %v", it.NextDue)
	}
	if it.LastDone == nil || !it.LastDone.Equal(done) {
		t.Fatalf("postpone must not touch last done: %v", it.LastDone)
	}
	if it.Status != StatusYellow {
		// 12 días hasta el nuevo vencimiento.
		t.Fatalf("status = %s, want yellow", it.Status)
	}
	if !strings.Contains(it.Observations, "supplier delay") {
		t.Fatalf("reason not recorded: %q", it.Observations)
	}
	if !strings.Contains(it.Observations, "fornecedor agendado") {
		t.Fatalf("existing observations lost: %q", it.Observations)
	}
}

func TestService_Postpone_RejectsNonForwardDates(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	today := date(2025, time.January, 20)
	svc.now = func() time.Time { return today }

	seed := Item{
		ID:          "item-1",
		CondoID:     "condo-1",
		AssetID:     "asset-1",
		Title:       "Manutenção de bombas",
		Periodicity: Periodicity{1, UnitMonth},
		NextDue:     date(2025, time.February, 1),
	}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Misma fecha => rechazado.
	if _, err := svc.Postpone(context.Background(), "item-1", date(2025, time.February, 1), "x"); !errors.Is(err, ErrInvalidPostponeDate) {
		t.Fatalf("same date: expected ErrInvalidPostponeDate, got %v", err)
	}
	// Hacia atrás => rechazado.
	if _, err := svc.Postpone(context.Background(), "item-1", date(2025, time.January, 10), "x"); !errors.Is(err, ErrInvalidPostponeDate) {
		t.Fatalf("backwards: expected ErrInvalidPostponeDate, got %v", err)
	}
}

func TestService_ListByCondo_FiltersByDerivedStatus(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	today := date(2025, time.January, 1)
	svc.now = func() time.Time { return today }

	done := date(2024, time.December, 1)
	seeds := []Item{
		{ID: "green", CondoID: "condo-1", AssetID: "a1", Title: "g", Periodicity: Periodicity{6, UnitMonth}, LastDone: &done, NextDue: date(2025, time.June, 1)},
		{ID: "yellow", CondoID: "condo-1", AssetID: "a1", Title: "y", Periodicity: Periodicity{1, UnitMonth}, LastDone: &done, NextDue: date(2025, time.January, 10)},
		{ID: "red", CondoID: "condo-1", AssetID: "a2", Title: "r", Periodicity: Periodicity{1, UnitMonth}, NextDue: date(2025, time.June, 1)},
	}
	for _, it := range seeds {
		if err := repo.Create(context.Background(), it); err != nil {
			t.Fatalf("seed %s: %v", it.ID, err)
		}
	}

	reds, err := svc.ListByCondo(context.Background(), "condo-1", ListInput{Status: StatusRed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reds) != 1 || reds[0].ID != "red" {
		t.Fatalf("red filter: got %+v", reds)
	}

	all, err := svc.ListByCondo(context.Background(), "condo-1", ListInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 items, got %d", len(all))
	}
	for _, it := range all {
		if it.Status == "" {
			t.Fatalf("item %s listed without derived status", it.ID)
		}
	}
}
