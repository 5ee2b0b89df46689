package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"condo-facility-management/internal/domain/assets"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrFutureCompletionDate = errors.New("completion date cannot be in the future")
	ErrInvalidPostponeDate  = errors.New("postpone date must be after current due date")
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

// ProvisionForAsset crea un ítem por cada obligación del catálogo para
// la categoría del activo. Los ítems nacen sin LastDone (nunca
// ejecutados => rojo) con NextDue = hoy + periodicidad.
func (s *Service) ProvisionForAsset(ctx context.Context, condoID, assetID string, category assets.Category) ([]Item, error) {
	condoID = strings.TrimSpace(condoID)
	assetID = strings.TrimSpace(assetID)
	if condoID == "" || assetID == "" {
		return nil, ErrInvalidInput
	}

	obligations := ObligationsFor(category)
	if len(obligations) == 0 {
		return nil, nil
	}

	now := s.now()
	out := make([]Item, 0, len(obligations))

	for _, ob := range obligations {
		nextDue, err := ob.Periodicity.Next(now)
		if err != nil {
			return nil, err
		}

		it := Item{
			ID:          uuid.NewString(),
			CondoID:     condoID,
			AssetID:     assetID,
			Title:       ob.Title,
			Periodicity: ob.Periodicity,
			LastDone:    nil,
			NextDue:     nextDue,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		it.Status = Classify(it.LastDone, it.NextDue, now)

		if err := s.repo.Create(ctx, it); err != nil {
			return nil, err
		}
		out = append(out, it)
	}

	return out, nil
}

type CreateInput struct {
	AssetID      string
	Title        string
	Periodicity  Periodicity
	NextDue      *time.Time // opcional; default = hoy + periodicidad
	Observations string
}

// Create registra una obligación manual (fuera del catálogo).
func (s *Service) Create(ctx context.Context, condoID string, in CreateInput) (Item, error) {
	condoID = strings.TrimSpace(condoID)
	if condoID == "" || strings.TrimSpace(in.AssetID) == "" || strings.TrimSpace(in.Title) == "" {
		return Item{}, ErrInvalidInput
	}
	if err := in.Periodicity.Validate(); err != nil {
		return Item{}, err
	}

	now := s.now()

	nextDue := time.Time{}
	if in.NextDue != nil {
		nextDue = *in.NextDue
	} else {
		nd, err := in.Periodicity.Next(now)
		if err != nil {
			return Item{}, err
		}
		nextDue = nd
	}

	it := Item{
		ID:           uuid.NewString(),
		CondoID:      condoID,
		AssetID:      strings.TrimSpace(in.AssetID),
		Title:        strings.TrimSpace(in.Title),
		Periodicity:  in.Periodicity,
		NextDue:      nextDue,
		Observations: strings.TrimSpace(in.Observations),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	it.Status = Classify(it.LastDone, it.NextDue, now)

	if err := s.repo.Create(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, ErrInvalidInput
	}

	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Item{}, err
	}

	it.Status = Classify(it.LastDone, it.NextDue, s.now())
	return it, nil
}

// ListInput filtra el listado. Status se aplica acá (no en el repo)
// porque es derivado de las fechas al momento de la lectura.
type ListInput struct {
	AssetID string
	Status  Status
	Limit   int
}

func (s *Service) ListByCondo(ctx context.Context, condoID string, in ListInput) ([]Item, error) {
	condoID = strings.TrimSpace(condoID)
	if condoID == "" {
		return nil, ErrInvalidInput
	}

	items, err := s.repo.ListByCondo(ctx, condoID, ListFilter{
		AssetID: strings.TrimSpace(in.AssetID),
		Limit:   in.Limit,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]Item, 0, len(items))
	for _, it := range items {
		it.Status = Classify(it.LastDone, it.NextDue, now)
		if in.Status != "" && it.Status != in.Status {
			continue
		}
		out = append(out, it)
	}

	return out, nil
}

type CompleteInput struct {
	CompletionDate time.Time
	SpawnWorkOrder bool
	Notes          string

	// AssetName lo aporta el caller (handler) para armar el título de
	// la OS sin acoplar este módulo al repo de activos.
	AssetName string
}

// Complete registra la ejecución de un ítem:
//  1. valida CompletionDate <= hoy (día de calendario),
//  2. LastDone = CompletionDate,
//  3. NextDue = periodicidad sumada a CompletionDate,
//  4. recalcula el semáforo,
//  5. si SpawnWorkOrder, devuelve el pedido de OS para que el caller
//     lo delegue a workorders (escritura independiente, sin rollback).
func (s *Service) Complete(ctx context.Context, itemID string, in CompleteInput) (Item, *WorkOrderRequest, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" || in.CompletionDate.IsZero() {
		return Item{}, nil, ErrInvalidInput
	}

	now := s.now()
	if wholeDaysBetween(now, in.CompletionDate) > 0 {
		return Item{}, nil, ErrFutureCompletionDate
	}

	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return Item{}, nil, err
	}

	nextDue, err := it.Periodicity.Next(in.CompletionDate)
	if err != nil {
		// Falla de periodicidad = problema de carga de datos; se
		// propaga tal cual, sin tocar el ítem.
		return Item{}, nil, err
	}

	done := in.CompletionDate
	it.LastDone = &done
	it.NextDue = nextDue
	it.UpdatedAt = now
	// Con periodicidades cortas (diaria/semanal) esto puede quedar
	// yellow o red de inmediato; es correcto, no un bug.
	it.Status = Classify(it.LastDone, it.NextDue, now)

	if err := s.repo.Update(ctx, it); err != nil {
		return Item{}, nil, err
	}

	if !in.SpawnWorkOrder {
		return it, nil, nil
	}

	title := it.Title
	if name := strings.TrimSpace(in.AssetName); name != "" {
		title = fmt.Sprintf("%s - %s", it.Title, name)
	}
	desc := strings.TrimSpace(in.Notes)
	if desc == "" {
		desc = "OS gerada automaticamente ao concluir a manutenção."
	}

	return it, &WorkOrderRequest{
		CondoID:      it.CondoID,
		AssetID:      it.AssetID,
		SourceItemID: it.ID,
		Title:        title,
		Description:  desc,
		DueDate:      nextDue,
	}, nil
}

// Postpone corre NextDue sin registrar ejecución (LastDone no cambia).
// Exigimos que la nueva fecha sea estrictamente posterior a la actual
// para evitar reprogramaciones hacia atrás por accidente.
func (s *Service) Postpone(ctx context.Context, itemID string, newNextDue time.Time, reason string) (Item, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" || newNextDue.IsZero() {
		return Item{}, ErrInvalidInput
	}

	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return Item{}, err
	}

	if wholeDaysBetween(it.NextDue, newNextDue) <= 0 {
		return Item{}, ErrInvalidPostponeDate
	}

	now := s.now()
	it.NextDue = newNextDue
	it.UpdatedAt = now
	it.Status = Classify(it.LastDone, it.NextDue, now)

	if reason = strings.TrimSpace(reason); reason != "" {
		note := fmt.Sprintf("[%s] adiado: %s", now.Format("2006-01-02"), reason)
		if it.Observations == "" {
			it.Observations = note
		} else {
			it.Observations = it.Observations + "\n" + note
		}
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}
