package workorders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
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

type CreateInput struct {
	AssetID      string
	SourceItemID string
	Title        string
	Description  string
	Priority     Priority
	Origin       Origin
	DueDate      *time.Time
}

func (s *Service) Create(ctx context.Context, condoID, createdBy string, in CreateInput) (WorkOrder, error) {
	condoID = strings.TrimSpace(condoID)
	if condoID == "" || strings.TrimSpace(createdBy) == "" {
		return WorkOrder{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Title) == "" {
		return WorkOrder{}, ErrInvalidInput
	}

	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return WorkOrder{}, ErrInvalidInput
	}

	origin := in.Origin
	if origin == "" {
		origin = OriginManual
	}

	now := s.now()

	seq, err := s.repo.NextSequence(ctx, condoID, now.Year())
	if err != nil {
		return WorkOrder{}, err
	}

	wo := WorkOrder{
		ID:           uuid.NewString(),
		CondoID:      condoID,
		Number:       FormatNumber(now.Year(), seq),
		AssetID:      strings.TrimSpace(in.AssetID),
		SourceItemID: strings.TrimSpace(in.SourceItemID),
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Priority:     priority,
		Origin:       origin,
		Status:       StatusOpen,
		DueDate:      in.DueDate,
		CreatedBy:    strings.TrimSpace(createdBy),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, wo); err != nil {
		return WorkOrder{}, err
	}
	return wo, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (WorkOrder, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return WorkOrder{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByCondo(ctx context.Context, condoID string, filter ListFilter) ([]WorkOrder, error) {
	condoID = strings.TrimSpace(condoID)
	if condoID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByCondo(ctx, condoID, filter)
}

// Start pasa una OS abierta a in_progress.
func (s *Service) Start(ctx context.Context, id string) (WorkOrder, error) {
	return s.transition(ctx, id, StatusInProgress)
}

// Complete cierra una OS (open o in_progress).
func (s *Service) Complete(ctx context.Context, id string) (WorkOrder, error) {
	return s.transition(ctx, id, StatusCompleted)
}

// Cancel anula una OS no terminada.
func (s *Service) Cancel(ctx context.Context, id string) (WorkOrder, error) {
	return s.transition(ctx, id, StatusCancelled)
}

func (s *Service) transition(ctx context.Context, id string, target WorkOrderStatus) (WorkOrder, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return WorkOrder{}, ErrInvalidInput
	}

	wo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return WorkOrder{}, err
	}

	// Estados terminales no se reabren.
	if wo.Status == StatusCompleted || wo.Status == StatusCancelled {
		return WorkOrder{}, ErrBadState
	}

	now := s.now()

	switch target {
	case StatusInProgress:
		if wo.Status != StatusOpen {
			return WorkOrder{}, ErrBadState
		}
		wo.Status = StatusInProgress
		wo.StartedAt = &now
	case StatusCompleted:
		wo.Status = StatusCompleted
		wo.CompletedAt = &now
	case StatusCancelled:
		wo.Status = StatusCancelled
		wo.CancelledAt = &now
	default:
		return WorkOrder{}, ErrInvalidInput
	}

	wo.UpdatedAt = now

	if err := s.repo.Update(ctx, wo); err != nil {
		return WorkOrder{}, err
	}
	return wo, nil
}

// FormatNumber arma el número visible de la OS: "OS-2025-0042".
func FormatNumber(year, seq int) string {
	return fmt.Sprintf("OS-%d-%04d", year, seq)
}
