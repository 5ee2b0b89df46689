package assets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
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
	Name         string
	Category     Category
	Location     string
	SerialNumber string
	InstalledAt  *time.Time
	Notes        string
}

func (s *Service) Create(ctx context.Context, condoID string, in CreateInput) (Asset, error) {
	condoID = strings.TrimSpace(condoID)
	if condoID == "" {
		return Asset{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Asset{}, ErrInvalidInput
	}
	if !ValidCategory(in.Category) {
		return Asset{}, ErrInvalidInput
	}

	now := s.now()
	a := Asset{
		ID:           uuid.NewString(),
		CondoID:      condoID,
		Name:         strings.TrimSpace(in.Name),
		Category:     in.Category,
		Location:     strings.TrimSpace(in.Location),
		SerialNumber: strings.TrimSpace(in.SerialNumber),
		InstalledAt:  in.InstalledAt,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Asset{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Asset, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Asset{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByCondo(ctx context.Context, condoID string) ([]Asset, error) {
	condoID = strings.TrimSpace(condoID)
	if condoID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByCondo(ctx, condoID)
}

// PatchDate permite distinguir "campo ausente" de "campo en null"
// en un PATCH (null = limpiar la fecha).
type PatchDate struct {
	Present bool
	Value   *time.Time
}

type UpdateProfileInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name         *string
	Location     *string
	SerialNumber *string
	Notes        *string
	InstalledAt  PatchDate
}

// UpdateProfile aplica un PATCH parcial. La categoría es inmutable:
// cambiaría el plan de obligaciones ya aprovisionado.
func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (Asset, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Asset{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Asset{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Asset{}, ErrInvalidInput
		}
		a.Name = name
	}
	if in.Location != nil {
		a.Location = strings.TrimSpace(*in.Location)
	}
	if in.SerialNumber != nil {
		a.SerialNumber = strings.TrimSpace(*in.SerialNumber)
	}
	if in.Notes != nil {
		a.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.InstalledAt.Present {
		a.InstalledAt = in.InstalledAt.Value
	}

	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Asset{}, err
	}
	return a, nil
}
