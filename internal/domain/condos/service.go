package condos

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
	Name    string
	CNPJ    string
	Address string
	Plan    Plan
}

func (s *Service) Create(ctx context.Context, managerUserID string, in CreateInput) (Condominium, error) {
	if strings.TrimSpace(managerUserID) == "" {
		return Condominium{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Condominium{}, ErrInvalidInput
	}

	plan := in.Plan
	if plan == "" {
		plan = PlanBasic
	}
	if plan != PlanBasic && plan != PlanProfessional {
		return Condominium{}, ErrInvalidInput
	}

	now := s.now()
	c := Condominium{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(in.Name),
		CNPJ:          strings.TrimSpace(in.CNPJ),
		Address:       strings.TrimSpace(in.Address),
		Plan:          plan,
		ManagerUserID: strings.TrimSpace(managerUserID),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Condominium{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Condominium, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Condominium{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByManager(ctx context.Context, managerUserID string) ([]Condominium, error) {
	managerUserID = strings.TrimSpace(managerUserID)
	if managerUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByManager(ctx, managerUserID)
}

// ManagerOf expone el síndico de un condominio.
// Se usa para evitar ciclos de imports entre módulos.
func (s *Service) ManagerOf(ctx context.Context, condoID string) (string, error) {
	c, err := s.GetByID(ctx, condoID)
	if err != nil {
		return "", err
	}
	return c.ManagerUserID, nil
}
