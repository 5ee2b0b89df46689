package condos

import "context"

type Repository interface {
	Create(ctx context.Context, c Condominium) error
	GetByID(ctx context.Context, id string) (Condominium, error)
	ListByManager(ctx context.Context, managerUserID string) ([]Condominium, error)
}
