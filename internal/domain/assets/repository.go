package assets

import "context"

type Repository interface {
	Create(ctx context.Context, a Asset) error
	Update(ctx context.Context, a Asset) error
	GetByID(ctx context.Context, id string) (Asset, error)
	ListByCondo(ctx context.Context, condoID string) ([]Asset, error)
}
