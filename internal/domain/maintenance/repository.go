package maintenance

import "context"

type Repository interface {
	Create(ctx context.Context, it Item) error
	Update(ctx context.Context, it Item) error
	GetByID(ctx context.Context, id string) (Item, error)
	ListByCondo(ctx context.Context, condoID string, filter ListFilter) ([]Item, error)
	ListByAsset(ctx context.Context, assetID string) ([]Item, error)
}

// ListFilter filtra por activo. El filtro por status NO baja al repo:
// el status es derivado y se recalcula en el service antes de filtrar.
type ListFilter struct {
	AssetID string
	Limit   int
}
