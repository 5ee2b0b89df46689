package workorders

import "context"

type Repository interface {
	Create(ctx context.Context, wo WorkOrder) error
	Update(ctx context.Context, wo WorkOrder) error
	GetByID(ctx context.Context, id string) (WorkOrder, error)
	ListByCondo(ctx context.Context, condoID string, filter ListFilter) ([]WorkOrder, error)

	// NextSequence devuelve la próxima secuencia de numeración para el
	// par (condo, año). La unicidad fina queda en el store.
	NextSequence(ctx context.Context, condoID string, year int) (int, error)
}

type ListFilter struct {
	Status  WorkOrderStatus
	AssetID string
	Limit   int
}
