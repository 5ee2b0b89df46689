package memberships

import "context"

type Repository interface {
	Create(ctx context.Context, m Membership) error
	Update(ctx context.Context, m Membership) error
	GetByID(ctx context.Context, id string) (Membership, error)
	ListByCondo(ctx context.Context, condoID string) ([]Membership, error)
	ListByMember(ctx context.Context, memberUserID string) ([]Membership, error)
	GetActiveMembership(ctx context.Context, condoID, memberUserID string) (Membership, error)
}
