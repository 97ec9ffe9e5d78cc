package favorites

import "context"

type Repository interface {
	Create(ctx context.Context, f Favorite) error
	Delete(ctx context.Context, clientID, dishID string) error
	Get(ctx context.Context, clientID, dishID string) (Favorite, error)
	ListByClient(ctx context.Context, clientID string) ([]Favorite, error)
}
