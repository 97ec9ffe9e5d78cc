package addresses

import "context"

type Repository interface {
	Create(ctx context.Context, a Address) error
	GetByID(ctx context.Context, id string) (Address, error)
	ListByClient(ctx context.Context, clientID string) ([]Address, error)
	Update(ctx context.Context, a Address) error
	Delete(ctx context.Context, id string) error

	// UnmarkPrimary quita la marca de principal a todas las
	// direcciones del cliente. Se llama antes de marcar la nueva.
	UnmarkPrimary(ctx context.Context, clientID string) error
}
