package memberships

import "context"

type Repository interface {
	ListPlans(ctx context.Context) ([]Plan, error)
	GetPlan(ctx context.Context, id string) (Plan, error)

	// CurrentPlanID devuelve el plan asignado al cliente, si tiene uno.
	CurrentPlanID(ctx context.Context, clientID string) (string, bool, error)
	SetPlan(ctx context.Context, clientID, planID string) error
	ClearPlan(ctx context.Context, clientID string) error
}
