package memberships

import (
	"context"
	"errors"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrNoSubscription = errors.New("no active subscription")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListPlans devuelve los planes activos, contratables.
func (s *Service) ListPlans(ctx context.Context) ([]Plan, error) {
	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Plan, 0, len(plans))
	for _, p := range plans {
		if p.Status == "A" {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) PlanDetail(ctx context.Context, id string) (Plan, error) {
	p, err := s.repo.GetPlan(ctx, id)
	if err != nil {
		return Plan{}, err
	}
	if p.Status != "A" {
		return Plan{}, ErrNotFound
	}
	return p, nil
}

// Current devuelve la membresía vigente del cliente si tiene una.
func (s *Service) Current(ctx context.Context, clientID string) (Plan, bool, error) {
	if clientID == "" {
		return Plan{}, false, ErrInvalidInput
	}
	planID, ok, err := s.repo.CurrentPlanID(ctx, clientID)
	if err != nil || !ok {
		return Plan{}, false, err
	}
	p, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return Plan{}, false, err
	}
	return p, true, nil
}

// Subscribe asigna el plan al cliente. El plan debe existir y estar
// activo; el pago real de la membresía queda fuera de este módulo.
func (s *Service) Subscribe(ctx context.Context, clientID, planID string) (Plan, error) {
	if clientID == "" || planID == "" {
		return Plan{}, ErrInvalidInput
	}
	p, err := s.PlanDetail(ctx, planID)
	if err != nil {
		return Plan{}, err
	}
	if err := s.repo.SetPlan(ctx, clientID, p.ID); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// Cancel baja al cliente de su membresía. Si existe un plan básico el
// cliente regresa a él; si no, queda sin plan. Devuelve el plan final.
func (s *Service) Cancel(ctx context.Context, clientID string) (Plan, bool, error) {
	if clientID == "" {
		return Plan{}, false, ErrInvalidInput
	}
	if _, ok, err := s.repo.CurrentPlanID(ctx, clientID); err != nil {
		return Plan{}, false, err
	} else if !ok {
		return Plan{}, false, ErrNoSubscription
	}

	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return Plan{}, false, err
	}
	for _, p := range plans {
		if p.Basic && p.Status == "A" {
			if err := s.repo.SetPlan(ctx, clientID, p.ID); err != nil {
				return Plan{}, false, err
			}
			return p, true, nil
		}
	}

	if err := s.repo.ClearPlan(ctx, clientID); err != nil {
		return Plan{}, false, err
	}
	return Plan{}, false, nil
}
