package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pet-nutrition-platform/internal/domain/memberships"
)

// MembershipsRepo guarda los planes y la membresía vigente por cliente.
// Expone Seed para cargar los planes base, igual que el catálogo.
type MembershipsRepo struct {
	mu       sync.RWMutex
	plans    map[string]memberships.Plan
	order    []string
	byClient map[string]string
}

func NewMembershipsRepo() *MembershipsRepo {
	return &MembershipsRepo{
		plans:    make(map[string]memberships.Plan),
		byClient: make(map[string]string),
	}
}

func (r *MembershipsRepo) ListPlans(ctx context.Context) ([]memberships.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]memberships.Plan, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.plans[id])
	}
	return out, nil
}

func (r *MembershipsRepo) GetPlan(ctx context.Context, id string) (memberships.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plans[id]
	if !ok {
		return memberships.Plan{}, memberships.ErrNotFound
	}
	return p, nil
}

func (r *MembershipsRepo) CurrentPlanID(ctx context.Context, clientID string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byClient[clientID]
	return id, ok, nil
}

func (r *MembershipsRepo) SetPlan(ctx context.Context, clientID, planID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[planID]; !ok {
		return memberships.ErrNotFound
	}
	r.byClient[clientID] = planID
	return nil
}

func (r *MembershipsRepo) ClearPlan(ctx context.Context, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byClient, clientID)
	return nil
}

// Seed carga los planes de membresía base. Idempotente.
func (r *MembershipsRepo) Seed() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.plans) > 0 {
		return
	}

	seed := []memberships.Plan{
		{
			Name:        "Básico",
			Duration:    0,
			Price:       decimal.Zero,
			Description: "Acceso al catálogo y pedidos sin beneficios adicionales.",
			Basic:       true,
		},
		{
			Name:        "Premium Mensual",
			Duration:    30,
			Price:       decimal.RequireFromString("29.90"),
			Description: "Beneficios de envío y consultas con descuento por un mes.",
			Benefits:    []string{"Envío gratis", "10% de descuento en platos", "Consulta nutricional mensual"},
		},
		{
			Name:        "Premium Anual",
			Duration:    365,
			Price:       decimal.RequireFromString("299.00"),
			Description: "Todos los beneficios premium por un año.",
			Benefits:    []string{"Envío gratis", "15% de descuento en platos", "Consultas nutricionales ilimitadas"},
		},
	}
	for _, p := range seed {
		p.ID = uuid.NewString()
		p.Status = "A"
		r.plans[p.ID] = p
		r.order = append(r.order, p.ID)
	}
}
