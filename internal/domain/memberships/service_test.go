package memberships_test

import (
	"context"
	"errors"
	"testing"

	"pet-nutrition-platform/internal/adapters/storage/memory"
	"pet-nutrition-platform/internal/domain/memberships"
)

func newService(t *testing.T) (*memberships.Service, []memberships.Plan) {
	t.Helper()

	repo := memory.NewMembershipsRepo()
	repo.Seed()
	svc := memberships.NewService(repo)

	plans, err := svc.ListPlans(context.Background())
	if err != nil || len(plans) < 2 {
		t.Fatalf("expected seeded plans, err=%v", err)
	}
	return svc, plans
}

func premiumPlan(t *testing.T, plans []memberships.Plan) memberships.Plan {
	t.Helper()
	for _, p := range plans {
		if !p.Basic {
			return p
		}
	}
	t.Fatalf("expected a non-basic plan among %+v", plans)
	return memberships.Plan{}
}

func TestSubscribeAndCurrent(t *testing.T) {
	svc, plans := newService(t)
	ctx := context.Background()

	if _, ok, err := svc.Current(ctx, "c-1"); err != nil || ok {
		t.Fatalf("expected no subscription yet, ok=%v err=%v", ok, err)
	}

	premium := premiumPlan(t, plans)
	p, err := svc.Subscribe(ctx, "c-1", premium.ID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if p.ID != premium.ID {
		t.Fatalf("expected plan %q, got %q", premium.ID, p.ID)
	}

	cur, ok, err := svc.Current(ctx, "c-1")
	if err != nil || !ok || cur.ID != premium.ID {
		t.Fatalf("expected current %q, got %+v ok=%v err=%v", premium.ID, cur, ok, err)
	}
}

func TestSubscribeUnknownPlan(t *testing.T) {
	svc, _ := newService(t)

	if _, err := svc.Subscribe(context.Background(), "c-1", "plan-fantasma"); !errors.Is(err, memberships.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Cancelar regresa al plan básico, no deja al cliente sin membresía.
func TestCancelFallsBackToBasic(t *testing.T) {
	svc, plans := newService(t)
	ctx := context.Background()

	if _, _, err := svc.Cancel(ctx, "c-1"); !errors.Is(err, memberships.ErrNoSubscription) {
		t.Fatalf("expected ErrNoSubscription, got %v", err)
	}

	premium := premiumPlan(t, plans)
	if _, err := svc.Subscribe(ctx, "c-1", premium.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	basic, backToBasic, err := svc.Cancel(ctx, "c-1")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !backToBasic || !basic.Basic {
		t.Fatalf("expected fallback to basic plan, got %+v backToBasic=%v", basic, backToBasic)
	}

	cur, ok, err := svc.Current(ctx, "c-1")
	if err != nil || !ok || !cur.Basic {
		t.Fatalf("expected basic plan current, got %+v ok=%v err=%v", cur, ok, err)
	}
}
