package favorites_test

import (
	"context"
	"errors"
	"testing"

	"pet-nutrition-platform/internal/adapters/storage/memory"
	"pet-nutrition-platform/internal/domain/catalog"
	"pet-nutrition-platform/internal/domain/favorites"
)

func newService(t *testing.T) (*favorites.Service, []catalog.Dish) {
	t.Helper()

	catalogRepo := memory.NewCatalogRepo()
	catalogRepo.Seed()
	catalogSvc := catalog.NewService(catalogRepo)

	dishes, err := catalogSvc.ListDishes(context.Background(), "")
	if err != nil || len(dishes) < 2 {
		t.Fatalf("expected seeded dishes, err=%v", err)
	}

	return favorites.NewService(memory.NewFavoritesRepo(), catalogSvc), dishes
}

func TestAddIsIdempotent(t *testing.T) {
	svc, dishes := newService(t)
	ctx := context.Background()

	f, created, err := svc.Add(ctx, "c-1", dishes[0].ID)
	if err != nil || !created {
		t.Fatalf("add: created=%v err=%v", created, err)
	}

	// El segundo marcado devuelve el mismo registro, sin duplicar.
	again, created, err := svc.Add(ctx, "c-1", dishes[0].ID)
	if err != nil || created {
		t.Fatalf("re-add: created=%v err=%v", created, err)
	}
	if again.ID != f.ID {
		t.Fatalf("expected same favorite, got %q vs %q", again.ID, f.ID)
	}

	list, err := svc.ListByClient(ctx, "c-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 favorite, got %d", len(list))
	}
}

func TestAddUnknownDish(t *testing.T) {
	svc, _ := newService(t)

	if _, _, err := svc.Add(context.Background(), "c-1", "plato-fantasma"); !errors.Is(err, favorites.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveAndCheck(t *testing.T) {
	svc, dishes := newService(t)
	ctx := context.Background()

	if err := svc.Remove(ctx, "c-1", dishes[0].ID); !errors.Is(err, favorites.ErrNotFound) {
		t.Fatalf("expected ErrNotFound removing unmarked dish, got %v", err)
	}

	f, _, err := svc.Add(ctx, "c-1", dishes[0].ID)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	id, ok, err := svc.IsFavorite(ctx, "c-1", dishes[0].ID)
	if err != nil || !ok || id != f.ID {
		t.Fatalf("expected favorite %q, got id=%q ok=%v err=%v", f.ID, id, ok, err)
	}

	if err := svc.Remove(ctx, "c-1", dishes[0].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := svc.IsFavorite(ctx, "c-1", dishes[0].ID); ok {
		t.Fatalf("expected favorite gone after remove")
	}
}

func TestListResolvesDishesPerClient(t *testing.T) {
	svc, dishes := newService(t)
	ctx := context.Background()

	if _, _, err := svc.Add(ctx, "c-1", dishes[0].ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := svc.Add(ctx, "c-1", dishes[1].ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := svc.Add(ctx, "c-2", dishes[0].ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	list, err := svc.ListByClient(ctx, "c-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 favorites for c-1, got %d", len(list))
	}
	for _, it := range list {
		if it.Dish.Name == "" {
			t.Fatalf("expected dish resolved, got %+v", it)
		}
	}
}
