package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-nutrition-platform/internal/domain/favorites"
)

type favoritesRepo struct {
	mu   sync.RWMutex
	byID map[string]favorites.Favorite
}

func NewFavoritesRepo() favorites.Repository {
	return &favoritesRepo{
		byID: make(map[string]favorites.Favorite),
	}
}

func (r *favoritesRepo) Create(ctx context.Context, f favorites.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(f.ID) == "" {
		return errors.New("favorite id required")
	}
	r.byID[f.ID] = f
	return nil
}

func (r *favoritesRepo) Delete(ctx context.Context, clientID, dishID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, f := range r.byID {
		if f.ClientID == clientID && f.DishID == dishID {
			delete(r.byID, id)
			return nil
		}
	}
	return favorites.ErrNotFound
}

func (r *favoritesRepo) Get(ctx context.Context, clientID, dishID string) (favorites.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.byID {
		if f.ClientID == clientID && f.DishID == dishID {
			return f, nil
		}
	}
	return favorites.Favorite{}, favorites.ErrNotFound
}

func (r *favoritesRepo) ListByClient(ctx context.Context, clientID string) ([]favorites.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]favorites.Favorite, 0)
	for _, f := range r.byID {
		if f.ClientID == clientID {
			out = append(out, f)
		}
	}
	// Del más reciente al más antiguo, como los muestra la app.
	sort.Slice(out, func(i, j int) bool {
		return out[i].AddedAt.After(out[j].AddedAt)
	})
	return out, nil
}
