package favorites

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"pet-nutrition-platform/internal/domain/catalog"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// Dishes es la vista del catálogo que necesita este módulo.
type Dishes interface {
	GetDish(ctx context.Context, id string) (catalog.Dish, error)
}

type Service struct {
	repo   Repository
	dishes Dishes
	now    func() time.Time
}

func NewService(repo Repository, dishes Dishes) *Service {
	return &Service{repo: repo, dishes: dishes, now: time.Now}
}

// Add marca el plato como favorito. Si ya lo era devuelve el registro
// existente y created=false; no hay duplicados.
func (s *Service) Add(ctx context.Context, clientID, dishID string) (Favorite, bool, error) {
	if clientID == "" || dishID == "" {
		return Favorite{}, false, ErrInvalidInput
	}
	if _, err := s.dishes.GetDish(ctx, dishID); err != nil {
		return Favorite{}, false, ErrNotFound
	}

	if existing, err := s.repo.Get(ctx, clientID, dishID); err == nil {
		return existing, false, nil
	}

	f := Favorite{
		ID:       uuid.NewString(),
		ClientID: clientID,
		DishID:   dishID,
		AddedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return Favorite{}, false, err
	}
	return f, true, nil
}

func (s *Service) Remove(ctx context.Context, clientID, dishID string) error {
	if clientID == "" || dishID == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, clientID, dishID)
}

// Detail es un favorito con su plato resuelto.
type Detail struct {
	Favorite Favorite
	Dish     catalog.Dish
}

// ListByClient devuelve los favoritos con el plato ya resuelto, del más
// reciente al más antiguo. Un plato retirado del catálogo simplemente
// deja de listarse.
func (s *Service) ListByClient(ctx context.Context, clientID string) ([]Detail, error) {
	if clientID == "" {
		return nil, ErrInvalidInput
	}
	favs, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	out := make([]Detail, 0, len(favs))
	for _, f := range favs {
		d, err := s.dishes.GetDish(ctx, f.DishID)
		if err != nil {
			continue
		}
		out = append(out, Detail{Favorite: f, Dish: d})
	}
	return out, nil
}

// IsFavorite reporta si el plato está marcado y con qué id.
func (s *Service) IsFavorite(ctx context.Context, clientID, dishID string) (string, bool, error) {
	f, err := s.repo.Get(ctx, clientID, dishID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return f.ID, true, nil
}
