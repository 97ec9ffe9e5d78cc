package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrQueryTooShort = errors.New("la búsqueda requiere al menos 2 caracteres")
	ErrNotFound      = errors.New("not found")
)

const searchLimit = 10

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListSpecies(ctx context.Context) ([]Species, error) {
	return s.repo.ListSpecies(ctx)
}

func (s *Service) GetSpecies(ctx context.Context, id string) (Species, error) {
	return s.repo.GetSpecies(ctx, id)
}

func (s *Service) ListBreeds(ctx context.Context, speciesID string) ([]Breed, error) {
	if strings.TrimSpace(speciesID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListBreeds(ctx, speciesID)
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) ListDishes(ctx context.Context, categoryID string) ([]Dish, error) {
	return s.repo.ListPublished(ctx, categoryID)
}

func (s *Service) GetDish(ctx context.Context, id string) (Dish, error) {
	return s.repo.GetDish(ctx, id)
}

// Search busca platos activos por nombre. El mínimo de 2 caracteres
// también se valida en el cliente; aquí es la barrera definitiva.
func (s *Service) Search(ctx context.Context, q string) ([]Dish, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < 2 {
		return nil, ErrQueryTooShort
	}
	return s.repo.SearchByName(ctx, q, searchLimit)
}

type CreateDishInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	SpeciesID   string
	CategoryID  string
	ImagePath   string

	Published              bool
	CreatedByNutricionista bool
}

// CreateDish registra un plato nuevo (mix o plato personalizado).
func (s *Service) CreateDish(ctx context.Context, in CreateDishInput) (Dish, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Dish{}, ErrInvalidInput
	}
	if in.Price.IsNegative() {
		return Dish{}, ErrInvalidInput
	}

	d := Dish{
		ID:                     uuid.NewString(),
		Name:                   strings.TrimSpace(in.Name),
		Description:            strings.TrimSpace(in.Description),
		Price:                  in.Price,
		SpeciesID:              strings.TrimSpace(in.SpeciesID),
		CategoryID:             strings.TrimSpace(in.CategoryID),
		ImagePath:              in.ImagePath,
		Published:              in.Published,
		CreatedByNutricionista: in.CreatedByNutricionista,
		Status:                 "A",
	}

	if err := s.repo.CreateDish(ctx, d); err != nil {
		return Dish{}, err
	}
	return d, nil
}
