package catalog

import "context"

type Repository interface {
	ListSpecies(ctx context.Context) ([]Species, error)
	GetSpecies(ctx context.Context, id string) (Species, error)
	ListBreeds(ctx context.Context, speciesID string) ([]Breed, error)

	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id string) (Category, error)

	CreateDish(ctx context.Context, d Dish) error
	GetDish(ctx context.Context, id string) (Dish, error)
	ListPublished(ctx context.Context, categoryID string) ([]Dish, error)
	SearchByName(ctx context.Context, q string, limit int) ([]Dish, error)
}
