package catalog

import "github.com/shopspring/decimal"

// Especie soportada por la tienda (perro, gato, ...).
type Species struct {
	ID   string
	Name string
}

// Breed catálogo de razas por especie.
type Breed struct {
	ID        string
	SpeciesID string
	Name      string
}

type Category struct {
	ID   string
	Name string
}

// Dish es un plato combinado del catálogo. Los mixes de nutricionista
// también son Dish, pero ocultos al público (Published=false).
type Dish struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	SpeciesID   string
	CategoryID  string
	ImagePath   string

	Published              bool
	CreatedByNutricionista bool
	Status                 string // "A" activo, "I" inactivo
}
