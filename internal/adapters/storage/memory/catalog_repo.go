package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pet-nutrition-platform/internal/domain/catalog"
)

// CatalogRepo es exportado (a diferencia del resto) porque el router
// necesita llamar a Seed al arrancar sin base de datos.
type CatalogRepo struct {
	mu         sync.RWMutex
	species    map[string]catalog.Species
	breeds     map[string][]catalog.Breed // por especie
	categories map[string]catalog.Category
	dishes     map[string]catalog.Dish
}

func NewCatalogRepo() *CatalogRepo {
	return &CatalogRepo{
		species:    make(map[string]catalog.Species),
		breeds:     make(map[string][]catalog.Breed),
		categories: make(map[string]catalog.Category),
		dishes:     make(map[string]catalog.Dish),
	}
}

func (r *CatalogRepo) ListSpecies(ctx context.Context) ([]catalog.Species, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Species, 0, len(r.species))
	for _, sp := range r.species {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepo) GetSpecies(ctx context.Context, id string) (catalog.Species, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sp, ok := r.species[id]
	if !ok {
		return catalog.Species{}, catalog.ErrNotFound
	}
	return sp, nil
}

func (r *CatalogRepo) ListBreeds(ctx context.Context, speciesID string) ([]catalog.Breed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]catalog.Breed(nil), r.breeds[speciesID]...), nil
}

func (r *CatalogRepo) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepo) GetCategory(ctx context.Context, id string) (catalog.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return catalog.Category{}, catalog.ErrNotFound
	}
	return c, nil
}

func (r *CatalogRepo) CreateDish(ctx context.Context, d catalog.Dish) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dishes[d.ID] = d
	return nil
}

func (r *CatalogRepo) GetDish(ctx context.Context, id string) (catalog.Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.dishes[id]
	if !ok {
		return catalog.Dish{}, catalog.ErrNotFound
	}
	return d, nil
}

func (r *CatalogRepo) ListPublished(ctx context.Context, categoryID string) ([]catalog.Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Dish, 0)
	for _, d := range r.dishes {
		if !d.Published || d.Status != "A" {
			continue
		}
		if categoryID != "" && d.CategoryID != categoryID {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepo) SearchByName(ctx context.Context, q string, limit int) ([]catalog.Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q = strings.ToLower(q)
	out := make([]catalog.Dish, 0)
	for _, d := range r.dishes {
		if d.Status != "A" || !d.Published {
			continue
		}
		if strings.Contains(strings.ToLower(d.Name), q) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Seed carga el catálogo base: especies, razas comunes, categorías y
// unos platos de muestra. Solo corre sobre un repo vacío.
func (r *CatalogRepo) Seed() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.species) > 0 {
		return
	}

	perro := catalog.Species{ID: uuid.NewString(), Name: "Perro"}
	gato := catalog.Species{ID: uuid.NewString(), Name: "Gato"}
	r.species[perro.ID] = perro
	r.species[gato.ID] = gato

	for _, name := range []string{"Labrador", "Bulldog", "Poodle", "Mestizo"} {
		r.breeds[perro.ID] = append(r.breeds[perro.ID], catalog.Breed{
			ID: uuid.NewString(), SpeciesID: perro.ID, Name: name,
		})
	}
	for _, name := range []string{"Siamés", "Persa", "Mestizo"} {
		r.breeds[gato.ID] = append(r.breeds[gato.ID], catalog.Breed{
			ID: uuid.NewString(), SpeciesID: gato.ID, Name: name,
		})
	}

	proteinas := catalog.Category{ID: uuid.NewString(), Name: "Proteínas"}
	vegetales := catalog.Category{ID: uuid.NewString(), Name: "Vegetales"}
	completos := catalog.Category{ID: uuid.NewString(), Name: "Platos completos"}
	for _, c := range []catalog.Category{proteinas, vegetales, completos} {
		r.categories[c.ID] = c
	}

	seedDishes := []struct {
		name, desc string
		price      string
		species    string
		category   string
	}{
		{"Pollo con arroz", "Pechuga de pollo con arroz integral", "18.50", perro.ID, completos.ID},
		{"Res con camote", "Carne de res magra y camote al vapor", "21.00", perro.ID, completos.ID},
		{"Pavo con quinua", "Pavo desmenuzado con quinua", "19.90", gato.ID, completos.ID},
		{"Pechuga de pollo", "Porción de proteína simple", "9.00", perro.ID, proteinas.ID},
		{"Mix de vegetales", "Zanahoria, brócoli y zapallo", "6.50", perro.ID, vegetales.ID},
	}
	for _, sd := range seedDishes {
		price, _ := decimal.NewFromString(sd.price)
		d := catalog.Dish{
			ID:          uuid.NewString(),
			Name:        sd.name,
			Description: sd.desc,
			Price:       price,
			SpeciesID:   sd.species,
			CategoryID:  sd.category,
			Published:   true,
			Status:      "A",
		}
		r.dishes[d.ID] = d
	}
}
