package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"pet-nutrition-platform/internal/platform/httpclient"
)

// Browser es el acceso de solo lectura al catálogo público. Todas las
// llamadas funcionan sin sesión.
type Browser struct {
	api *httpclient.Client
}

func New(api *httpclient.Client) *Browser {
	return &Browser{api: api}
}

type Especie struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

type Raza struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

type Categoria struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

type Plato struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion"`
	Precio      float64 `json:"precio"`
	CategoriaID string  `json:"categoria_id"`
	EspecieID   string  `json:"especie_id"`
	Imagen      string  `json:"imagen"`
}

// ImagenURL resuelve la ruta relativa de la imagen contra el API.
func (b *Browser) ImagenURL(p Plato) string {
	return b.api.StaticURL(p.Imagen)
}

func (b *Browser) Especies(ctx context.Context) ([]Especie, error) {
	var out []Especie
	err := b.api.DoJSON(ctx, http.MethodGet, "/cliente/platos-mascotas/especies", nil, &out)
	return out, err
}

func (b *Browser) Razas(ctx context.Context, especieID string) ([]Raza, error) {
	var out []Raza
	path := fmt.Sprintf("/cliente/platos-mascotas/especies/%s/razas", url.PathEscape(especieID))
	err := b.api.DoJSON(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (b *Browser) Categorias(ctx context.Context) ([]Categoria, error) {
	var out []Categoria
	err := b.api.DoJSON(ctx, http.MethodGet, "/cliente/platos-mascotas/categorias", nil, &out)
	return out, err
}

// Platos lista el catálogo publicado, opcionalmente por categoría.
func (b *Browser) Platos(ctx context.Context, categoriaID string) ([]Plato, error) {
	path := "/cliente/platos-mascotas/"
	if categoriaID != "" {
		path += "?categoria_id=" + url.QueryEscape(categoriaID)
	}
	var out []Plato
	err := b.api.DoJSON(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (b *Browser) Detalle(ctx context.Context, platoID string) (Plato, error) {
	var out Plato
	path := "/cliente/platos-mascotas/detalle/" + url.PathEscape(platoID)
	err := b.api.DoJSON(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// BuscarItems busca ingredientes por nombre. Con menos de 2 caracteres
// no se llama a la red: el resultado es vacío, igual que el buscador
// del panel.
func (b *Browser) BuscarItems(ctx context.Context, q string) ([]Plato, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < 2 {
		return nil, nil
	}
	var out []Plato
	err := b.api.DoJSON(ctx, http.MethodGet, "/nutricionista/items/buscar?q="+url.QueryEscape(q), nil, &out)
	return out, err
}
