package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/cliente/platos-mascotas", func(cr chi.Router) {
		cr.Get("/especies", listSpeciesHandler(svc))
		cr.Get("/especies/{especieID}/razas", listBreedsHandler(svc))
		cr.Get("/categorias", listCategoriesHandler(svc))
		cr.Get("/", listDishesHandler(svc))
		cr.Get("/detalle/{platoID}", dishDetailHandler(svc))
	})
}

type especieResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

type razaResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

type platoResponse struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion"`
	Precio      float64 `json:"precio"`
	CategoriaID string  `json:"categoria_id,omitempty"`
	EspecieID   string  `json:"especie_id,omitempty"`
	Imagen      string  `json:"imagen,omitempty"`
}

func listSpeciesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListSpecies(r.Context())
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "No se pudieron cargar las especies.")
			return
		}
		out := make([]especieResponse, 0, len(items))
		for _, sp := range items {
			out = append(out, especieResponse{ID: sp.ID, Nombre: sp.Name})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listBreedsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListBreeds(r.Context(), chi.URLParam(r, "especieID"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Especie inválida.")
			return
		}
		out := make([]razaResponse, 0, len(items))
		for _, b := range items {
			out = append(out, razaResponse{ID: b.ID, Nombre: b.Name})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listCategoriesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListCategories(r.Context())
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "No se pudieron cargar las categorías.")
			return
		}
		type categoriaResponse struct {
			ID     string `json:"id"`
			Nombre string `json:"nombre"`
		}
		out := make([]categoriaResponse, 0, len(items))
		for _, c := range items {
			out = append(out, categoriaResponse{ID: c.ID, Nombre: c.Name})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listDishesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListDishes(r.Context(), r.URL.Query().Get("categoria_id"))
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "No se pudieron cargar los platos.")
			return
		}
		out := make([]platoResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toPlatoResponse(d))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func dishDetailHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetDish(r.Context(), chi.URLParam(r, "platoID"))
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Plato no encontrado.")
			return
		}
		writeJSON(w, http.StatusOK, toPlatoResponse(d))
	}
}

func toPlatoResponse(d Dish) platoResponse {
	return platoResponse{
		ID:          d.ID,
		Nombre:      d.Name,
		Descripcion: d.Description,
		Precio:      d.Price.InexactFloat64(),
		CategoriaID: d.CategoryID,
		EspecieID:   d.SpeciesID,
		Imagen:      d.ImagePath,
	}
}

// writeJSON/writeDetail duplicados por módulo a propósito (ver pets).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
