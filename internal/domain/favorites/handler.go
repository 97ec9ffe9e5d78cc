package favorites

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/cliente/favoritos", func(fr chi.Router) {
		fr.Get("/{clienteID}", listHandler(svc))
		fr.Get("/{clienteID}/check/{platoID}", checkHandler(svc))
		fr.Post("/{clienteID}/{platoID}", addHandler(svc))
		fr.Delete("/{clienteID}/{platoID}", removeHandler(svc))
	})
}

func addHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, created, err := svc.Add(r.Context(), chi.URLParam(r, "clienteID"), chi.URLParam(r, "platoID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeDetail(w, http.StatusNotFound, "Plato no encontrado.")
				return
			}
			writeDetail(w, http.StatusInternalServerError, "No se pudo agregar el favorito.")
			return
		}

		if !created {
			writeJSON(w, http.StatusOK, map[string]any{
				"mensaje":     "Este plato ya está en tus favoritos.",
				"ya_existe":   true,
				"favorito_id": f.ID,
			})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"mensaje":   "Plato agregado a favoritos correctamente.",
			"ya_existe": false,
			"favorito": map[string]any{
				"id":             f.ID,
				"plato_id":       f.DishID,
				"fecha_agregado": f.AddedAt.Format(time.RFC3339),
			},
		})
	}
}

func removeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platoID := chi.URLParam(r, "platoID")
		err := svc.Remove(r.Context(), chi.URLParam(r, "clienteID"), platoID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeDetail(w, http.StatusNotFound, "Este plato no está en tus favoritos.")
				return
			}
			writeDetail(w, http.StatusInternalServerError, "No se pudo eliminar el favorito.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"mensaje":  "Plato eliminado de favoritos correctamente.",
			"plato_id": platoID,
		})
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByClient(r.Context(), chi.URLParam(r, "clienteID"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Cliente inválido.")
			return
		}

		type platoResponse struct {
			ID          string  `json:"id"`
			Nombre      string  `json:"nombre"`
			Descripcion string  `json:"descripcion,omitempty"`
			Precio      float64 `json:"precio"`
			Imagen      string  `json:"imagen,omitempty"`
			EspecieID   string  `json:"especie_id,omitempty"`
		}
		type favoritoResponse struct {
			FavoritoID    string        `json:"favorito_id"`
			FechaAgregado string        `json:"fecha_agregado"`
			Plato         platoResponse `json:"plato"`
		}

		out := make([]favoritoResponse, 0, len(items))
		for _, it := range items {
			out = append(out, favoritoResponse{
				FavoritoID:    it.Favorite.ID,
				FechaAgregado: it.Favorite.AddedAt.Format(time.RFC3339),
				Plato: platoResponse{
					ID:          it.Dish.ID,
					Nombre:      it.Dish.Name,
					Descripcion: it.Dish.Description,
					Precio:      it.Dish.Price.InexactFloat64(),
					Imagen:      it.Dish.ImagePath,
					EspecieID:   it.Dish.SpeciesID,
				},
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"total":     len(out),
			"favoritos": out,
		})
	}
}

func checkHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok, err := svc.IsFavorite(r.Context(), chi.URLParam(r, "clienteID"), chi.URLParam(r, "platoID"))
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "Error interno.")
			return
		}
		resp := map[string]any{"es_favorito": ok}
		if ok {
			resp["favorito_id"] = id
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// writeJSON/writeDetail duplicados por módulo a propósito.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
