package addresses

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/cliente/{clienteID}/direccion", createHandler(svc))
	r.Get("/cliente/{clienteID}/direcciones", listHandler(svc))
	r.Put("/cliente/direccion/{direccionID}", updateHandler(svc))
	r.Delete("/cliente/direccion/{direccionID}", deleteHandler(svc))
}

type direccionResponse struct {
	ID          string  `json:"id"`
	ClienteID   string  `json:"cliente_id"`
	Nombre      string  `json:"nombre"`
	Latitud     float64 `json:"latitud"`
	Longitud    float64 `json:"longitud"`
	Referencia  string  `json:"referencia,omitempty"`
	EsPrincipal bool    `json:"es_principal"`
}

func toDireccionResponse(a Address) direccionResponse {
	return direccionResponse{
		ID:          a.ID,
		ClienteID:   a.ClientID,
		Nombre:      a.Name,
		Latitud:     a.Latitude,
		Longitud:    a.Longitude,
		Referencia:  a.Reference,
		EsPrincipal: a.Primary,
	}
}

// El registro llega como formulario (la app lo envía así, junto con
// los campos de ubicación del mapa).
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			if err := r.ParseForm(); err != nil {
				writeDetail(w, http.StatusBadRequest, "Formulario inválido.")
				return
			}
		}

		lat, err := parseCoord(r.FormValue("latitud"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Latitud inválida.")
			return
		}
		lon, err := parseCoord(r.FormValue("longitud"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Longitud inválida.")
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{
			ClientID:  chi.URLParam(r, "clienteID"),
			Name:      r.FormValue("nombre"),
			Latitude:  lat,
			Longitude: lon,
			Reference: r.FormValue("referencia"),
			Primary:   parseBool(r.FormValue("es_principal")),
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeDetail(w, http.StatusBadRequest, "Datos de dirección incompletos.")
				return
			}
			writeDetail(w, http.StatusInternalServerError, "No se pudo registrar la dirección.")
			return
		}
		writeJSON(w, http.StatusCreated, toDireccionResponse(a))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByClient(r.Context(), chi.URLParam(r, "clienteID"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Cliente inválido.")
			return
		}
		out := make([]direccionResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toDireccionResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Nombre      *string  `json:"nombre"`
			Latitud     *float64 `json:"latitud"`
			Longitud    *float64 `json:"longitud"`
			Referencia  *string  `json:"referencia"`
			EsPrincipal *bool    `json:"es_principal"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON inválido.")
			return
		}
		a, err := svc.Update(r.Context(), chi.URLParam(r, "direccionID"), UpdateInput{
			Name:      req.Nombre,
			Latitude:  req.Latitud,
			Longitude: req.Longitud,
			Reference: req.Referencia,
			Primary:   req.EsPrincipal,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeDetail(w, http.StatusBadRequest, "Datos inválidos.")
			case errors.Is(err, ErrNotFound):
				writeDetail(w, http.StatusNotFound, "Dirección no encontrada.")
			default:
				writeDetail(w, http.StatusInternalServerError, "Error interno.")
			}
			return
		}
		writeJSON(w, http.StatusOK, toDireccionResponse(a))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "direccionID")); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeDetail(w, http.StatusNotFound, "Dirección no encontrada.")
				return
			}
			writeDetail(w, http.StatusInternalServerError, "Error interno.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"mensaje": "Dirección eliminada."})
	}
}

func parseCoord(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "si", "sí":
		return true
	}
	return false
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
