package memberships

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/cliente/subscripciones", func(sr chi.Router) {
		sr.Get("/", listPlansHandler(svc))
		sr.Get("/{subscripcionID}", planDetailHandler(svc))
		sr.Get("/{clienteID}/actual", currentHandler(svc))
		sr.Post("/{clienteID}/suscribirse", subscribeHandler(svc))
		sr.Delete("/{clienteID}/cancelar", cancelHandler(svc))
	})
}

type planResponse struct {
	ID          string   `json:"id"`
	Nombre      string   `json:"nombre"`
	Duracion    int      `json:"duracion"`
	Precio      float64  `json:"precio"`
	Descripcion string   `json:"descripcion,omitempty"`
	Beneficios  []string `json:"beneficios"`
}

func toPlanResponse(p Plan) planResponse {
	beneficios := p.Benefits
	if beneficios == nil {
		beneficios = []string{}
	}
	return planResponse{
		ID:          p.ID,
		Nombre:      p.Name,
		Duracion:    p.Duration,
		Precio:      p.Price.InexactFloat64(),
		Descripcion: p.Description,
		Beneficios:  beneficios,
	}
}

func listPlansHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plans, err := svc.ListPlans(r.Context())
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "No se pudieron cargar los planes.")
			return
		}
		out := make([]planResponse, 0, len(plans))
		for _, p := range plans {
			out = append(out, toPlanResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func planDetailHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.PlanDetail(r.Context(), chi.URLParam(r, "subscripcionID"))
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Plan de suscripción no encontrado.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":            p.ID,
			"nombre":        p.Name,
			"precio":        p.Price.InexactFloat64(),
			"duracion_dias": p.Duration,
			"descripcion":   p.Description,
			"beneficios":    toPlanResponse(p).Beneficios,
		})
	}
}

func currentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok, err := svc.Current(r.Context(), chi.URLParam(r, "clienteID"))
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "Error interno.")
			return
		}
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{
				"mensaje": "El cliente no tiene una suscripción activa.",
				"activa":  false,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"activa": true,
			"plan":   toPlanResponse(p),
		})
	}
}

// La suscripción llega como formulario con el plan elegido.
func subscribeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			if err := r.ParseForm(); err != nil {
				writeDetail(w, http.StatusBadRequest, "Formulario inválido.")
				return
			}
		}

		p, err := svc.Subscribe(r.Context(), chi.URLParam(r, "clienteID"), r.FormValue("plan_id"))
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeDetail(w, http.StatusBadRequest, "Falta el plan a contratar.")
			case errors.Is(err, ErrNotFound):
				writeDetail(w, http.StatusNotFound, "El plan seleccionado no existe o no está activo.")
			default:
				writeDetail(w, http.StatusInternalServerError, "No se pudo registrar la suscripción.")
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"mensaje":     "Suscripción actualizada exitosamente al plan " + p.Name + ".",
			"plan_id":     p.ID,
			"nombre_plan": p.Name,
		})
	}
}

func cancelHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, backToBasic, err := svc.Cancel(r.Context(), chi.URLParam(r, "clienteID"))
		if err != nil {
			if errors.Is(err, ErrNoSubscription) {
				writeDetail(w, http.StatusBadRequest, "El cliente no tiene ninguna suscripción activa para cancelar.")
				return
			}
			writeDetail(w, http.StatusInternalServerError, "Error interno.")
			return
		}
		mensaje := "Suscripción cancelada. No tienes ningún plan activo."
		if backToBasic {
			mensaje = "Suscripción cancelada. Has regresado al plan " + p.Name + "."
		}
		writeJSON(w, http.StatusOK, map[string]string{"mensaje": mensaje})
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
