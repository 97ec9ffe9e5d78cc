package nutrition

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"pet-nutrition-platform/internal/middleware"
	"pet-nutrition-platform/internal/platform/uploads"
)

const maxRequestBytes = 20 << 20

func RegisterRoutes(r chi.Router, svc *Service, files *uploads.Store) {
	r.Post("/cliente/solicitud-especializada/{clienteID}", submitHandler(svc, files))
	r.Get("/cliente/solicitudes/{clienteID}", listByClientHandler(svc))
	r.Get("/cliente/platos-personalizados/{clienteID}", personalByClientHandler(svc))
	r.Get("/cliente/platos-personalizados/mascota/{mascotaID}", personalByPetHandler(svc))

	r.Get("/cliente/notificaciones/{clienteID}", notificationsHandler(svc))
	r.Get("/cliente/notificaciones/{clienteID}/no-leidas", unreadHandler(svc))
	r.Put("/cliente/notificaciones/leer/{notificacionID}", markReadHandler(svc))

	r.Route("/nutricionista", func(nr chi.Router) {
		nr.Get("/pedidos/pendientes", pendingHandler(svc))
		nr.Get("/pedidos/{solicitudID}", requestDetailHandler(svc))
		nr.Post("/pedidos/{solicitudID}/revisar", reviewHandler(svc))
		nr.Post("/platos/mix", createMixHandler(svc))
		nr.Get("/items/buscar", searchItemsHandler(svc))
		nr.Get("/historial", historyHandler(svc))
	})
}

type solicitudResponse struct {
	ID        string `json:"id"`
	ClienteID string `json:"cliente_id"`
	MascotaID string `json:"mascota_id"`
	Objetivo  string `json:"objetivo"`
	Receta    string `json:"receta_medica,omitempty"`
	Adjunto   string `json:"archivo_adicional,omitempty"`
	Estado    string `json:"estado"`
	Fecha     string `json:"fecha"`
}

type consultaResponse struct {
	ID              string `json:"id"`
	SolicitudID     string `json:"solicitud_id"`
	NutricionistaID string `json:"nutricionista_id"`
	Diagnostico     string `json:"diagnostico"`
	Recomendaciones string `json:"recomendaciones"`
	Observaciones   string `json:"observaciones"`
	Fecha           string `json:"fecha"`
}

func toSolicitudResponse(r Request) solicitudResponse {
	return solicitudResponse{
		ID:        r.ID,
		ClienteID: r.ClientID,
		MascotaID: r.PetID,
		Objetivo:  r.Objective,
		Receta:    r.RecetaPath,
		Adjunto:   r.ExtraFilePath,
		Estado:    r.Status,
		Fecha:     r.CreatedAt.Format("2006-01-02 15:04"),
	}
}

func toConsultaResponse(c Consultation) consultaResponse {
	return consultaResponse{
		ID:              c.ID,
		SolicitudID:     c.RequestID,
		NutricionistaID: c.NutricionistaID,
		Diagnostico:     c.Diagnosis,
		Recomendaciones: c.Recommendations,
		Observaciones:   c.Observations,
		Fecha:           c.CreatedAt.Format("2006-01-02 15:04"),
	}
}

// El formulario llega multipart: campos de texto, listas en JSON y
// hasta dos archivos (receta_medica, archivo_adicional).
func submitHandler(svc *Service, files *uploads.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxRequestBytes); err != nil {
			writeDetail(w, http.StatusBadRequest, "Formulario inválido.")
			return
		}

		in := SubmitInput{
			ClientID:  chi.URLParam(r, "clienteID"),
			PetID:     r.FormValue("mascota_id"),
			Objective: r.FormValue("objetivo"),
		}

		// Listas serializadas por la app como JSON dentro del form.
		if v := r.FormValue("alergias"); v != "" {
			var items []struct {
				Descripcion string `json:"descripcion"`
			}
			if err := json.Unmarshal([]byte(v), &items); err != nil {
				writeDetail(w, http.StatusBadRequest, "Lista de alergias inválida.")
				return
			}
			for _, it := range items {
				in.Allergies = append(in.Allergies, SubmitAllergy{Description: it.Descripcion})
			}
		}
		if v := r.FormValue("condiciones_salud"); v != "" {
			var items []struct {
				Nombre string `json:"nombre"`
			}
			if err := json.Unmarshal([]byte(v), &items); err != nil {
				writeDetail(w, http.StatusBadRequest, "Lista de condiciones inválida.")
				return
			}
			for _, it := range items {
				in.Conditions = append(in.Conditions, SubmitCondition{Name: it.Nombre})
			}
		}
		if v := r.FormValue("preferencias"); v != "" {
			var items []struct {
				Nombre      string `json:"nombre"`
				Descripcion string `json:"descripcion"`
			}
			if err := json.Unmarshal([]byte(v), &items); err != nil {
				writeDetail(w, http.StatusBadRequest, "Lista de preferencias inválida.")
				return
			}
			for _, it := range items {
				in.Preferences = append(in.Preferences, SubmitPreference{Name: it.Nombre, Description: it.Descripcion})
			}
		}

		if _, fh, err := r.FormFile("receta_medica"); err == nil {
			path, err := files.SaveFile("recetas", "receta", fh)
			if err != nil {
				writeDetail(w, http.StatusInternalServerError, "No se pudo guardar la receta.")
				return
			}
			in.RecetaPath = path
		}
		if _, fh, err := r.FormFile("archivo_adicional"); err == nil {
			path, err := files.SaveFile("adjuntos", "adjunto", fh)
			if err != nil {
				writeDetail(w, http.StatusInternalServerError, "No se pudo guardar el adjunto.")
				return
			}
			in.ExtraFilePath = path
		}

		req, err := svc.SubmitRequest(r.Context(), in)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeDetail(w, http.StatusBadRequest, "Datos de la solicitud incompletos.")
			case errors.Is(err, ErrNotOwner):
				writeDetail(w, http.StatusForbidden, "La mascota no pertenece al cliente.")
			case errors.Is(err, ErrNotFound):
				writeDetail(w, http.StatusNotFound, "Mascota no encontrada.")
			default:
				writeDetail(w, http.StatusInternalServerError, "No se pudo registrar la solicitud.")
			}
			return
		}
		writeJSON(w, http.StatusCreated, toSolicitudResponse(req))
	}
}

func listByClientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByClient(r.Context(), chi.URLParam(r, "clienteID"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Cliente inválido.")
			return
		}
		out := make([]solicitudResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toSolicitudResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func pendingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.PendingRequests(r.Context())
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "No se pudieron cargar las solicitudes.")
			return
		}
		out := make([]solicitudResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toSolicitudResponse(it))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"total":       len(out),
			"solicitudes": out,
		})
	}
}

func requestDetailHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.Detail(r.Context(), chi.URLParam(r, "solicitudID"))
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Solicitud no encontrada.")
			return
		}

		type alergiaNota struct {
			Descripcion string `json:"descripcion"`
			Fecha       string `json:"fecha"`
		}
		notas := make([]alergiaNota, 0, len(d.Pet.AllergyNotes))
		for _, n := range d.Pet.AllergyNotes {
			notas = append(notas, alergiaNota{Descripcion: n.Description, Fecha: n.Date.Format("2006-01-02")})
		}
		type condicion struct {
			Nombre string `json:"nombre"`
			Estado string `json:"estado"`
		}
		condiciones := make([]condicion, 0, len(d.Pet.HealthConditions))
		for _, c := range d.Pet.HealthConditions {
			condiciones = append(condiciones, condicion{Nombre: c.Name, Estado: c.Status})
		}
		type preferencia struct {
			Nombre      string `json:"nombre"`
			Descripcion string `json:"descripcion,omitempty"`
		}
		preferencias := make([]preferencia, 0, len(d.Pet.FoodPreferences))
		for _, f := range d.Pet.FoodPreferences {
			preferencias = append(preferencias, preferencia{Nombre: f.Name, Descripcion: f.Description})
		}

		resp := map[string]any{
			"solicitud": toSolicitudResponse(d.Request),
			"mascota": map[string]any{
				"id":         d.Pet.Pet.ID,
				"nombre":     d.Pet.Pet.Name,
				"especie_id": d.Pet.Pet.SpeciesID,
				"raza":       d.Pet.Pet.Breed,
				"edad":       d.Pet.Pet.Age,
				"sexo":       string(d.Pet.Pet.Sex),
				"foto":       d.Pet.Pet.PhotoPath,
			},
			"alergias":          notas,
			"condiciones_salud": condiciones,
			"preferencias":      preferencias,
		}
		if d.Consultation != nil {
			resp["consulta"] = toConsultaResponse(*d.Consultation)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func reviewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Sesión requerida.")
			return
		}
		var req struct {
			Diagnostico     string `json:"diagnostico"`
			Recomendaciones string `json:"recomendaciones"`
			Observaciones   string `json:"observaciones"`
			Aprobar         bool   `json:"aprobar"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON inválido.")
			return
		}
		c, err := svc.Review(r.Context(), chi.URLParam(r, "solicitudID"), ReviewInput{
			NutricionistaID: claims.UserID,
			Diagnosis:       req.Diagnostico,
			Recommendations: req.Recomendaciones,
			Observations:    req.Observaciones,
			Approve:         req.Aprobar,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeDetail(w, http.StatusBadRequest, "Diagnóstico, recomendaciones y observaciones son obligatorios.")
			case errors.Is(err, ErrAlreadyReviewed):
				writeDetail(w, http.StatusConflict, "La solicitud ya fue revisada.")
			case errors.Is(err, ErrNotFound):
				writeDetail(w, http.StatusNotFound, "Solicitud no encontrada.")
			default:
				writeDetail(w, http.StatusInternalServerError, "No se pudo registrar la revisión.")
			}
			return
		}
		writeJSON(w, http.StatusCreated, toConsultaResponse(c))
	}
}

func createMixHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Sesión requerida.")
			return
		}
		var req struct {
			ClienteID   string   `json:"cliente_id"`
			MascotaIDs  []string `json:"mascota_ids"`
			Nombre      string   `json:"nombre"`
			Descripcion string   `json:"descripcion"`
			Total       float64  `json:"total"`
			Items       []struct {
				PlatoID  string `json:"plato_id"`
				Cantidad int    `json:"cantidad"`
			} `json:"items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON inválido.")
			return
		}

		in := MixInput{
			NutricionistaID: claims.UserID,
			ClientID:        req.ClienteID,
			PetIDs:          req.MascotaIDs,
			Name:            req.Nombre,
			Description:     req.Descripcion,
			Total:           decimal.NewFromFloat(req.Total),
		}
		for _, it := range req.Items {
			in.Components = append(in.Components, MixComponent{DishID: it.PlatoID, Quantity: it.Cantidad})
		}

		dish, links, err := svc.CreateMix(r.Context(), in)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeDetail(w, http.StatusBadRequest, "Datos del mix incompletos.")
			case errors.Is(err, ErrNotOwner):
				writeDetail(w, http.StatusForbidden, "Alguna mascota no pertenece al cliente.")
			case errors.Is(err, ErrNotFound):
				writeDetail(w, http.StatusNotFound, "Ingrediente o mascota no encontrados.")
			default:
				writeDetail(w, http.StatusInternalServerError, "No se pudo crear el mix.")
			}
			return
		}

		petIDs := make([]string, 0, len(links))
		for _, l := range links {
			petIDs = append(petIDs, l.PetID)
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"mensaje":  "¡Dieta Lista!",
			"plato_id": dish.ID,
			"mascotas": petIDs,
		})
	}
}

func searchItemsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.SearchItems(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "La búsqueda requiere al menos 2 caracteres.")
			return
		}
		type itemResponse struct {
			ID     string  `json:"id"`
			Nombre string  `json:"nombre"`
			Precio float64 `json:"precio"`
		}
		out := make([]itemResponse, 0, len(items))
		for _, d := range items {
			out = append(out, itemResponse{ID: d.ID, Nombre: d.Name, Precio: d.Price.InexactFloat64()})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Sesión requerida.")
			return
		}
		items, err := svc.ConsultationHistory(r.Context(), claims.UserID)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "No se pudo cargar el historial.")
			return
		}
		out := make([]consultaResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toConsultaResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func personalByClientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.PersonalDishesByClient(r.Context(), chi.URLParam(r, "clienteID"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Cliente inválido.")
			return
		}
		writeJSON(w, http.StatusOK, toPersonalResponses(items))
	}
}

func personalByPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.PersonalDishesByPet(r.Context(), chi.URLParam(r, "mascotaID"))
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "Error interno.")
			return
		}
		writeJSON(w, http.StatusOK, toPersonalResponses(items))
	}
}

type personalResponse struct {
	ID          string  `json:"id"`
	MascotaID   string  `json:"mascota_id"`
	PlatoID     string  `json:"plato_id"`
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion,omitempty"`
	Total       float64 `json:"total"`
	Fecha       string  `json:"fecha"`
}

func toPersonalResponses(items []PersonalDishView) []personalResponse {
	out := make([]personalResponse, 0, len(items))
	for _, v := range items {
		out = append(out, personalResponse{
			ID:          v.Link.ID,
			MascotaID:   v.Link.PetID,
			PlatoID:     v.Dish.ID,
			Nombre:      v.Dish.Name,
			Descripcion: v.Dish.Description,
			Total:       v.Link.Total.InexactFloat64(),
			Fecha:       v.Link.CreatedAt.Format("2006-01-02"),
		})
	}
	return out
}

func notificationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Notifications(r.Context(), chi.URLParam(r, "clienteID"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Cliente inválido.")
			return
		}
		type notificacionResponse struct {
			ID     string `json:"id"`
			Titulo string `json:"titulo"`
			Cuerpo string `json:"cuerpo"`
			Leida  bool   `json:"leida"`
			Fecha  string `json:"fecha"`
		}
		out := make([]notificacionResponse, 0, len(items))
		for _, n := range items {
			out = append(out, notificacionResponse{
				ID:     n.ID,
				Titulo: n.Title,
				Cuerpo: n.Body,
				Leida:  n.Read,
				Fecha:  n.CreatedAt.Format("2006-01-02 15:04"),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func unreadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, err := svc.UnreadCount(r.Context(), chi.URLParam(r, "clienteID"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Cliente inválido.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"total": total})
	}
}

func markReadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.MarkNotificationRead(r.Context(), chi.URLParam(r, "notificacionID")); err != nil {
			writeDetail(w, http.StatusNotFound, "Notificación no encontrada.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"mensaje": "Notificación leída."})
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
