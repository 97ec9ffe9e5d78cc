package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pet-nutrition-platform/internal/platform/uploads"
)

const maxUploadBytes = 10 << 20

func RegisterRoutes(r chi.Router, svc *Service, files *uploads.Store) {
	r.Route("/cliente/mascotas", func(mr chi.Router) {
		mr.Get("/{clienteID}", listHandler(svc))
		mr.Post("/{clienteID}", createHandler(svc, files))
		mr.Get("/detalle/{mascotaID}", detailHandler(svc))
		mr.Put("/{mascotaID}", updateHandler(svc, files))
		mr.Delete("/{mascotaID}", deleteHandler(svc))

		mr.Post("/{mascotaID}/alergias", addAllergyHandler(svc))
		mr.Post("/{mascotaID}/condiciones", addConditionHandler(svc))
		mr.Post("/{mascotaID}/preferencias", addPreferenceHandler(svc))
		mr.Post("/{mascotaID}/recetas", addPrescriptionHandler(svc, files))
	})
}

type mascotaResponse struct {
	ID            string   `json:"id"`
	ClienteID     string   `json:"cliente_id"`
	Nombre        string   `json:"nombre"`
	EspecieID     string   `json:"especie_id"`
	Raza          string   `json:"raza,omitempty"`
	Edad          int      `json:"edad"`
	Sexo          string   `json:"sexo"`
	Peso          *float64 `json:"peso,omitempty"`
	Foto          string   `json:"foto,omitempty"`
	Observaciones string   `json:"observaciones,omitempty"`
	Estado        string   `json:"estado"`
}

func toMascotaResponse(p Pet) mascotaResponse {
	out := mascotaResponse{
		ID:            p.ID,
		ClienteID:     p.OwnerID,
		Nombre:        p.Name,
		EspecieID:     p.SpeciesID,
		Raza:          p.Breed,
		Edad:          p.Age,
		Sexo:          string(p.Sex),
		Foto:          p.PhotoPath,
		Observaciones: p.Observations,
		Estado:        p.Status,
	}
	if p.Weight != nil {
		w := p.Weight.InexactFloat64()
		out.Peso = &w
	}
	return out
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByOwner(r.Context(), chi.URLParam(r, "clienteID"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Cliente inválido.")
			return
		}
		out := make([]mascotaResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toMascotaResponse(p))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"total":    len(out),
			"mascotas": out,
		})
	}
}

func createHandler(svc *Service, files *uploads.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeDetail(w, http.StatusBadRequest, "Formulario inválido.")
			return
		}

		in := CreateInput{
			OwnerID:      chi.URLParam(r, "clienteID"),
			Name:         r.FormValue("nombre"),
			SpeciesID:    r.FormValue("especie_id"),
			Breed:        r.FormValue("raza"),
			Sex:          Sex(r.FormValue("sexo")),
			Observations: r.FormValue("observaciones"),
		}
		if v := r.FormValue("edad"); v != "" {
			age, err := strconv.Atoi(v)
			if err != nil {
				writeDetail(w, http.StatusBadRequest, "Edad inválida.")
				return
			}
			in.Age = age
		}
		if v := r.FormValue("peso"); v != "" {
			peso, err := decimal.NewFromString(v)
			if err != nil {
				writeDetail(w, http.StatusBadRequest, "Peso inválido.")
				return
			}
			in.Weight = &peso
		}

		if _, fh, err := r.FormFile("foto"); err == nil {
			path, err := files.SaveImage("mascotas", uuid.NewString(), fh)
			if err != nil {
				if errors.Is(err, uploads.ErrBadExtension) {
					writeDetail(w, http.StatusBadRequest, "La foto debe ser JPG o PNG.")
					return
				}
				writeDetail(w, http.StatusInternalServerError, "No se pudo guardar la foto.")
				return
			}
			in.PhotoPath = path
		}

		p, err := svc.Create(r.Context(), in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeDetail(w, http.StatusBadRequest, "Datos de mascota incompletos.")
				return
			}
			writeDetail(w, http.StatusInternalServerError, "No se pudo registrar la mascota.")
			return
		}
		writeJSON(w, http.StatusCreated, toMascotaResponse(p))
	}
}

func detailHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.Detail(r.Context(), chi.URLParam(r, "mascotaID"))
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Mascota no encontrada.")
			return
		}

		type alergiaResponse struct {
			ID          string `json:"id"`
			Nombre      string `json:"nombre"`
			Severidad   string `json:"severidad,omitempty"`
			Descripcion string `json:"descripcion,omitempty"`
		}
		type condicionResponse struct {
			ID     string `json:"id"`
			Nombre string `json:"nombre"`
			Fecha  string `json:"fecha"`
			Estado string `json:"estado"`
		}
		type preferenciaResponse struct {
			ID          string `json:"id"`
			Nombre      string `json:"nombre"`
			Descripcion string `json:"descripcion,omitempty"`
		}
		type recetaResponse struct {
			ID        string `json:"id"`
			Fecha     string `json:"fecha"`
			Archivo   string `json:"archivo"`
			Solicitud string `json:"solicitud_id,omitempty"`
			Estado    string `json:"estado"`
		}
		type notaResponse struct {
			ID          string `json:"id"`
			Descripcion string `json:"descripcion"`
			Fecha       string `json:"fecha"`
		}

		alergias := make([]alergiaResponse, 0, len(d.Allergies))
		for _, a := range d.Allergies {
			alergias = append(alergias, alergiaResponse{ID: a.ID, Nombre: a.Name, Severidad: a.Severity, Descripcion: a.Description})
		}
		condiciones := make([]condicionResponse, 0, len(d.HealthConditions))
		for _, c := range d.HealthConditions {
			condiciones = append(condiciones, condicionResponse{ID: c.ID, Nombre: c.Name, Fecha: c.Date.Format("2006-01-02"), Estado: c.Status})
		}
		preferencias := make([]preferenciaResponse, 0, len(d.FoodPreferences))
		for _, f := range d.FoodPreferences {
			preferencias = append(preferencias, preferenciaResponse{ID: f.ID, Nombre: f.Name, Descripcion: f.Description})
		}
		recetas := make([]recetaResponse, 0, len(d.Prescriptions))
		for _, rx := range d.Prescriptions {
			recetas = append(recetas, recetaResponse{ID: rx.ID, Fecha: rx.Date.Format("2006-01-02"), Archivo: rx.FilePath, Solicitud: rx.RequestID, Estado: rx.Status})
		}
		notas := make([]notaResponse, 0, len(d.AllergyNotes))
		for _, n := range d.AllergyNotes {
			notas = append(notas, notaResponse{ID: n.ID, Descripcion: n.Description, Fecha: n.Date.Format("2006-01-02")})
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"mascota":           toMascotaResponse(d.Pet),
			"alergias":          alergias,
			"condiciones_salud": condiciones,
			"preferencias":      preferencias,
			"recetas_medicas":   recetas,
			"notas_alergias":    notas,
		})
	}
}

func updateHandler(svc *Service, files *uploads.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeDetail(w, http.StatusBadRequest, "Formulario inválido.")
			return
		}
		petID := chi.URLParam(r, "mascotaID")

		var in UpdateInput
		form := r.MultipartForm.Value
		if v, ok := formValue(form, "nombre"); ok {
			in.Name = &v
		}
		if v, ok := formValue(form, "especie_id"); ok {
			in.SpeciesID = &v
		}
		if v, ok := formValue(form, "raza"); ok {
			in.Breed = &v
		}
		if v, ok := formValue(form, "sexo"); ok {
			sx := Sex(v)
			in.Sex = &sx
		}
		if v, ok := formValue(form, "observaciones"); ok {
			in.Observations = &v
		}
		if v, ok := formValue(form, "edad"); ok {
			age, err := strconv.Atoi(v)
			if err != nil {
				writeDetail(w, http.StatusBadRequest, "Edad inválida.")
				return
			}
			in.Age = &age
		}
		if v, ok := formValue(form, "peso"); ok {
			peso, err := decimal.NewFromString(v)
			if err != nil {
				writeDetail(w, http.StatusBadRequest, "Peso inválido.")
				return
			}
			in.Weight = &peso
		}

		p, err := svc.UpdateProfile(r.Context(), petID, in)
		if err != nil {
			writePetError(w, err)
			return
		}

		// La foto se actualiza después del perfil; si falla, el resto
		// de cambios ya quedó aplicado.
		if _, fh, ferr := r.FormFile("foto"); ferr == nil {
			path, serr := files.SaveImage("mascotas", uuid.NewString(), fh)
			if serr != nil {
				if errors.Is(serr, uploads.ErrBadExtension) {
					writeDetail(w, http.StatusBadRequest, "La foto debe ser JPG o PNG.")
					return
				}
				writeDetail(w, http.StatusInternalServerError, "No se pudo guardar la foto.")
				return
			}
			if p, err = svc.UpdatePhoto(r.Context(), petID, path); err != nil {
				writePetError(w, err)
				return
			}
		}

		writeJSON(w, http.StatusOK, toMascotaResponse(p))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "mascotaID")); err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"mensaje": "Mascota eliminada."})
	}
}

func addAllergyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Nombre      string `json:"nombre"`
			Severidad   string `json:"severidad"`
			Descripcion string `json:"descripcion"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON inválido.")
			return
		}
		a, err := svc.AddAllergy(r.Context(), chi.URLParam(r, "mascotaID"), req.Nombre, req.Severidad, req.Descripcion)
		if err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": a.ID, "nombre": a.Name})
	}
}

func addConditionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Nombre string `json:"nombre"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON inválido.")
			return
		}
		c, err := svc.AddHealthCondition(r.Context(), chi.URLParam(r, "mascotaID"), req.Nombre)
		if err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": c.ID, "nombre": c.Name})
	}
}

func addPreferenceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Nombre      string `json:"nombre"`
			Descripcion string `json:"descripcion"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON inválido.")
			return
		}
		f, err := svc.AddFoodPreference(r.Context(), chi.URLParam(r, "mascotaID"), req.Nombre, req.Descripcion)
		if err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": f.ID, "nombre": f.Name})
	}
}

func addPrescriptionHandler(svc *Service, files *uploads.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeDetail(w, http.StatusBadRequest, "Formulario inválido.")
			return
		}
		_, fh, err := r.FormFile("archivo")
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Falta el archivo de la receta.")
			return
		}
		path, err := files.SaveFile("recetas", "receta", fh)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "No se pudo guardar la receta.")
			return
		}
		rx, err := svc.AddPrescription(r.Context(), chi.URLParam(r, "mascotaID"), "", path)
		if err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": rx.ID, "archivo": rx.FilePath})
	}
}

func formValue(form map[string][]string, key string) (string, bool) {
	vs, ok := form[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return strings.TrimSpace(vs[0]), true
}

func writePetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeDetail(w, http.StatusBadRequest, "Datos inválidos.")
	case errors.Is(err, ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Mascota no encontrada.")
	default:
		writeDetail(w, http.StatusInternalServerError, "Error interno.")
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
