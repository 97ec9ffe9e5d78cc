package accounts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-nutrition-platform/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/login", loginHandler(svc))
		ar.Post("/register", registerHandler(svc))
		ar.Post("/register/nutricionista", registerNutricionistaHandler(svc))
		ar.Post("/logout", logoutHandler())
	})
}

type loginRequest struct {
	Correo     string `json:"correo"`
	Contrasena string `json:"contrasena"`
}

type registerRequest struct {
	Nombre       string `json:"nombre"`
	Correo       string `json:"correo"`
	Contrasena   string `json:"contrasena"`
	Telefono     string `json:"telefono"`
	Presentacion string `json:"presentacion"`
}

type usuarioResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Correo string `json:"correo"`
	RolID  int    `json:"rol_id"`
}

type authResponse struct {
	Mensaje string          `json:"mensaje"`
	Token   string          `json:"token"`
	Usuario usuarioResponse `json:"usuario"`
}

func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON inválido.")
			return
		}

		a, tok, err := svc.Login(r.Context(), req.Correo, req.Contrasena)
		if err != nil {
			switch {
			case errors.Is(err, ErrEmailUnknown):
				writeDetail(w, http.StatusNotFound, "Correo no registrado.")
			case errors.Is(err, ErrInactive):
				writeDetail(w, http.StatusForbidden, "La cuenta no está activa.")
			case errors.Is(err, ErrBadPassword):
				writeDetail(w, http.StatusUnauthorized, "Contraseña incorrecta.")
			case errors.Is(err, ErrRoleUnset):
				writeDetail(w, http.StatusBadRequest, "No se ha asignado un rol al usuario.")
			default:
				writeDetail(w, http.StatusBadRequest, "No se pudo iniciar sesión.")
			}
			return
		}

		writeJSON(w, http.StatusOK, authResponse{
			Mensaje: "Inicio de sesión exitoso.",
			Token:   tok,
			Usuario: toUsuario(a),
		})
	}
}

func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON inválido.")
			return
		}

		a, tok, err := svc.Register(r.Context(), RegisterInput{
			Name:     req.Nombre,
			Email:    req.Correo,
			Password: req.Contrasena,
			Phone:    req.Telefono,
		})
		if err != nil {
			writeRegisterError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, authResponse{
			Mensaje: "Cuenta creada exitosamente.",
			Token:   tok,
			Usuario: toUsuario(a),
		})
	}
}

func registerNutricionistaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON inválido.")
			return
		}

		a, tok, err := svc.RegisterNutricionista(r.Context(), RegisterInput{
			Name:     req.Nombre,
			Email:    req.Correo,
			Password: req.Contrasena,
			Bio:      req.Presentacion,
		})
		if err != nil {
			writeRegisterError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, authResponse{
			Mensaje: "Cuenta de nutricionista creada exitosamente.",
			Token:   tok,
			Usuario: toUsuario(a),
		})
	}
}

// logoutHandler solo valida el token recibido; la sesión real vive en el
// cliente y se destruye ahí.
func logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			writeDetail(w, http.StatusUnauthorized, "Token no proporcionado.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"mensaje": "Sesión cerrada exitosamente.",
		})
	}
}

func writeRegisterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		writeDetail(w, http.StatusBadRequest, "El correo ya está registrado.")
	case errors.Is(err, ErrInvalidInput):
		writeDetail(w, http.StatusBadRequest, "Faltan datos obligatorios.")
	default:
		writeDetail(w, http.StatusInternalServerError, "Error al crear la cuenta.")
	}
}

func toUsuario(a Account) usuarioResponse {
	return usuarioResponse{
		ID:     a.ID,
		Nombre: a.Name,
		Correo: a.Email,
		RolID:  a.RoleID,
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
