package auth

import (
	"context"
	"errors"
	"net/http"

	"pet-nutrition-platform/internal/platform/httpclient"
	"pet-nutrition-platform/internal/session"
)

var (
	ErrInvalidInput = errors.New("correo y contraseña son obligatorios")

	// ErrAccessDenied: credenciales válidas pero rol no permitido en
	// esta aplicación. La sesión NO se guarda.
	ErrAccessDenied = errors.New("acceso restringido para este rol")
)

// Workflow maneja login/registro/logout contra el API y es el único
// componente que escribe en el session store.
type Workflow struct {
	api   *httpclient.Client
	store session.Store

	// rol -> permitido; vacío = todos los roles entran.
	allowedRoles map[int]bool
}

func New(api *httpclient.Client, store session.Store) *Workflow {
	return &Workflow{api: api, store: store}
}

// WithRoleGate restringe qué roles pueden iniciar sesión. El panel web
// del nutricionista pasa (admin, nutricionista); la app móvil no gatea.
func (w *Workflow) WithRoleGate(roles ...int) *Workflow {
	w.allowedRoles = make(map[int]bool, len(roles))
	for _, r := range roles {
		w.allowedRoles[r] = true
	}
	return w
}

type usuarioPayload struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Correo string `json:"correo"`
	RolID  int    `json:"rol_id"`
}

type authPayload struct {
	Mensaje string         `json:"mensaje"`
	Token   string         `json:"token"`
	Usuario usuarioPayload `json:"usuario"`
}

// Login autentica y persiste la sesión. El gate de rol corre ANTES de
// guardar: un rol rechazado deja el store intacto.
func (w *Workflow) Login(ctx context.Context, email, password string) (session.Session, error) {
	if email == "" || password == "" {
		return session.Session{}, ErrInvalidInput
	}

	var resp authPayload
	err := w.api.DoJSON(ctx, http.MethodPost, "/auth/login", map[string]string{
		"correo":     email,
		"contrasena": password,
	}, &resp)
	if err != nil {
		return session.Session{}, err
	}

	return w.accept(resp)
}

type RegisterInput struct {
	Nombre       string
	Correo       string
	Contrasena   string
	Telefono     string
	Presentacion string
}

// RegisterCliente crea la cuenta de cliente y deja la sesión iniciada.
func (w *Workflow) RegisterCliente(ctx context.Context, in RegisterInput) (session.Session, error) {
	return w.register(ctx, "/auth/register", in)
}

// RegisterNutricionista registra al especialista (panel web).
func (w *Workflow) RegisterNutricionista(ctx context.Context, in RegisterInput) (session.Session, error) {
	return w.register(ctx, "/auth/register/nutricionista", in)
}

func (w *Workflow) register(ctx context.Context, path string, in RegisterInput) (session.Session, error) {
	if in.Nombre == "" || in.Correo == "" || in.Contrasena == "" {
		return session.Session{}, ErrInvalidInput
	}

	var resp authPayload
	err := w.api.DoJSON(ctx, http.MethodPost, path, map[string]string{
		"nombre":       in.Nombre,
		"correo":       in.Correo,
		"contrasena":   in.Contrasena,
		"telefono":     in.Telefono,
		"presentacion": in.Presentacion,
	}, &resp)
	if err != nil {
		return session.Session{}, err
	}

	return w.accept(resp)
}

func (w *Workflow) accept(resp authPayload) (session.Session, error) {
	if w.allowedRoles != nil && !w.allowedRoles[resp.Usuario.RolID] {
		return session.Session{}, ErrAccessDenied
	}

	s := session.Session{
		UserID: resp.Usuario.ID,
		Name:   resp.Usuario.Nombre,
		Email:  resp.Usuario.Correo,
		RoleID: resp.Usuario.RolID,
		Token:  resp.Token,
	}
	if err := w.store.Save(s); err != nil {
		return session.Session{}, err
	}
	return s, nil
}

// Logout limpia la sesión local sin tocar la red: el token simplemente
// se descarta y el servidor lo verá vencer solo.
func (w *Workflow) Logout() error {
	return w.store.Clear()
}

// HandleAuthError es la reacción al primer 401 de cualquier llamada
// autenticada: el token ya no sirve, así que la sesión se limpia y la
// app debe volver al estado anónimo. Los demás workflows pasan por
// aquí sus errores de red; devuelve true si la sesión fue limpiada.
func (w *Workflow) HandleAuthError(err error) bool {
	if !httpclient.IsStatus(err, http.StatusUnauthorized) {
		return false
	}
	_ = w.store.Clear()
	return true
}

// Boot expone el arranque tri-estado de sesión para la app.
func (w *Workflow) Boot() (session.Session, session.Status) {
	return session.Boot(w.store)
}
