package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pet-nutrition-platform/internal/client/auth"
	"pet-nutrition-platform/internal/platform/httpclient"
	"pet-nutrition-platform/internal/session"
)

func authServer(t *testing.T, rolID int) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"mensaje": "Inicio de sesión exitoso.",
			"token":   "tok-xyz",
			"usuario": map[string]any{
				"id":     "u-1",
				"nombre": "Ana",
				"correo": "ana@test.pe",
				"rol_id": rolID,
			},
		})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newWorkflow(t *testing.T, baseURL string, store session.Store) *auth.Workflow {
	t.Helper()
	api, err := httpclient.New(baseURL, 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return auth.New(api.WithTokens(store), store)
}

func TestLoginSavesSession(t *testing.T) {
	ts := authServer(t, 2)
	store := session.NewMemStore()

	s, err := newWorkflow(t, ts.URL, store).Login(context.Background(), "ana@test.pe", "secreto")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if s.UserID != "u-1" || s.Token != "tok-xyz" || s.RoleID != 2 {
		t.Fatalf("unexpected session: %+v", s)
	}

	saved, ok, _ := store.Load()
	if !ok || saved.Token != "tok-xyz" {
		t.Fatalf("expected session persisted, got ok=%v %+v", ok, saved)
	}
}

func TestLoginValidatesInputLocally(t *testing.T) {
	// BaseURL inválido a propósito: la validación corre antes de la red.
	api, err := httpclient.New("", time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	w := auth.New(api, session.NewMemStore())

	if _, err := w.Login(context.Background(), "", "pass"); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := w.Login(context.Background(), "ana@test.pe", ""); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

// El gate de rol corre ANTES de guardar: un cliente (rol 2) que intenta
// entrar al panel del nutricionista no deja rastro en el store.
func TestRoleGateRejectsWithoutSaving(t *testing.T) {
	ts := authServer(t, 2)
	store := session.NewMemStore()

	w := newWorkflow(t, ts.URL, store).WithRoleGate(1, 3)
	if _, err := w.Login(context.Background(), "ana@test.pe", "secreto"); !errors.Is(err, auth.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}

	if _, ok, _ := store.Load(); ok {
		t.Fatalf("store must stay empty after denied role")
	}
	if store.Token() != "" {
		t.Fatalf("no token may leak into the store")
	}
}

func TestRoleGateAllowsListedRole(t *testing.T) {
	ts := authServer(t, 3)
	store := session.NewMemStore()

	w := newWorkflow(t, ts.URL, store).WithRoleGate(1, 3)
	s, err := w.Login(context.Background(), "nutri@test.pe", "secreto")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if s.RoleID != 3 {
		t.Fatalf("expected rol 3, got %d", s.RoleID)
	}
}

func TestRegisterClienteSavesSession(t *testing.T) {
	ts := authServer(t, 2)
	store := session.NewMemStore()

	s, err := newWorkflow(t, ts.URL, store).RegisterCliente(context.Background(), auth.RegisterInput{
		Nombre:     "Ana",
		Correo:     "ana@test.pe",
		Contrasena: "secreto",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if s.Token == "" {
		t.Fatalf("expected session with token")
	}
}

// Logout limpia el store sin hacer ninguna llamada al servidor.
func TestLogoutClearsWithoutNetwork(t *testing.T) {
	var requests atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	store := session.NewMemStore()
	_ = store.Save(session.Session{UserID: "u-1", Token: "tok-viejo"})

	if err := newWorkflow(t, ts.URL, store).Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok, _ := store.Load(); ok {
		t.Fatalf("expected store cleared")
	}
	if requests.Load() != 0 {
		t.Fatalf("logout must not hit the network, got %d requests", requests.Load())
	}
}

// El primer 401 de una llamada autenticada limpia la sesión: el token
// rechazado no puede quedar guardado.
func TestHandleAuthErrorClearsOn401(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Token inválido o expirado."}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	store := session.NewMemStore()
	_ = store.Save(session.Session{UserID: "u-1", Token: "tok-vencido"})

	api, err := httpclient.New(ts.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	api.WithTokens(store)
	w := auth.New(api, store)

	callErr := api.DoJSON(context.Background(), http.MethodGet, "/cliente/carrito/c-1", nil, nil)
	if !httpclient.IsStatus(callErr, http.StatusUnauthorized) {
		t.Fatalf("expected 401 from server, got %v", callErr)
	}

	if !w.HandleAuthError(callErr) {
		t.Fatalf("expected HandleAuthError to report cleared session")
	}
	if _, ok, _ := store.Load(); ok {
		t.Fatalf("expected store cleared after 401")
	}
	if store.Token() != "" {
		t.Fatalf("rejected token must not survive in the store")
	}
	if _, st := w.Boot(); st != session.StatusAnonymous {
		t.Fatalf("expected anonymous after 401, got %v", st)
	}
}

// Errores que no son 401 dejan la sesión intacta.
func TestHandleAuthErrorIgnoresOtherErrors(t *testing.T) {
	store := session.NewMemStore()
	_ = store.Save(session.Session{UserID: "u-1", Token: "tok"})
	w := newWorkflow(t, "http://api.test", store)

	if w.HandleAuthError(nil) {
		t.Fatalf("nil error must not clear the session")
	}
	if w.HandleAuthError(&httpclient.HTTPError{StatusCode: http.StatusConflict}) {
		t.Fatalf("409 must not clear the session")
	}
	if w.HandleAuthError(errors.New("conexión rechazada")) {
		t.Fatalf("network error must not clear the session")
	}
	if _, ok, _ := store.Load(); !ok {
		t.Fatalf("session must survive non-401 errors")
	}
}

func TestBootDelegatesToStore(t *testing.T) {
	store := session.NewMemStore()
	w := newWorkflow(t, "http://api.test", store)

	if _, st := w.Boot(); st != session.StatusAnonymous {
		t.Fatalf("expected anonymous, got %v", st)
	}
	_ = store.Save(session.Session{UserID: "u-1", Token: "tok"})
	if _, st := w.Boot(); st != session.StatusAuthenticated {
		t.Fatalf("expected authenticated, got %v", st)
	}
}
