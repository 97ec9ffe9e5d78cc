package session

import (
	"errors"
	"strings"
)

// Session es la identidad autenticada que persiste entre arranques.
// Se guarda en dos valores independientes (token y registro de usuario)
// para que la corrupción de uno no invalide al otro.
type Session struct {
	UserID string `json:"id"`
	Name   string `json:"nombre"`
	Email  string `json:"correo"`
	RoleID int    `json:"rol_id"`

	// Token no se serializa dentro del registro de usuario: vive aparte.
	Token string `json:"-"`
}

func (s Session) IsZero() bool {
	return strings.TrimSpace(s.Token) == "" && strings.TrimSpace(s.UserID) == ""
}

// Store es la única superficie de mutación del estado de sesión.
// Regla de un solo escritor: solamente el workflow de auth llama a
// Save/Clear; el resto de componentes solo lee.
type Store interface {
	Save(s Session) error
	Load() (Session, bool, error)
	Clear() error

	// Token entrega el token vigente sin cargar el registro completo.
	// Implementa httpclient.TokenSource.
	Token() string
}

// Status es el tri-estado del arranque: el caller debe tratarse como
// "cargando" hasta que Boot retorne — nunca asumir anónimo antes.
type Status int

const (
	StatusLoading Status = iota
	StatusAuthenticated
	StatusAnonymous
)

var ErrNoSession = errors.New("no hay sesión guardada")

// Boot carga la sesión persistida una sola vez al inicio.
// Un token presente sin registro de usuario sigue siendo sesión válida
// (las llamadas con token funcionan); sin token es anónimo.
func Boot(store Store) (Session, Status) {
	s, ok, err := store.Load()
	if err != nil || !ok {
		return Session{}, StatusAnonymous
	}
	if strings.TrimSpace(s.Token) == "" {
		return Session{}, StatusAnonymous
	}
	return s, StatusAuthenticated
}
