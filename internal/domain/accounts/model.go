package accounts

import "time"

// Roles del sistema, mismos ids que usa el resto de la plataforma.
const (
	RoleAdmin         = 1
	RoleCliente       = 2
	RoleNutricionista = 3
)

// Status de registro: activo / inactivo (borrado lógico).
const (
	StatusActive   = "A"
	StatusInactive = "I"
)

// Account es la cuenta de usuario con su rol asignado.
// El perfil (cliente o nutricionista) comparte el id de la cuenta:
// una cuenta tiene exactamente un perfil, así que /cliente/{id} y
// usuario.id del login son el mismo valor.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	RoleID       int
	Status       string

	Phone string // perfil de cliente
	Bio   string // perfil de nutricionista

	LastAccess *time.Time
	CreatedAt  time.Time
}
