package nutrition

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud especializada. El nutricionista la revisa y
// la deja atendida (aprobada) u observada (requiere cambios del cliente).
const (
	StatusPending  = "pendiente"
	StatusAttended = "atendido"
	StatusObserved = "observado"
)

// Request es una solicitud de dieta especializada para una mascota.
type Request struct {
	ID       string
	ClientID string
	PetID    string

	Objective     string // objetivo declarado: bajar peso, alergias...
	RecetaPath    string // receta médica adjunta, opcional
	ExtraFilePath string // examen u otro documento, opcional

	Status     string
	CreatedAt  time.Time
	ReviewedAt *time.Time
}

// Consultation es el resultado de la revisión de una solicitud.
type Consultation struct {
	ID              string
	RequestID       string
	NutricionistaID string

	Diagnosis       string
	Recommendations string
	Observations    string

	CreatedAt time.Time
}

// PersonalDish vincula un plato oculto del catálogo (mix armado por el
// nutricionista) con la mascota a la que va dirigido.
type PersonalDish struct {
	ID              string
	PetID           string
	ClientID        string
	DishID          string
	NutricionistaID string
	Total           decimal.Decimal
	CreatedAt       time.Time
}

// Notification es un aviso para el cliente (dieta lista, solicitud
// observada, etc.).
type Notification struct {
	ID        string
	ClientID  string
	Title     string
	Body      string
	Read      bool
	CreatedAt time.Time
}
