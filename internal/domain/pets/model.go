package pets

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sex define el sexo de la mascota.
// @Enum M (macho), H (hembra)
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "H"
)

// Status de registro: activo / inactivo (borrado lógico cuando la
// mascota tiene solicitudes asociadas).
const (
	StatusActive   = "A"
	StatusInactive = "I"
)

// Pet representa el perfil de una mascota registrada por un cliente.
type Pet struct {
	ID      string
	OwnerID string // cliente dueño

	Name      string
	SpeciesID string
	Breed     string
	Age       int
	Sex       Sex

	Weight       *decimal.Decimal
	PhotoPath    string // ruta relativa bajo /static
	Observations string

	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Allergy es una alergia registrada de la mascota.
type Allergy struct {
	ID          string
	PetID       string
	Name        string
	Severity    string
	Description string
}

// HealthCondition es una condición de salud declarada (anemia, etc.).
type HealthCondition struct {
	ID     string
	PetID  string
	Name   string
	Date   time.Time
	Status string
}

// FoodPreference es una preferencia alimentaria declarada por el dueño.
type FoodPreference struct {
	ID          string
	PetID       string
	Name        string
	Description string
}

// Prescription es una receta médica adjunta (archivo subido).
type Prescription struct {
	ID        string
	PetID     string
	RequestID string // solicitud especializada de origen, si aplica
	Date      time.Time
	FilePath  string
	Status    string
}

// AllergyNote es la descripción libre de alergias que acompaña una
// solicitud especializada.
type AllergyNote struct {
	ID          string
	PetID       string
	Description string
	Date        time.Time
}
