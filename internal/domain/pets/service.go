package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrNotOwner     = errors.New("pet does not belong to client")
)

// ActiveRequestsChecker indica si la mascota tiene solicitudes
// nutricionales abiertas. Se inyecta desde el router para no acoplar
// este módulo al de nutrición.
type ActiveRequestsChecker func(ctx context.Context, petID string) (bool, error)

type Service struct {
	repo              Repository
	hasActiveRequests ActiveRequestsChecker
	now               func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SetActiveRequestsChecker se llama una vez durante el armado del
// router, antes de servir tráfico.
func (s *Service) SetActiveRequestsChecker(fn ActiveRequestsChecker) {
	s.hasActiveRequests = fn
}

type CreateInput struct {
	OwnerID      string
	Name         string
	SpeciesID    string
	Breed        string
	Age          int
	Sex          Sex
	Weight       *decimal.Decimal
	PhotoPath    string
	Observations string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.OwnerID == "" || in.Name == "" || in.SpeciesID == "" {
		return Pet{}, ErrInvalidInput
	}
	if in.Sex != SexMale && in.Sex != SexFemale {
		return Pet{}, ErrInvalidInput
	}
	if in.Age < 0 {
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	p := Pet{
		ID:           uuid.NewString(),
		OwnerID:      in.OwnerID,
		Name:         in.Name,
		SpeciesID:    in.SpeciesID,
		Breed:        strings.TrimSpace(in.Breed),
		Age:          in.Age,
		Sex:          in.Sex,
		Weight:       in.Weight,
		PhotoPath:    in.PhotoPath,
		Observations: strings.TrimSpace(in.Observations),
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByOwner devuelve solo las mascotas activas del cliente.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	all, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]Pet, 0, len(all))
	for _, p := range all {
		if p.Status == StatusActive {
			out = append(out, p)
		}
	}
	return out, nil
}

// OwnerOf devuelve el dueño de la mascota. Lo usa el módulo de
// nutrición para validar pertenencia sin importar este paquete entero.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerID, nil
}

// UpdateInput actualiza parcialmente: solo los campos no-nil cambian.
type UpdateInput struct {
	Name         *string
	SpeciesID    *string
	Breed        *string
	Age          *int
	Sex          *Sex
	Weight       *decimal.Decimal
	Observations *string
}

func (s *Service) UpdateProfile(ctx context.Context, petID string, in UpdateInput) (Pet, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Name = name
	}
	if in.SpeciesID != nil {
		p.SpeciesID = *in.SpeciesID
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Age != nil {
		if *in.Age < 0 {
			return Pet{}, ErrInvalidInput
		}
		p.Age = *in.Age
	}
	if in.Sex != nil {
		if *in.Sex != SexMale && *in.Sex != SexFemale {
			return Pet{}, ErrInvalidInput
		}
		p.Sex = *in.Sex
	}
	if in.Weight != nil {
		p.Weight = in.Weight
	}
	if in.Observations != nil {
		p.Observations = strings.TrimSpace(*in.Observations)
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) UpdatePhoto(ctx context.Context, petID, photoPath string) (Pet, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	p.PhotoPath = photoPath
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// Delete borra la mascota. Si tiene solicitudes abiertas el borrado es
// lógico (pasa a inactiva) para no romper el historial del
// nutricionista; si no, se elimina de verdad.
func (s *Service) Delete(ctx context.Context, petID string) error {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return err
	}

	soft := false
	if s.hasActiveRequests != nil {
		soft, err = s.hasActiveRequests(ctx, petID)
		if err != nil {
			return err
		}
	}

	if soft {
		p.Status = StatusInactive
		p.UpdatedAt = s.now()
		return s.repo.Update(ctx, p)
	}
	return s.repo.Delete(ctx, petID)
}

// Detail agrupa la ficha completa que muestra el detalle de mascota.
type Detail struct {
	Pet              Pet
	Allergies        []Allergy
	HealthConditions []HealthCondition
	FoodPreferences  []FoodPreference
	Prescriptions    []Prescription
	AllergyNotes     []AllergyNote
}

func (s *Service) Detail(ctx context.Context, petID string) (Detail, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return Detail{}, err
	}
	d := Detail{Pet: p}

	if d.Allergies, err = s.repo.ListAllergies(ctx, petID); err != nil {
		return Detail{}, err
	}
	if d.HealthConditions, err = s.repo.ListHealthConditions(ctx, petID); err != nil {
		return Detail{}, err
	}
	if d.FoodPreferences, err = s.repo.ListFoodPreferences(ctx, petID); err != nil {
		return Detail{}, err
	}
	if d.Prescriptions, err = s.repo.ListPrescriptions(ctx, petID); err != nil {
		return Detail{}, err
	}
	if d.AllergyNotes, err = s.repo.ListAllergyNotes(ctx, petID); err != nil {
		return Detail{}, err
	}
	return d, nil
}

func (s *Service) AddAllergy(ctx context.Context, petID, name, severity, description string) (Allergy, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Allergy{}, ErrInvalidInput
	}
	if _, err := s.repo.GetByID(ctx, petID); err != nil {
		return Allergy{}, err
	}
	a := Allergy{
		ID:          uuid.NewString(),
		PetID:       petID,
		Name:        name,
		Severity:    strings.TrimSpace(severity),
		Description: strings.TrimSpace(description),
	}
	if err := s.repo.AddAllergy(ctx, a); err != nil {
		return Allergy{}, err
	}
	return a, nil
}

func (s *Service) AddHealthCondition(ctx context.Context, petID, name string) (HealthCondition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return HealthCondition{}, ErrInvalidInput
	}
	if _, err := s.repo.GetByID(ctx, petID); err != nil {
		return HealthCondition{}, err
	}
	c := HealthCondition{
		ID:     uuid.NewString(),
		PetID:  petID,
		Name:   name,
		Date:   s.now(),
		Status: StatusActive,
	}
	if err := s.repo.AddHealthCondition(ctx, c); err != nil {
		return HealthCondition{}, err
	}
	return c, nil
}

func (s *Service) AddFoodPreference(ctx context.Context, petID, name, description string) (FoodPreference, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FoodPreference{}, ErrInvalidInput
	}
	if _, err := s.repo.GetByID(ctx, petID); err != nil {
		return FoodPreference{}, err
	}
	f := FoodPreference{
		ID:          uuid.NewString(),
		PetID:       petID,
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := s.repo.AddFoodPreference(ctx, f); err != nil {
		return FoodPreference{}, err
	}
	return f, nil
}

// AddPrescription registra una receta subida. requestID puede ir vacío
// cuando la receta no viene de una solicitud especializada.
func (s *Service) AddPrescription(ctx context.Context, petID, requestID, filePath string) (Prescription, error) {
	if filePath == "" {
		return Prescription{}, ErrInvalidInput
	}
	if _, err := s.repo.GetByID(ctx, petID); err != nil {
		return Prescription{}, err
	}
	p := Prescription{
		ID:        uuid.NewString(),
		PetID:     petID,
		RequestID: requestID,
		Date:      s.now(),
		FilePath:  filePath,
		Status:    StatusActive,
	}
	if err := s.repo.AddPrescription(ctx, p); err != nil {
		return Prescription{}, err
	}
	return p, nil
}

func (s *Service) AddAllergyNote(ctx context.Context, petID, description string) (AllergyNote, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return AllergyNote{}, ErrInvalidInput
	}
	if _, err := s.repo.GetByID(ctx, petID); err != nil {
		return AllergyNote{}, err
	}
	n := AllergyNote{
		ID:          uuid.NewString(),
		PetID:       petID,
		Description: description,
		Date:        s.now(),
	}
	if err := s.repo.AddAllergyNote(ctx, n); err != nil {
		return AllergyNote{}, err
	}
	return n, nil
}
