package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-nutrition-platform/internal/domain/pets"
)

type petsRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet

	allergies     map[string][]pets.Allergy // por mascota
	conditions    map[string][]pets.HealthCondition
	preferences   map[string][]pets.FoodPreference
	prescriptions map[string][]pets.Prescription
	allergyNotes  map[string][]pets.AllergyNote
}

func NewPetsRepo() pets.Repository {
	return &petsRepo{
		byID:          make(map[string]pets.Pet),
		allergies:     make(map[string][]pets.Allergy),
		conditions:    make(map[string][]pets.HealthCondition),
		preferences:   make(map[string][]pets.FoodPreference),
		prescriptions: make(map[string][]pets.Prescription),
		allergyNotes:  make(map[string][]pets.AllergyNote),
	}
}

func (r *petsRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *petsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *petsRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return pets.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *petsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return pets.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.allergies, id)
	delete(r.conditions, id)
	delete(r.preferences, id)
	delete(r.prescriptions, id)
	delete(r.allergyNotes, id)
	return nil
}

func (r *petsRepo) AddAllergy(ctx context.Context, a pets.Allergy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allergies[a.PetID] = append(r.allergies[a.PetID], a)
	return nil
}

func (r *petsRepo) ListAllergies(ctx context.Context, petID string) ([]pets.Allergy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]pets.Allergy(nil), r.allergies[petID]...), nil
}

func (r *petsRepo) AddHealthCondition(ctx context.Context, c pets.HealthCondition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conditions[c.PetID] = append(r.conditions[c.PetID], c)
	return nil
}

func (r *petsRepo) ListHealthConditions(ctx context.Context, petID string) ([]pets.HealthCondition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]pets.HealthCondition(nil), r.conditions[petID]...), nil
}

func (r *petsRepo) AddFoodPreference(ctx context.Context, f pets.FoodPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preferences[f.PetID] = append(r.preferences[f.PetID], f)
	return nil
}

func (r *petsRepo) ListFoodPreferences(ctx context.Context, petID string) ([]pets.FoodPreference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]pets.FoodPreference(nil), r.preferences[petID]...), nil
}

func (r *petsRepo) AddPrescription(ctx context.Context, p pets.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prescriptions[p.PetID] = append(r.prescriptions[p.PetID], p)
	return nil
}

func (r *petsRepo) ListPrescriptions(ctx context.Context, petID string) ([]pets.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]pets.Prescription(nil), r.prescriptions[petID]...), nil
}

func (r *petsRepo) AddAllergyNote(ctx context.Context, n pets.AllergyNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allergyNotes[n.PetID] = append(r.allergyNotes[n.PetID], n)
	return nil
}

func (r *petsRepo) ListAllergyNotes(ctx context.Context, petID string) ([]pets.AllergyNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]pets.AllergyNote(nil), r.allergyNotes[petID]...), nil
}
