package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, id string) error

	AddAllergy(ctx context.Context, a Allergy) error
	ListAllergies(ctx context.Context, petID string) ([]Allergy, error)

	AddHealthCondition(ctx context.Context, c HealthCondition) error
	ListHealthConditions(ctx context.Context, petID string) ([]HealthCondition, error)

	AddFoodPreference(ctx context.Context, f FoodPreference) error
	ListFoodPreferences(ctx context.Context, petID string) ([]FoodPreference, error)

	AddPrescription(ctx context.Context, p Prescription) error
	ListPrescriptions(ctx context.Context, petID string) ([]Prescription, error)

	AddAllergyNote(ctx context.Context, n AllergyNote) error
	ListAllergyNotes(ctx context.Context, petID string) ([]AllergyNote, error)
}
