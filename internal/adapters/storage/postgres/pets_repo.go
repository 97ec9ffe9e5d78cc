package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"

	"pet-nutrition-platform/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (
			id, owner_id,
			name, species_id, breed, age, sex,
			weight, photo_path, observations, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		p.ID,
		p.OwnerID,
		p.Name,
		p.SpeciesID,
		p.Breed,
		p.Age,
		string(p.Sex),
		toNullDecimal(p.Weight),
		p.PhotoPath,
		p.Observations,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			species_id = $3,
			breed = $4,
			age = $5,
			sex = $6,
			weight = $7,
			photo_path = $8,
			observations = $9,
			status = $10,
			updated_at = $11
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.SpeciesID,
		p.Breed,
		p.Age,
		string(p.Sex),
		toNullDecimal(p.Weight),
		p.PhotoPath,
		p.Observations,
		p.Status,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_id,
			name, species_id, breed, age, sex,
			weight, photo_path, observations, status,
			created_at, updated_at
		FROM pets
		WHERE id = $1
	`, id)

	p, err := scanPet(row.Scan)
	if err == sql.ErrNoRows {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_id,
			name, species_id, breed, age, sex,
			weight, photo_path, observations, status,
			created_at, updated_at
		FROM pets
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) AddAllergy(ctx context.Context, a pets.Allergy) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pet_allergies (id, pet_id, name, severity, description)
		VALUES ($1,$2,$3,$4,$5)
	`, a.ID, a.PetID, a.Name, a.Severity, a.Description)
	return err
}

func (r *PetsRepo) ListAllergies(ctx context.Context, petID string) ([]pets.Allergy, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, name, severity, description
		FROM pet_allergies
		WHERE pet_id = $1
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Allergy, 0)
	for rows.Next() {
		var a pets.Allergy
		if err := rows.Scan(&a.ID, &a.PetID, &a.Name, &a.Severity, &a.Description); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PetsRepo) AddHealthCondition(ctx context.Context, c pets.HealthCondition) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pet_health_conditions (id, pet_id, name, date, status)
		VALUES ($1,$2,$3,$4,$5)
	`, c.ID, c.PetID, c.Name, c.Date, c.Status)
	return err
}

func (r *PetsRepo) ListHealthConditions(ctx context.Context, petID string) ([]pets.HealthCondition, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, name, date, status
		FROM pet_health_conditions
		WHERE pet_id = $1
		ORDER BY date ASC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.HealthCondition, 0)
	for rows.Next() {
		var c pets.HealthCondition
		if err := rows.Scan(&c.ID, &c.PetID, &c.Name, &c.Date, &c.Status); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PetsRepo) AddFoodPreference(ctx context.Context, f pets.FoodPreference) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pet_food_preferences (id, pet_id, name, description)
		VALUES ($1,$2,$3,$4)
	`, f.ID, f.PetID, f.Name, f.Description)
	return err
}

func (r *PetsRepo) ListFoodPreferences(ctx context.Context, petID string) ([]pets.FoodPreference, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, name, description
		FROM pet_food_preferences
		WHERE pet_id = $1
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.FoodPreference, 0)
	for rows.Next() {
		var f pets.FoodPreference
		if err := rows.Scan(&f.ID, &f.PetID, &f.Name, &f.Description); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *PetsRepo) AddPrescription(ctx context.Context, p pets.Prescription) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pet_prescriptions (id, pet_id, request_id, date, file_path, status)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, p.ID, p.PetID, p.RequestID, p.Date, p.FilePath, p.Status)
	return err
}

func (r *PetsRepo) ListPrescriptions(ctx context.Context, petID string) ([]pets.Prescription, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, request_id, date, file_path, status
		FROM pet_prescriptions
		WHERE pet_id = $1
		ORDER BY date DESC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Prescription, 0)
	for rows.Next() {
		var p pets.Prescription
		if err := rows.Scan(&p.ID, &p.PetID, &p.RequestID, &p.Date, &p.FilePath, &p.Status); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) AddAllergyNote(ctx context.Context, n pets.AllergyNote) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pet_allergy_notes (id, pet_id, description, date)
		VALUES ($1,$2,$3,$4)
	`, n.ID, n.PetID, n.Description, n.Date)
	return err
}

func (r *PetsRepo) ListAllergyNotes(ctx context.Context, petID string) ([]pets.AllergyNote, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, description, date
		FROM pet_allergy_notes
		WHERE pet_id = $1
		ORDER BY date DESC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.AllergyNote, 0)
	for rows.Next() {
		var n pets.AllergyNote
		if err := rows.Scan(&n.ID, &n.PetID, &n.Description, &n.Date); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func scanPet(scan func(dest ...any) error) (pets.Pet, error) {
	var p pets.Pet
	var sex string
	var weight sql.NullString
	if err := scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.SpeciesID,
		&p.Breed,
		&p.Age,
		&sex,
		&weight,
		&p.PhotoPath,
		&p.Observations,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	p.Sex = pets.Sex(sex)
	if weight.Valid {
		// weight es NUMERIC; se conserva exacto como decimal
		d, err := decimal.NewFromString(weight.String)
		if err == nil {
			p.Weight = &d
		}
	}
	return p, nil
}

// weight NUMERIC opcional
func toNullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: d.String(), Valid: true}
}
