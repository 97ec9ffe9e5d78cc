package postgres

import (
	"context"
	"database/sql"

	"pet-nutrition-platform/internal/domain/addresses"
)

type AddressesRepo struct {
	db *sql.DB
}

func NewAddressesRepo(db *sql.DB) *AddressesRepo {
	return &AddressesRepo{db: db}
}

func (r *AddressesRepo) Create(ctx context.Context, a addresses.Address) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO addresses (
			id, client_id, name, latitude, longitude,
			reference, is_primary, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		a.ID,
		a.ClientID,
		a.Name,
		a.Latitude,
		a.Longitude,
		a.Reference,
		a.Primary,
		a.CreatedAt,
	)
	return err
}

func (r *AddressesRepo) GetByID(ctx context.Context, id string) (addresses.Address, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, client_id, name, latitude, longitude,
		       reference, is_primary, created_at
		FROM addresses
		WHERE id = $1
	`, id)

	var a addresses.Address
	if err := row.Scan(
		&a.ID,
		&a.ClientID,
		&a.Name,
		&a.Latitude,
		&a.Longitude,
		&a.Reference,
		&a.Primary,
		&a.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return addresses.Address{}, addresses.ErrNotFound
		}
		return addresses.Address{}, err
	}
	return a, nil
}

func (r *AddressesRepo) ListByClient(ctx context.Context, clientID string) ([]addresses.Address, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, client_id, name, latitude, longitude,
		       reference, is_primary, created_at
		FROM addresses
		WHERE client_id = $1
		ORDER BY created_at ASC
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]addresses.Address, 0)
	for rows.Next() {
		var a addresses.Address
		if err := rows.Scan(
			&a.ID,
			&a.ClientID,
			&a.Name,
			&a.Latitude,
			&a.Longitude,
			&a.Reference,
			&a.Primary,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AddressesRepo) Update(ctx context.Context, a addresses.Address) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE addresses
		SET
			name = $2,
			latitude = $3,
			longitude = $4,
			reference = $5,
			is_primary = $6
		WHERE id = $1
	`,
		a.ID,
		a.Name,
		a.Latitude,
		a.Longitude,
		a.Reference,
		a.Primary,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return addresses.ErrNotFound
	}
	return nil
}

func (r *AddressesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return addresses.ErrNotFound
	}
	return nil
}

func (r *AddressesRepo) UnmarkPrimary(ctx context.Context, clientID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE addresses
		SET is_primary = FALSE
		WHERE client_id = $1 AND is_primary
	`, clientID)
	return err
}
