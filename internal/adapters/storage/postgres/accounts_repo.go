package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-nutrition-platform/internal/domain/accounts"
)

type AccountsRepo struct {
	db *sql.DB
}

func NewAccountsRepo(db *sql.DB) *AccountsRepo {
	return &AccountsRepo{db: db}
}

func (r *AccountsRepo) Create(ctx context.Context, a accounts.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (
			id, email, name, password_hash, role_id, status,
			phone, bio, last_access, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		a.ID,
		strings.ToLower(a.Email),
		a.Name,
		a.PasswordHash,
		a.RoleID,
		a.Status,
		a.Phone,
		a.Bio,
		toNullTime(a.LastAccess),
		a.CreatedAt,
	)
	return err
}

func (r *AccountsRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, email, name, password_hash, role_id, status,
			phone, bio, last_access, created_at
		FROM accounts
		WHERE id = $1
	`, id)
	return scanAccount(row)
}

func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, email, name, password_hash, role_id, status,
			phone, bio, last_access, created_at
		FROM accounts
		WHERE email = $1
	`, strings.ToLower(email))
	return scanAccount(row)
}

func (r *AccountsRepo) Update(ctx context.Context, a accounts.Account) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET
			email = $2,
			name = $3,
			password_hash = $4,
			role_id = $5,
			status = $6,
			phone = $7,
			bio = $8,
			last_access = $9
		WHERE id = $1
	`,
		a.ID,
		strings.ToLower(a.Email),
		a.Name,
		a.PasswordHash,
		a.RoleID,
		a.Status,
		a.Phone,
		a.Bio,
		toNullTime(a.LastAccess),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return accounts.ErrNotFound
	}
	return nil
}

func scanAccount(row *sql.Row) (accounts.Account, error) {
	var a accounts.Account
	var last sql.NullTime
	if err := row.Scan(
		&a.ID,
		&a.Email,
		&a.Name,
		&a.PasswordHash,
		&a.RoleID,
		&a.Status,
		&a.Phone,
		&a.Bio,
		&last,
		&a.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return accounts.Account{}, accounts.ErrNotFound
		}
		return accounts.Account{}, err
	}
	if last.Valid {
		t := last.Time
		a.LastAccess = &t
	}
	return a, nil
}
