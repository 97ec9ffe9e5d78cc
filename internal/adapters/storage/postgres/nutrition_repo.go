package postgres

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"pet-nutrition-platform/internal/domain/nutrition"
)

type NutritionRepo struct {
	db *sql.DB
}

func NewNutritionRepo(db *sql.DB) *NutritionRepo {
	return &NutritionRepo{db: db}
}

func (r *NutritionRepo) CreateRequest(ctx context.Context, req nutrition.Request) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO nutrition_requests (
			id, client_id, pet_id, objective,
			receta_path, extra_file_path, status,
			created_at, reviewed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		req.ID,
		req.ClientID,
		req.PetID,
		req.Objective,
		req.RecetaPath,
		req.ExtraFilePath,
		req.Status,
		req.CreatedAt,
		toNullTime(req.ReviewedAt),
	)
	return err
}

func (r *NutritionRepo) GetRequest(ctx context.Context, id string) (nutrition.Request, error) {
	row := r.db.QueryRowContext(ctx, requestSelect+` WHERE id = $1`, id)
	req, err := scanRequest(row.Scan)
	if err == sql.ErrNoRows {
		return nutrition.Request{}, nutrition.ErrNotFound
	}
	return req, err
}

const requestSelect = `
	SELECT id, client_id, pet_id, objective,
	       receta_path, extra_file_path, status,
	       created_at, reviewed_at
	FROM nutrition_requests`

func (r *NutritionRepo) ListRequestsByClient(ctx context.Context, clientID string) ([]nutrition.Request, error) {
	return r.listRequests(ctx, requestSelect+` WHERE client_id = $1 ORDER BY created_at ASC`, clientID)
}

func (r *NutritionRepo) ListRequestsByStatus(ctx context.Context, status string) ([]nutrition.Request, error) {
	return r.listRequests(ctx, requestSelect+` WHERE status = $1 ORDER BY created_at ASC`, status)
}

func (r *NutritionRepo) ListRequestsByPet(ctx context.Context, petID string) ([]nutrition.Request, error) {
	return r.listRequests(ctx, requestSelect+` WHERE pet_id = $1 ORDER BY created_at ASC`, petID)
}

func (r *NutritionRepo) listRequests(ctx context.Context, query string, arg any) ([]nutrition.Request, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]nutrition.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *NutritionRepo) UpdateRequest(ctx context.Context, req nutrition.Request) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE nutrition_requests
		SET status = $2, reviewed_at = $3
		WHERE id = $1
	`, req.ID, req.Status, toNullTime(req.ReviewedAt))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return nutrition.ErrNotFound
	}
	return nil
}

func (r *NutritionRepo) CreateConsultation(ctx context.Context, c nutrition.Consultation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO consultations (
			id, request_id, nutricionista_id,
			diagnosis, recommendations, observations, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		c.ID,
		c.RequestID,
		c.NutricionistaID,
		c.Diagnosis,
		c.Recommendations,
		c.Observations,
		c.CreatedAt,
	)
	return err
}

func (r *NutritionRepo) FindConsultationByRequest(ctx context.Context, requestID string) (nutrition.Consultation, bool, error) {
	var c nutrition.Consultation
	err := r.db.QueryRowContext(ctx, `
		SELECT id, request_id, nutricionista_id,
		       diagnosis, recommendations, observations, created_at
		FROM consultations
		WHERE request_id = $1
	`, requestID).Scan(
		&c.ID,
		&c.RequestID,
		&c.NutricionistaID,
		&c.Diagnosis,
		&c.Recommendations,
		&c.Observations,
		&c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nutrition.Consultation{}, false, nil
	}
	if err != nil {
		return nutrition.Consultation{}, false, err
	}
	return c, true, nil
}

func (r *NutritionRepo) ListConsultationsByNutricionista(ctx context.Context, nutricionistaID string) ([]nutrition.Consultation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, request_id, nutricionista_id,
		       diagnosis, recommendations, observations, created_at
		FROM consultations
		WHERE nutricionista_id = $1
		ORDER BY created_at DESC
	`, nutricionistaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]nutrition.Consultation, 0)
	for rows.Next() {
		var c nutrition.Consultation
		if err := rows.Scan(
			&c.ID,
			&c.RequestID,
			&c.NutricionistaID,
			&c.Diagnosis,
			&c.Recommendations,
			&c.Observations,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *NutritionRepo) CreatePersonalDish(ctx context.Context, pd nutrition.PersonalDish) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO personal_dishes (
			id, pet_id, client_id, dish_id, nutricionista_id, total, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		pd.ID,
		pd.PetID,
		pd.ClientID,
		pd.DishID,
		pd.NutricionistaID,
		pd.Total.String(),
		pd.CreatedAt,
	)
	return err
}

func (r *NutritionRepo) ListPersonalDishesByPet(ctx context.Context, petID string) ([]nutrition.PersonalDish, error) {
	return r.listPersonal(ctx, `WHERE pet_id = $1`, petID)
}

func (r *NutritionRepo) ListPersonalDishesByClient(ctx context.Context, clientID string) ([]nutrition.PersonalDish, error) {
	return r.listPersonal(ctx, `WHERE client_id = $1`, clientID)
}

func (r *NutritionRepo) listPersonal(ctx context.Context, where string, arg any) ([]nutrition.PersonalDish, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, client_id, dish_id, nutricionista_id, total, created_at
		FROM personal_dishes
	`+where+` ORDER BY created_at DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]nutrition.PersonalDish, 0)
	for rows.Next() {
		var pd nutrition.PersonalDish
		var total string
		if err := rows.Scan(
			&pd.ID,
			&pd.PetID,
			&pd.ClientID,
			&pd.DishID,
			&pd.NutricionistaID,
			&total,
			&pd.CreatedAt,
		); err != nil {
			return nil, err
		}
		if pd.Total, err = decimal.NewFromString(total); err != nil {
			return nil, err
		}
		out = append(out, pd)
	}
	return out, rows.Err()
}

func (r *NutritionRepo) CreateNotification(ctx context.Context, n nutrition.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, client_id, title, body, read, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, n.ID, n.ClientID, n.Title, n.Body, n.Read, n.CreatedAt)
	return err
}

func (r *NutritionRepo) ListNotificationsByClient(ctx context.Context, clientID string) ([]nutrition.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, client_id, title, body, read, created_at
		FROM notifications
		WHERE client_id = $1
		ORDER BY created_at DESC
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]nutrition.Notification, 0)
	for rows.Next() {
		var n nutrition.Notification
		if err := rows.Scan(&n.ID, &n.ClientID, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NutritionRepo) CountUnread(ctx context.Context, clientID string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE client_id = $1 AND NOT read
	`, clientID).Scan(&total)
	return total, err
}

func (r *NutritionRepo) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return nutrition.ErrNotFound
	}
	return nil
}

func scanRequest(scan func(dest ...any) error) (nutrition.Request, error) {
	var req nutrition.Request
	var reviewed sql.NullTime
	if err := scan(
		&req.ID,
		&req.ClientID,
		&req.PetID,
		&req.Objective,
		&req.RecetaPath,
		&req.ExtraFilePath,
		&req.Status,
		&req.CreatedAt,
		&reviewed,
	); err != nil {
		return nutrition.Request{}, err
	}
	if reviewed.Valid {
		t := reviewed.Time
		req.ReviewedAt = &t
	}
	return req, nil
}
