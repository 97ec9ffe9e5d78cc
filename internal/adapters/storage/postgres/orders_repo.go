package postgres

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"pet-nutrition-platform/internal/domain/orders"
)

type OrdersRepo struct {
	db *sql.DB
}

func NewOrdersRepo(db *sql.DB) *OrdersRepo {
	return &OrdersRepo{db: db}
}

func (r *OrdersRepo) Create(ctx context.Context, o orders.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, client_id, address_id, status, total, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, o.ID, o.ClientID, o.AddressID, o.Status, o.Total.String(), o.CreatedAt, o.UpdatedAt); err != nil {
		return err
	}
	if err := insertItems(ctx, tx, o); err != nil {
		return err
	}
	return tx.Commit()
}

// Update reescribe cabecera e ítems en una transacción.
func (r *OrdersRepo) Update(ctx context.Context, o orders.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET address_id = $2, status = $3, total = $4, updated_at = $5
		WHERE id = $1
	`, o.ID, o.AddressID, o.Status, o.Total.String(), o.UpdatedAt)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return orders.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.ID); err != nil {
		return err
	}
	if err := insertItems(ctx, tx, o); err != nil {
		return err
	}
	return tx.Commit()
}

func insertItems(ctx context.Context, tx *sql.Tx, o orders.Order) error {
	for _, it := range o.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, dish_id, dish_name, unit_price, quantity)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, it.ID, o.ID, it.DishID, it.DishName, it.UnitPrice.String(), it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrdersRepo) GetByID(ctx context.Context, id string) (orders.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, client_id, address_id, status, total, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id)

	o, err := scanOrder(row.Scan)
	if err == sql.ErrNoRows {
		return orders.Order{}, orders.ErrNotFound
	}
	if err != nil {
		return orders.Order{}, err
	}
	if o.Items, err = r.listItems(ctx, o.ID); err != nil {
		return orders.Order{}, err
	}
	return o, nil
}

func (r *OrdersRepo) FindCart(ctx context.Context, clientID string) (orders.Order, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, client_id, address_id, status, total, created_at, updated_at
		FROM orders
		WHERE client_id = $1 AND status = $2
	`, clientID, orders.StatusCart)

	o, err := scanOrder(row.Scan)
	if err == sql.ErrNoRows {
		return orders.Order{}, false, nil
	}
	if err != nil {
		return orders.Order{}, false, err
	}
	if o.Items, err = r.listItems(ctx, o.ID); err != nil {
		return orders.Order{}, false, err
	}
	return o, true, nil
}

func (r *OrdersRepo) ListByClient(ctx context.Context, clientID string) ([]orders.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, client_id, address_id, status, total, created_at, updated_at
		FROM orders
		WHERE client_id = $1
		ORDER BY created_at DESC
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]orders.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if out[i].Items, err = r.listItems(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *OrdersRepo) listItems(ctx context.Context, orderID string) ([]orders.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, dish_id, dish_name, unit_price, quantity
		FROM order_items
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]orders.Item, 0)
	for rows.Next() {
		var it orders.Item
		var price string
		if err := rows.Scan(&it.ID, &it.DishID, &it.DishName, &price, &it.Quantity); err != nil {
			return nil, err
		}
		if it.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *OrdersRepo) ListPaymentMethods(ctx context.Context) ([]orders.PaymentMethod, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name FROM payment_methods ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]orders.PaymentMethod, 0)
	for rows.Next() {
		var m orders.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *OrdersRepo) GetPaymentMethod(ctx context.Context, id string) (orders.PaymentMethod, error) {
	var m orders.PaymentMethod
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name FROM payment_methods WHERE id = $1
	`, id).Scan(&m.ID, &m.Name)
	if err == sql.ErrNoRows {
		return orders.PaymentMethod{}, orders.ErrNotFound
	}
	return m, err
}

func (r *OrdersRepo) CreatePayment(ctx context.Context, p orders.Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (id, order_id, client_id, method_id, proof_path, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, p.ID, p.OrderID, p.ClientID, p.MethodID, p.ProofPath, p.Status, p.CreatedAt)
	return err
}

func (r *OrdersRepo) FindPaymentByOrder(ctx context.Context, orderID string) (orders.Payment, bool, error) {
	var p orders.Payment
	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, client_id, method_id, proof_path, status, created_at
		FROM payments
		WHERE order_id = $1
	`, orderID).Scan(&p.ID, &p.OrderID, &p.ClientID, &p.MethodID, &p.ProofPath, &p.Status, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return orders.Payment{}, false, nil
	}
	if err != nil {
		return orders.Payment{}, false, err
	}
	return p, true, nil
}

func (r *OrdersRepo) ListPaymentsByClient(ctx context.Context, clientID string) ([]orders.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, client_id, method_id, proof_path, status, created_at
		FROM payments
		WHERE client_id = $1
		ORDER BY created_at DESC
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]orders.Payment, 0)
	for rows.Next() {
		var p orders.Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.ClientID, &p.MethodID, &p.ProofPath, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanOrder(scan func(dest ...any) error) (orders.Order, error) {
	var o orders.Order
	var total string
	if err := scan(
		&o.ID,
		&o.ClientID,
		&o.AddressID,
		&o.Status,
		&total,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return orders.Order{}, err
	}
	var err error
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return orders.Order{}, err
	}
	return o, nil
}
