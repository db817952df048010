// repository/order/orderRepository.go
package order

import (
	"context"
	"database/sql"
	"time"
)

type HistoryRow struct {
	OrderID      int64     `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	OrderDate    time.Time `json:"order_date"`
}

type Repo interface {
	// Customers & orders
	InsertCustomer(ctx context.Context, tx *sql.Tx, name, email string) (int64, error)
	InsertOrder(ctx context.Context, tx *sql.Tx, userID int64, at time.Time) (int64, error)

	// Items & stock
	InsertItem(ctx context.Context, tx *sql.Tx, orderID, bookID, qty int64) error
	DecrementStock(ctx context.Context, tx *sql.Tx, bookID, qty int64) (int64, error)
	BookExists(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error)

	// Admin listing
	ListOrders(ctx context.Context) ([]HistoryRow, error)
}

type repo struct {
	db *sql.DB
}

func New(db *sql.DB) Repo { return &repo{db: db} }

// Customers & orders

// InsertCustomer adds a fresh customer row per order. Guest customers carry
// no password hash and never collide with registered accounts.
func (r *repo) InsertCustomer(ctx context.Context, tx *sql.Tx, name, email string) (int64, error) {
	const q = `
		INSERT INTO users (name, email, role)
		VALUES ($1, $2, 'user')
		RETURNING id`
	var id int64
	if err := tx.QueryRowContext(ctx, q, name, email).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) InsertOrder(ctx context.Context, tx *sql.Tx, userID int64, at time.Time) (int64, error) {
	const q = `
		INSERT INTO orders (user_id, order_date)
		VALUES ($1, $2)
		RETURNING id`
	var id int64
	if err := tx.QueryRowContext(ctx, q, userID, at).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Items & stock

func (r *repo) InsertItem(ctx context.Context, tx *sql.Tx, orderID, bookID, qty int64) error {
	const q = `
		INSERT INTO order_items (order_id, book_id, quantity)
		VALUES ($1, $2, $3)`
	_, err := tx.ExecContext(ctx, q, orderID, bookID, qty)
	return err
}

func (r *repo) DecrementStock(ctx context.Context, tx *sql.Tx, bookID, qty int64) (int64, error) {
	// Guard: only decrement while enough stock remains.
	const q = `
		UPDATE books
		SET stock = stock - $2
		WHERE id = $1
		AND stock >= $2`
	res, err := tx.ExecContext(ctx, q, bookID, qty)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) BookExists(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`
	var ok bool
	err := tx.QueryRowContext(ctx, q, bookID).Scan(&ok)
	return ok, err
}

// Admin listing

func (r *repo) ListOrders(ctx context.Context) ([]HistoryRow, error) {
	const q = `
			SELECT
			o.id         AS order_id,
			u.name       AS customer_name,
			o.order_date AS order_date
			FROM orders o
			JOIN users u ON u.id = o.user_id
			ORDER BY o.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(&h.OrderID, &h.CustomerName, &h.OrderDate); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
