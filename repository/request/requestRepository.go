package requestrepo

import (
	"context"
	"database/sql"
	"time"

	"bookstore/model"
)

type ListRow struct {
	ID        int64               `json:"id"`
	UserName  string              `json:"user_name"`
	Title     string              `json:"title"`
	Author    string              `json:"author"`
	Details   string              `json:"details"`
	Status    model.RequestStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

type Repo interface {
	Insert(ctx context.Context, userID int64, title, author, details string) (int64, error)
	List(ctx context.Context) ([]ListRow, error)

	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.SpecialRequest, error)
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.RequestStatus) error
	InsertApprovedBook(ctx context.Context, tx *sql.Tx, title, author string) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, userID int64, title, author, details string) (int64, error) {
	const q = `
INSERT INTO special_requests (user_id, title, author, details, status)
VALUES ($1,$2,$3,$4,'pending')
RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, userID, title, author, details).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) List(ctx context.Context) ([]ListRow, error) {
	const q = `
SELECT sr.id, u.name, sr.title, sr.author, sr.details, sr.status, sr.created_at
FROM special_requests sr
JOIN users u ON u.id = sr.user_id
ORDER BY sr.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ListRow
	for rows.Next() {
		var l ListRow
		if err := rows.Scan(&l.ID, &l.UserName, &l.Title, &l.Author, &l.Details, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetForUpdate locks the request row so concurrent transitions serialize.
func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.SpecialRequest, error) {
	const q = `
SELECT id, user_id, title, author, details, status, created_at
FROM special_requests
WHERE id = $1
FOR UPDATE`
	sr := &model.SpecialRequest{}
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&sr.ID, &sr.UserID, &sr.Title, &sr.Author, &sr.Details, &sr.Status, &sr.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sr, nil
}

func (r *repo) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.RequestStatus) error {
	const q = `UPDATE special_requests SET status = $2 WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, status)
	return err
}

func (r *repo) InsertApprovedBook(ctx context.Context, tx *sql.Tx, title, author string) (int64, error) {
	const q = `
INSERT INTO books (title, author, price, category, stock)
VALUES ($1, $2, 0, $3, 1)
RETURNING id`
	var id int64
	if err := tx.QueryRowContext(ctx, q, title, author, model.SpecialDemandCategory).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
