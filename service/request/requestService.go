package request

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"bookstore/model"
	requestrepo "bookstore/repository/request"
)

type ErrCode string

const (
	ErrBadInput   ErrCode = "BAD_INPUT"
	ErrNotFound   ErrCode = "NOT_FOUND"
	ErrNotPending ErrCode = "NOT_PENDING"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// ListRow = repository shape
type ListRow = requestrepo.ListRow

type Repo interface {
	Insert(ctx context.Context, userID int64, title, author, details string) (int64, error)
	List(ctx context.Context) ([]ListRow, error)

	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.SpecialRequest, error)
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.RequestStatus) error
	InsertApprovedBook(ctx context.Context, tx *sql.Tx, title, author string) (int64, error)
}

type Service interface {
	// Submit files a pending request on behalf of a logged-in user.
	Submit(ctx context.Context, userID int64, title, author, details string) (int64, error)

	// List: all requests joined with the requesting user's name, admin only.
	List(ctx context.Context) ([]ListRow, error)

	// Approve moves a pending request to approved and adds the requested
	// title to the catalog (price 0, stock 1, Special Demand category).
	// A request that is not pending is refused, so a second approval can
	// never create a second book row.
	Approve(ctx context.Context, id int64) (bookID int64, err error)

	// Decline moves a pending request to declined.
	Decline(ctx context.Context, id int64) error
}

type service struct {
	db *sql.DB
	r  Repo
}

func New(db *sql.DB, r Repo) Service { return &service{db: db, r: r} }

func (s *service) Submit(ctx context.Context, userID int64, title, author, details string) (int64, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if userID <= 0 || title == "" || author == "" {
		return 0, makeErr(ErrBadInput)
	}
	return s.r.Insert(ctx, userID, title, author, details)
}

func (s *service) List(ctx context.Context) ([]ListRow, error) {
	return s.r.List(ctx)
}

func (s *service) Approve(ctx context.Context, id int64) (_ int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	req, err := s.lockPending(ctx, tx, id)
	if err != nil {
		return 0, err
	}

	bookID, err := s.r.InsertApprovedBook(ctx, tx, req.Title, req.Author)
	if err != nil {
		return 0, err
	}
	if err = s.r.SetStatus(ctx, tx, id, model.RequestApproved); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return bookID, nil
}

func (s *service) Decline(ctx context.Context, id int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = s.lockPending(ctx, tx, id); err != nil {
		return err
	}
	if err = s.r.SetStatus(ctx, tx, id, model.RequestDeclined); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) lockPending(ctx context.Context, tx *sql.Tx, id int64) (*model.SpecialRequest, error) {
	req, err := s.r.GetForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if req.Status != model.RequestPending {
		return nil, makeErr(ErrNotPending)
	}
	return req, nil
}
