package booksvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"bookstore/model"
)

type ErrCode string

const (
	ErrBadInput ErrCode = "BAD_INPUT"
	ErrNotFound ErrCode = "NOT_FOUND"
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

type Repo interface {
	Create(ctx context.Context, b *model.Book) (int64, error)
	Update(ctx context.Context, b *model.Book) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context) ([]model.Book, error)
	Search(ctx context.Context, q string) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
}

type Service interface {
	Create(ctx context.Context, b *model.Book) (int64, error)
	// Update is a full replace of title/author/price/category/stock by id.
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) error
	// List returns the whole catalog, or a title/author substring match
	// when q is non-empty.
	List(ctx context.Context, q string) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, b *model.Book) (int64, error) {
	if b.Title == "" || b.Author == "" || b.Category == "" || b.Price < 0 || b.Stock < 0 {
		return 0, makeErr(ErrBadInput)
	}
	return s.r.Create(ctx, b)
}

func (s *service) Update(ctx context.Context, b *model.Book) error {
	if b.Title == "" || b.Author == "" || b.Category == "" || b.Price < 0 || b.Stock < 0 {
		return makeErr(ErrBadInput)
	}
	aff, err := s.r.Update(ctx, b)
	if err != nil {
		return err
	}
	if aff == 0 {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	aff, err := s.r.Delete(ctx, id)
	if err != nil {
		return err
	}
	if aff == 0 {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) List(ctx context.Context, q string) ([]model.Book, error) {
	if strings.TrimSpace(q) == "" {
		return s.r.List(ctx)
	}
	return s.r.Search(ctx, strings.TrimSpace(q))
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}
