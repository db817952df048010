package order

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"bookstore/model"
	orderrepo "bookstore/repository/order"
)

// errors used by controllers

type ErrCode string

const (
	ErrEmptyCart         ErrCode = "EMPTY_CART"
	ErrBadInput          ErrCode = "BAD_INPUT"
	ErrBookNotFound      ErrCode = "BOOK_NOT_FOUND"
	ErrInsufficientStock ErrCode = "INSUFFICIENT_STOCK"
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

// dto

type Placed struct {
	OrderID    int64
	CustomerID int64
}

// HistoryRow = repository shape
type HistoryRow = orderrepo.HistoryRow

type Repo interface {
	InsertCustomer(ctx context.Context, tx *sql.Tx, name, email string) (int64, error)
	InsertOrder(ctx context.Context, tx *sql.Tx, userID int64, at time.Time) (int64, error)

	InsertItem(ctx context.Context, tx *sql.Tx, orderID, bookID, qty int64) error
	DecrementStock(ctx context.Context, tx *sql.Tx, bookID, qty int64) (int64, error)
	BookExists(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error)

	ListOrders(ctx context.Context) ([]HistoryRow, error)
}

type Service interface {
	// Place: create customer, order and items and decrement stock, all in
	// one transaction. Every order inserts a fresh customer row.
	Place(ctx context.Context, name, email string, cart model.Cart) (*Placed, error)

	// List: order history for the admin dashboard.
	List(ctx context.Context) ([]HistoryRow, error)
}

// ----- Service implementation -----

type service struct {
	db *sql.DB
	r  Repo
}

func New(db *sql.DB, r Repo) Service {
	return &service{db: db, r: r}
}

func (s *service) Place(ctx context.Context, name, email string, cart model.Cart) (_ *Placed, err error) {
	if len(cart) == 0 {
		return nil, makeErr(ErrEmptyCart)
	}
	// The cart arrives from client state: a non-positive quantity would turn
	// the guarded decrement into a stock increase.
	for bookID, qty := range cart {
		if bookID <= 0 || qty <= 0 {
			return nil, makeErr(ErrBadInput)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	customerID, err := s.r.InsertCustomer(ctx, tx, name, email)
	if err != nil {
		return nil, err
	}

	orderID, err := s.r.InsertOrder(ctx, tx, customerID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	// Walk the cart in book-id order so concurrent orders take row locks in
	// the same sequence.
	for _, bookID := range sortedIDs(cart) {
		qty := cart[bookID]

		aff, derr := s.r.DecrementStock(ctx, tx, bookID, qty)
		if derr != nil {
			err = derr
			return nil, err
		}
		if aff == 0 {
			exists, eerr := s.r.BookExists(ctx, tx, bookID)
			if eerr != nil {
				err = eerr
				return nil, err
			}
			if !exists {
				err = makeErr(ErrBookNotFound)
			} else {
				err = makeErr(ErrInsufficientStock)
			}
			return nil, err
		}

		if err = s.r.InsertItem(ctx, tx, orderID, bookID, qty); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &Placed{OrderID: orderID, CustomerID: customerID}, nil
}

func (s *service) List(ctx context.Context) ([]HistoryRow, error) {
	return s.r.ListOrders(ctx)
}

func sortedIDs(cart model.Cart) []int64 {
	ids := make([]int64, 0, len(cart))
	for id := range cart {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
