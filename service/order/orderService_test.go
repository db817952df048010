// service/order/orderService_test.go
package order

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"bookstore/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	insertCustomerFn func(ctx context.Context, tx *sql.Tx, name, email string) (int64, error)
	insertOrderFn    func(ctx context.Context, tx *sql.Tx, userID int64, at time.Time) (int64, error)
	insertItemFn     func(ctx context.Context, tx *sql.Tx, orderID, bookID, qty int64) error
	decrementFn      func(ctx context.Context, tx *sql.Tx, bookID, qty int64) (int64, error)
	bookExistsFn     func(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error)
	listOrdersFn     func(ctx context.Context) ([]HistoryRow, error)
}

var _ Repo = (*mockRepo)(nil)

func (m *mockRepo) InsertCustomer(ctx context.Context, tx *sql.Tx, name, email string) (int64, error) {
	return m.insertCustomerFn(ctx, tx, name, email)
}
func (m *mockRepo) InsertOrder(ctx context.Context, tx *sql.Tx, userID int64, at time.Time) (int64, error) {
	return m.insertOrderFn(ctx, tx, userID, at)
}
func (m *mockRepo) InsertItem(ctx context.Context, tx *sql.Tx, orderID, bookID, qty int64) error {
	return m.insertItemFn(ctx, tx, orderID, bookID, qty)
}
func (m *mockRepo) DecrementStock(ctx context.Context, tx *sql.Tx, bookID, qty int64) (int64, error) {
	return m.decrementFn(ctx, tx, bookID, qty)
}
func (m *mockRepo) BookExists(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) {
	return m.bookExistsFn(ctx, tx, bookID)
}
func (m *mockRepo) ListOrders(ctx context.Context) ([]HistoryRow, error) {
	if m.listOrdersFn == nil {
		return nil, nil
	}
	return m.listOrdersFn(ctx)
}

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// --- tests ---

func TestPlace_EmptyCart(t *testing.T) {
	db, mock := newDB(t)
	svc := New(db, &mockRepo{})

	_, err := svc.Place(context.Background(), "Ana", "ana@example.com", model.Cart{})
	require.Error(t, err)
	require.Equal(t, ErrEmptyCart, Code(err))

	// no transaction is even begun
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlace_NonPositiveQuantity(t *testing.T) {
	db, mock := newDB(t)

	var decrements, items int
	m := &mockRepo{
		insertCustomerFn: func(ctx context.Context, tx *sql.Tx, name, email string) (int64, error) {
			return 1, nil
		},
		insertOrderFn: func(ctx context.Context, tx *sql.Tx, userID int64, at time.Time) (int64, error) {
			return 2, nil
		},
		decrementFn: func(ctx context.Context, tx *sql.Tx, bookID, qty int64) (int64, error) {
			decrements++
			return 1, nil
		},
		insertItemFn: func(ctx context.Context, tx *sql.Tx, orderID, bookID, qty int64) error {
			items++
			return nil
		},
	}
	svc := New(db, m)

	// a forged cart cookie can carry zero or negative quantities; a negative
	// one would increment stock through the guarded decrement
	for _, cart := range []model.Cart{{7: -3}, {7: 0}, {7: 2, 9: -1}, {-4: 1}} {
		_, err := svc.Place(context.Background(), "Eve", "eve@example.com", cart)
		require.Error(t, err)
		require.Equal(t, ErrBadInput, Code(err))
	}
	require.Zero(t, decrements)
	require.Zero(t, items)

	// no transaction is even begun
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlace_Success(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	decrements := map[int64]int64{}
	items := map[int64]int64{}

	m := &mockRepo{
		insertCustomerFn: func(ctx context.Context, tx *sql.Tx, name, email string) (int64, error) {
			require.Equal(t, "Ana", name)
			require.Equal(t, "ana@example.com", email)
			return 11, nil
		},
		insertOrderFn: func(ctx context.Context, tx *sql.Tx, userID int64, at time.Time) (int64, error) {
			require.Equal(t, int64(11), userID)
			require.WithinDuration(t, time.Now().UTC(), at, time.Minute)
			return 5, nil
		},
		decrementFn: func(ctx context.Context, tx *sql.Tx, bookID, qty int64) (int64, error) {
			decrements[bookID] += qty
			return 1, nil
		},
		insertItemFn: func(ctx context.Context, tx *sql.Tx, orderID, bookID, qty int64) error {
			require.Equal(t, int64(5), orderID)
			items[bookID] = qty
			return nil
		},
	}
	svc := New(db, m)

	out, err := svc.Place(context.Background(), "Ana", "ana@example.com", model.Cart{7: 2, 9: 1})
	require.NoError(t, err)
	require.Equal(t, int64(5), out.OrderID)
	require.Equal(t, int64(11), out.CustomerID)

	// decrement applied per book equals the inserted item quantity
	require.Equal(t, map[int64]int64{7: 2, 9: 1}, decrements)
	require.Equal(t, map[int64]int64{7: 2, 9: 1}, items)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlace_InsufficientStock(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	var itemInserts int
	m := &mockRepo{
		insertCustomerFn: func(ctx context.Context, tx *sql.Tx, name, email string) (int64, error) {
			return 1, nil
		},
		insertOrderFn: func(ctx context.Context, tx *sql.Tx, userID int64, at time.Time) (int64, error) {
			return 2, nil
		},
		decrementFn: func(ctx context.Context, tx *sql.Tx, bookID, qty int64) (int64, error) {
			return 0, nil // guard refuses
		},
		bookExistsFn: func(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) {
			return true, nil
		},
		insertItemFn: func(ctx context.Context, tx *sql.Tx, orderID, bookID, qty int64) error {
			itemInserts++
			return nil
		},
	}
	svc := New(db, m)

	_, err := svc.Place(context.Background(), "Bob", "bob@example.com", model.Cart{7: 99})
	require.Error(t, err)
	require.Equal(t, ErrInsufficientStock, Code(err))
	require.Zero(t, itemInserts)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlace_BookNotFound(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		insertCustomerFn: func(ctx context.Context, tx *sql.Tx, name, email string) (int64, error) {
			return 1, nil
		},
		insertOrderFn: func(ctx context.Context, tx *sql.Tx, userID int64, at time.Time) (int64, error) {
			return 2, nil
		},
		decrementFn: func(ctx context.Context, tx *sql.Tx, bookID, qty int64) (int64, error) {
			return 0, nil
		},
		bookExistsFn: func(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) {
			return false, nil
		},
	}
	svc := New(db, m)

	_, err := svc.Place(context.Background(), "Bob", "bob@example.com", model.Cart{404: 1})
	require.Error(t, err)
	require.Equal(t, ErrBookNotFound, Code(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlace_ItemInsertFailureRollsBack(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("constraint violation")
	m := &mockRepo{
		insertCustomerFn: func(ctx context.Context, tx *sql.Tx, name, email string) (int64, error) {
			return 1, nil
		},
		insertOrderFn: func(ctx context.Context, tx *sql.Tx, userID int64, at time.Time) (int64, error) {
			return 2, nil
		},
		decrementFn: func(ctx context.Context, tx *sql.Tx, bookID, qty int64) (int64, error) {
			return 1, nil
		},
		insertItemFn: func(ctx context.Context, tx *sql.Tx, orderID, bookID, qty int64) error {
			return boom
		},
	}
	svc := New(db, m)

	_, err := svc.Place(context.Background(), "Bob", "bob@example.com", model.Cart{7: 1})
	require.ErrorIs(t, err, boom)
	require.Equal(t, ErrCode(""), Code(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlace_LocksInBookIDOrder(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var seen []int64
	m := &mockRepo{
		insertCustomerFn: func(ctx context.Context, tx *sql.Tx, name, email string) (int64, error) {
			return 1, nil
		},
		insertOrderFn: func(ctx context.Context, tx *sql.Tx, userID int64, at time.Time) (int64, error) {
			return 2, nil
		},
		decrementFn: func(ctx context.Context, tx *sql.Tx, bookID, qty int64) (int64, error) {
			seen = append(seen, bookID)
			return 1, nil
		},
		insertItemFn: func(ctx context.Context, tx *sql.Tx, orderID, bookID, qty int64) error {
			return nil
		},
	}
	svc := New(db, m)

	_, err := svc.Place(context.Background(), "Bob", "bob@example.com", model.Cart{9: 1, 3: 1, 7: 1})
	require.NoError(t, err)
	require.Equal(t, []int64{3, 7, 9}, seen)
}
