// service/request/requestService_test.go
package request

import (
	"context"
	"database/sql"
	"testing"

	"bookstore/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	insertFn       func(ctx context.Context, userID int64, title, author, details string) (int64, error)
	listFn         func(ctx context.Context) ([]ListRow, error)
	getForUpdateFn func(ctx context.Context, tx *sql.Tx, id int64) (*model.SpecialRequest, error)
	setStatusFn    func(ctx context.Context, tx *sql.Tx, id int64, status model.RequestStatus) error
	insertBookFn   func(ctx context.Context, tx *sql.Tx, title, author string) (int64, error)
}

var _ Repo = (*mockRepo)(nil)

func (m *mockRepo) Insert(ctx context.Context, userID int64, title, author, details string) (int64, error) {
	return m.insertFn(ctx, userID, title, author, details)
}
func (m *mockRepo) List(ctx context.Context) ([]ListRow, error) { return m.listFn(ctx) }
func (m *mockRepo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.SpecialRequest, error) {
	return m.getForUpdateFn(ctx, tx, id)
}
func (m *mockRepo) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.RequestStatus) error {
	return m.setStatusFn(ctx, tx, id, status)
}
func (m *mockRepo) InsertApprovedBook(ctx context.Context, tx *sql.Tx, title, author string) (int64, error) {
	return m.insertBookFn(ctx, tx, title, author)
}

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func pendingReq(id int64) *model.SpecialRequest {
	return &model.SpecialRequest{
		ID: id, UserID: 3, Title: "Solaris", Author: "Lem", Status: model.RequestPending,
	}
}

// --- tests ---

func TestSubmit_BadInput(t *testing.T) {
	svc := New(nil, &mockRepo{})

	_, err := svc.Submit(context.Background(), 0, "Solaris", "Lem", "")
	require.Equal(t, ErrBadInput, Code(err))

	_, err = svc.Submit(context.Background(), 3, "  ", "Lem", "")
	require.Equal(t, ErrBadInput, Code(err))
}

func TestSubmit_Success(t *testing.T) {
	m := &mockRepo{
		insertFn: func(ctx context.Context, userID int64, title, author, details string) (int64, error) {
			require.Equal(t, int64(3), userID)
			require.Equal(t, "Solaris", title)
			return 8, nil
		},
	}
	svc := New(nil, m)

	id, err := svc.Submit(context.Background(), 3, " Solaris ", "Lem", "hardcover please")
	require.NoError(t, err)
	require.Equal(t, int64(8), id)
}

func TestApprove_PendingCreatesOneBook(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var bookInserts int
	var finalStatus model.RequestStatus
	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.SpecialRequest, error) {
			return pendingReq(id), nil
		},
		insertBookFn: func(ctx context.Context, tx *sql.Tx, title, author string) (int64, error) {
			bookInserts++
			require.Equal(t, "Solaris", title)
			require.Equal(t, "Lem", author)
			return 77, nil
		},
		setStatusFn: func(ctx context.Context, tx *sql.Tx, id int64, status model.RequestStatus) error {
			finalStatus = status
			return nil
		},
	}
	svc := New(db, m)

	bookID, err := svc.Approve(context.Background(), 8)
	require.NoError(t, err)
	require.Equal(t, int64(77), bookID)
	require.Equal(t, 1, bookInserts)
	require.Equal(t, model.RequestApproved, finalStatus)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove_NotPendingIsRefused(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	var bookInserts int
	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.SpecialRequest, error) {
			r := pendingReq(id)
			r.Status = model.RequestApproved
			return r, nil
		},
		insertBookFn: func(ctx context.Context, tx *sql.Tx, title, author string) (int64, error) {
			bookInserts++
			return 0, nil
		},
	}
	svc := New(db, m)

	_, err := svc.Approve(context.Background(), 8)
	require.Error(t, err)
	require.Equal(t, ErrNotPending, Code(err))
	require.Zero(t, bookInserts)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove_NotFound(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.SpecialRequest, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(db, m)

	_, err := svc.Approve(context.Background(), 999)
	require.Equal(t, ErrNotFound, Code(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDecline_Pending(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var finalStatus model.RequestStatus
	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.SpecialRequest, error) {
			return pendingReq(id), nil
		},
		setStatusFn: func(ctx context.Context, tx *sql.Tx, id int64, status model.RequestStatus) error {
			finalStatus = status
			return nil
		},
	}
	svc := New(db, m)

	require.NoError(t, svc.Decline(context.Background(), 8))
	require.Equal(t, model.RequestDeclined, finalStatus)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDecline_AlreadyDeclined(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.SpecialRequest, error) {
			r := pendingReq(id)
			r.Status = model.RequestDeclined
			return r, nil
		},
	}
	svc := New(db, m)

	err := svc.Decline(context.Background(), 8)
	require.Equal(t, ErrNotPending, Code(err))

	require.NoError(t, mock.ExpectationsWereMet())
}
