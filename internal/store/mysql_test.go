package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "email", "password_hash", "first_name", "last_name", "is_active", "created_at", "updated_at", "last_login"}

func newMySQLWithMock(t *testing.T) (*MySQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMySQLStore(db), mock
}

func TestMySQLStore_FindByEmail_Found(t *testing.T) {
	s, mock := newMySQLWithMock(t)
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = ?`)).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u-1", "a@b.com", "hash", "Ann", "", true, now, now, nil))

	u, err := s.FindByEmail(context.Background(), "A@B.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.True(t, u.IsActive)
	assert.Nil(t, u.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStore_FindByID_WithLastLogin(t *testing.T) {
	s, mock := newMySQLWithMock(t)
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = ?`)).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u-1", "a@b.com", "hash", "Ann", "Lee", true, now, now, now))

	u, err := s.FindByID(context.Background(), "u-1")
	require.NoError(t, err)
	require.NotNil(t, u.LastLogin)
	assert.True(t, u.LastLogin.Equal(now))
	assert.Equal(t, "Lee", u.LastName)
}

func TestMySQLStore_FindByID_NotFound(t *testing.T) {
	s, mock := newMySQLWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = ?`)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := s.FindByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMySQLStore_FindByEmail_DBError(t *testing.T) {
	s, mock := newMySQLWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = ?`)).
		WithArgs("a@b.com").
		WillReturnError(errors.New("db down"))

	_, err := s.FindByEmail(context.Background(), "a@b.com")
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db down`, err.Error())
}

func TestMySQLStore_Insert(t *testing.T) {
	s, mock := newMySQLWithMock(t)
	u := newUser("u-1", "A@B.com")

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("u-1", "a@b.com", "hash", "Ann", "", true, sqlmock.AnyArg(), sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Insert(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStore_Insert_Duplicate(t *testing.T) {
	s, mock := newMySQLWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.com' for key 'users.email'"})

	err := s.Insert(context.Background(), newUser("u-1", "a@b.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestMySQLStore_Update(t *testing.T) {
	s, mock := newMySQLWithMock(t)
	u := newUser("u-1", "a@b.com")
	u.LastName = "Lee"

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET`)).
		WithArgs("a@b.com", "hash", "Ann", "Lee", true, sqlmock.AnyArg(), nil, "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Update(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStore_Update_NotFound(t *testing.T) {
	s, mock := newMySQLWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Update(context.Background(), newUser("ghost", "g@b.com"))
	assert.ErrorIs(t, err, ErrNotFound)
}
