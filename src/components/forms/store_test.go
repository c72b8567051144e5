package forms

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newStoreMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewStore(db), mock
}

func TestStoreGetNotFound(t *testing.T) {
	store, mock := newStoreMock(t)

	mock.ExpectQuery("SELECT .* FROM `forms`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Get(context.Background(), "g1", "missing")
	assert.ErrorIs(t, err, ErrFormNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGetByUUIDNotFound(t *testing.T) {
	store, mock := newStoreMock(t)

	mock.ExpectQuery("SELECT .* FROM `forms`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.GetByUUID(context.Background(), "g1", "deadbeef")
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestStoreGetPreloadsFields(t *testing.T) {
	store, mock := newStoreMock(t)

	mock.ExpectQuery("SELECT .* FROM `forms`").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "uuid", "guild_id", "name", "channel_id"}).
			AddRow(7, "u-1", "g1", "Feedback", "c1"))
	mock.ExpectQuery("SELECT .* FROM `form_fields`").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "form_id", "position", "label", "style"}).
			AddRow(1, 7, 0, "Name", "short").
			AddRow(2, 7, 1, "Comments", "paragraph"))

	form, err := store.Get(context.Background(), "g1", "Feedback")
	require.NoError(t, err)
	assert.Equal(t, "u-1", form.UUID)
	require.Len(t, form.Fields, 2)
	assert.Equal(t, "Name", form.Fields[0].Label)
	assert.Equal(t, "Comments", form.Fields[1].Label)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCreateDuplicateName(t *testing.T) {
	store, mock := newStoreMock(t)

	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	form := pipelineForm(0)
	form.UUID = ""
	err := store.Create(context.Background(), form)
	assert.ErrorIs(t, err, ErrFormExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCreateAssignsUUID(t *testing.T) {
	store, mock := newStoreMock(t)

	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `forms`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO `form_fields`").
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	form := pipelineForm(0)
	form.UUID = ""
	err := store.Create(context.Background(), form)
	require.NoError(t, err)
	assert.NotEmpty(t, form.UUID)
}

func TestStoreDeleteMissing(t *testing.T) {
	store, mock := newStoreMock(t)

	mock.ExpectQuery("SELECT .* FROM `forms`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	existed, err := store.Delete(context.Background(), "g1", "deadbeef")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestStoreDelete(t *testing.T) {
	store, mock := newStoreMock(t)

	mock.ExpectQuery("SELECT .* FROM `forms`").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "uuid", "guild_id", "name"}).
			AddRow(7, "u-1", "g1", "Feedback"))
	mock.ExpectQuery("SELECT .* FROM `form_fields`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `form_fields`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `forms`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	existed, err := store.Delete(context.Background(), "g1", "u-1")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
