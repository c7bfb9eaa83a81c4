package recordrepo

import (
	"context"
	"docproxy/internal/models"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func setup(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, *repository) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "postgres")
	repo := NewRepository(sqlxDB)
	return sqlxDB, mock, repo
}

func TestRecordByID_Success(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT
			r.id AS id,
			r.state AS state,
			r.access_key AS access_key,
			r.name AS name,
			r.size AS size,
			r.workgroup AS workgroup,
			r.remote_created_at AS remote_created_at,
			r.remote_modified_at AS remote_modified_at,
			r.updated_at AS updated_at
			FROM document_records r
			WHERE r.id = $1`)).
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "state", "access_key", "name", "size", "workgroup", "remote_created_at", "remote_modified_at", "updated_at",
		}).AddRow(
			"doc-1", "downloaded", "k1", "report.docx", int64(42), "wg", now, now, now,
		))

	rec, err := repo.RecordByID(context.Background(), "doc-1")

	assert.NoError(t, err)
	assert.Equal(t, "doc-1", rec.ID)
	assert.Equal(t, models.StateDownloaded, rec.State)
	assert.Equal(t, "k1", rec.AccessKey)
	assert.Equal(t, int64(42), rec.Size)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordByID_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM document_records r`)).
		WithArgs("doc-404").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec, err := repo.RecordByID(context.Background(), "doc-404")

	assert.Nil(t, rec)
	assert.ErrorIs(t, err, models.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRecord_Success(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	rec := &models.DocumentRecord{
		ID:               "doc-1",
		State:            models.StateDownloading,
		AccessKey:        "k1",
		Name:             "report.docx",
		Size:             42,
		Workgroup:        "wg",
		RemoteCreatedAt:  time.Now(),
		RemoteModifiedAt: time.Now(),
		UpdatedAt:        time.Now(),
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO document_records`)).
		WithArgs(rec.ID, "downloading", rec.AccessKey, rec.Name, rec.Size, rec.Workgroup,
			rec.RemoteCreatedAt, rec.RemoteModifiedAt, rec.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertRecord(context.Background(), rec)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRecord_InsertError(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	rec := &models.DocumentRecord{ID: "doc-1", State: models.StateDownloading, AccessKey: "k1"}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO document_records`)).
		WillReturnError(errors.New("db failure"))

	err := repo.UpsertRecord(context.Background(), rec)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "UpsertRecord")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetState_Success(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE document_records`)).
		WithArgs("doc-1", "removed", "k2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetState(context.Background(), "doc-1", models.StateRemoved, "k2")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetState_NoRecord(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE document_records`)).
		WithArgs("doc-404", "removed", "k2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetState(context.Background(), "doc-404", models.StateRemoved, "k2")

	assert.ErrorIs(t, err, models.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
