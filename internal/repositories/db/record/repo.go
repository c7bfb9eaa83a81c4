package recordrepo

import (
	"context"
	"database/sql"
	"docproxy/internal/entities"
	"docproxy/internal/models"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const pkg = "recordRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) RecordByID(ctx context.Context, id string) (*models.DocumentRecord, error) {
	op := pkg + "RecordByID"

	rawRec := entities.DocumentRecord{}

	err := r.db.GetContext(ctx, &rawRec,
		`SELECT
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
			WHERE r.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.DocumentRecord{
		ID:               rawRec.ID,
		State:            models.DocumentState(rawRec.State),
		AccessKey:        rawRec.AccessKey,
		Name:             rawRec.Name,
		Size:             rawRec.Size,
		Workgroup:        rawRec.Workgroup,
		RemoteCreatedAt:  rawRec.RemoteCreatedAt,
		RemoteModifiedAt: rawRec.RemoteModifiedAt,
		UpdatedAt:        rawRec.UpdatedAt,
	}, nil
}

// UpsertRecord creates the record on first use and mutates it in place
// afterwards. Records are never deleted.
func (r *repository) UpsertRecord(ctx context.Context, rec *models.DocumentRecord) error {
	op := pkg + "UpsertRecord"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO document_records (id, state, access_key, name, size, workgroup, remote_created_at, remote_modified_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			access_key = EXCLUDED.access_key,
			name = EXCLUDED.name,
			size = EXCLUDED.size,
			workgroup = EXCLUDED.workgroup,
			remote_created_at = EXCLUDED.remote_created_at,
			remote_modified_at = EXCLUDED.remote_modified_at,
			updated_at = EXCLUDED.updated_at`,
		rec.ID, string(rec.State), rec.AccessKey, rec.Name, rec.Size, rec.Workgroup,
		rec.RemoteCreatedAt, rec.RemoteModifiedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SetState writes a state transition together with its access key in one
// statement, so a rotated key is durable the moment the transition is.
func (r *repository) SetState(ctx context.Context, id string, state models.DocumentState, accessKey string) error {
	op := pkg + "SetState"

	res, err := r.db.ExecContext(ctx,
		`UPDATE document_records
		SET state = $2, access_key = $3, updated_at = NOW()
		WHERE id = $1`,
		id, string(state), accessKey)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrRecordNotFound)
	}

	return nil
}
