package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `
id, user_id, file_name, file_size, mime_type, storage_key, status,
extracted_data, error_kind, error_message, failed_at, created_at, updated_at`

// Create inserts a new resume row in processing status.
func (r *PGRepo) Create(ctx context.Context, res Resume) error {
	const query = `
INSERT INTO resumes (
    id, user_id, file_name, file_size, mime_type, storage_key, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		res.ID,
		res.UserID,
		res.FileName,
		res.SizeBytes,
		res.MimeType,
		res.StorageKey,
		res.Status,
		res.CreatedAt,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, id string) (Resume, error) {
	query := `SELECT ` + selectColumns + ` FROM resumes WHERE id = $1 LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) GetByUser(ctx context.Context, userID, id string) (Resume, error) {
	query := `SELECT ` + selectColumns + ` FROM resumes WHERE user_id = $1 AND id = $2 LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID, id))
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + selectColumns + `
FROM resumes
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		res, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkCompleted finalizes a job with its extracted data. The status guard in
// the WHERE clause keeps terminal rows immutable without a row lock.
func (r *PGRepo) MarkCompleted(ctx context.Context, id string, extracted json.RawMessage) error {
	const query = `
UPDATE resumes
SET status = $1, extracted_data = $2, updated_at = NOW()
WHERE id = $3 AND status = $4`
	res, err := r.DB.ExecContext(ctx, query, StatusCompleted, []byte(extracted), id, StatusProcessing)
	if err != nil {
		return err
	}
	return r.checkTransition(ctx, res, id)
}

// MarkFailed finalizes a job with its failure diagnostic.
func (r *PGRepo) MarkFailed(ctx context.Context, id string, diag Diagnostic) error {
	const query = `
UPDATE resumes
SET status = $1, error_kind = $2, error_message = $3, failed_at = $4, updated_at = NOW()
WHERE id = $5 AND status = $6`
	res, err := r.DB.ExecContext(ctx, query, StatusFailed, diag.ErrorKind, diag.Message, diag.Timestamp, id, StatusProcessing)
	if err != nil {
		return err
	}
	return r.checkTransition(ctx, res, id)
}

func (r *PGRepo) checkTransition(ctx context.Context, res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	var status string
	err = r.DB.QueryRowContext(ctx, `SELECT status FROM resumes WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if Terminal(status) {
		return ErrTerminalStatus
	}
	return ErrNotFound
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (Resume, error) {
	var res Resume
	var mimeType sql.NullString
	var extracted []byte
	var errorKind sql.NullString
	var errorMessage sql.NullString
	var failedAt sql.NullTime
	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.FileName,
		&res.SizeBytes,
		&mimeType,
		&res.StorageKey,
		&res.Status,
		&extracted,
		&errorKind,
		&errorMessage,
		&failedAt,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	if mimeType.Valid {
		res.MimeType = mimeType.String
	}
	if len(extracted) > 0 {
		res.ExtractedData = json.RawMessage(extracted)
	}
	if errorKind.Valid {
		res.ErrorKind = errorKind.String
	}
	if errorMessage.Valid {
		res.ErrorMessage = errorMessage.String
	}
	if failedAt.Valid {
		res.FailedAt = &failedAt.Time
	}
	return res, nil
}

var _ Repo = (*PGRepo)(nil)
