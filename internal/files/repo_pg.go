package files

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new file record.
func (r *PGRepo) Create(ctx context.Context, file File) error {
	const query = `
INSERT INTO uploaded_files (
    id,
    user_id,
    file_name,
    storage_key,
    size_bytes,
    row_count,
    metrics,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	metricsJSON, err := json.Marshal(file.Metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		file.ID,
		file.UserID,
		file.FileName,
		file.StorageKey,
		file.SizeBytes,
		file.RowCount,
		metricsJSON,
		file.CreatedAt,
	)
	return err
}

// GetByID returns a file by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, fileID string) (File, error) {
	const query = `
SELECT id, user_id, file_name, storage_key, size_bytes, row_count, metrics, created_at
FROM uploaded_files
WHERE id = $1 AND user_id = $2`

	row := r.DB.QueryRowContext(ctx, query, fileID, userID)
	file, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return File{}, ErrNotFound
	}
	return file, err
}

// ListByUser returns files for a user, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]File, error) {
	const query = `
SELECT id, user_id, file_name, storage_key, size_bytes, row_count, metrics, created_at
FROM uploaded_files
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []File{}
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, file)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (File, error) {
	var file File
	var metricsJSON []byte
	if err := row.Scan(
		&file.ID,
		&file.UserID,
		&file.FileName,
		&file.StorageKey,
		&file.SizeBytes,
		&file.RowCount,
		&metricsJSON,
		&file.CreatedAt,
	); err != nil {
		return File{}, err
	}
	if len(metricsJSON) > 0 {
		if err := json.Unmarshal(metricsJSON, &file.Metrics); err != nil {
			return File{}, fmt.Errorf("unmarshal metrics: %w", err)
		}
	}
	return file, nil
}
