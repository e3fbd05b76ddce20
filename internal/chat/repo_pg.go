package chat

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Append inserts a new message.
func (r *PGRepo) Append(ctx context.Context, msg Message) error {
	const query = `
INSERT INTO chat_messages (
    id,
    user_id,
    role,
    content,
    file_id,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6)`

	var fileID sql.NullString
	if msg.FileID != "" {
		fileID = sql.NullString{String: msg.FileID, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		msg.ID,
		msg.UserID,
		msg.Role,
		msg.Content,
		fileID,
		msg.CreatedAt,
	)
	return err
}

// ListByUser returns up to limit most recent messages, oldest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Message, error) {
	const query = `
SELECT id, user_id, role, content, file_id, created_at
FROM (
    SELECT id, user_id, role, content, file_id, created_at
    FROM chat_messages
    WHERE user_id = $1
    ORDER BY created_at DESC
    LIMIT $2
) recent
ORDER BY created_at ASC`

	capped := limit
	if capped <= 0 {
		capped = 1000
	}

	rows, err := r.DB.QueryContext(ctx, query, userID, capped)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Message{}
	for rows.Next() {
		var msg Message
		var fileID sql.NullString
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Role, &msg.Content, &fileID, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if fileID.Valid {
			msg.FileID = fileID.String
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

// ClearByUser removes the user's full transcript.
func (r *PGRepo) ClearByUser(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM chat_messages WHERE user_id = $1`, userID)
	return err
}
