package files

import "context"

// Repo defines persistence operations for uploaded files.
type Repo interface {
	Create(ctx context.Context, file File) error
	GetByID(ctx context.Context, userID, fileID string) (File, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]File, error)
}
