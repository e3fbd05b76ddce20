package files

import (
	"time"

	"budget-backend/internal/analytics"
)

// File is an uploaded dataset with its computed analytics.
type File struct {
	ID         string                  `json:"id"`
	UserID     string                  `json:"userId"`
	FileName   string                  `json:"fileName"`
	StorageKey string                  `json:"-"`
	SizeBytes  int64                   `json:"sizeBytes"`
	RowCount   int                     `json:"rowCount"`
	Metrics    analytics.MetricsResult `json:"analytics"`
	CreatedAt  time.Time               `json:"createdAt"`
}
