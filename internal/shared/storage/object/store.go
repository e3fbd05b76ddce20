package object

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// ObjectStore persists raw uploaded payloads and serves them back by key.
type ObjectStore interface {
	// Save stores the reader's contents under a caller-opaque storage key
	// scoped to userId and reports the stored size and detected content type.
	Save(ctx context.Context, userId string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	// Open returns the stored payload for a key previously returned by Save.
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// ContentTypeFor resolves a content type from the file extension, falling
// back to sniffing the payload. CSV sniffs as text/plain, so the extension
// wins when present.
func ContentTypeFor(fileName string, sniff []byte) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	}
	return http.DetectContentType(sniff)
}
