package storage

import (
	"context"
)

// FileStorage holds doctor profile photos. It is optional: when no storage
// backend is configured the photo endpoints are disabled.
type FileStorage interface {
	Upload(ctx context.Context, objectName string, data []byte) (string, error)
	Delete(ctx context.Context, fileURL string) error
}
