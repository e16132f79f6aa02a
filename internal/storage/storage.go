package storage

import (
	"context"
	"io"
)

// Uploader is the narrow interface services depend on for file storage: a
// stream plus content type in, a durable URL out.
type Uploader interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}
