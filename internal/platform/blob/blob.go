// Package blob abstracts object storage for uploaded media.
package blob

import (
	"context"
	"io"
)

// Store persists binary objects and returns publicly reachable URLs.
type Store interface {
	Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
