// Package storage keeps uploaded profile photos.
//
// Two backends implement Storage: LocalStorage writes below a directory and
// is served by the app under /files, R2Storage talks to Cloudflare R2 through
// the S3 API.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Storage is a flat key/value object store.
type Storage interface {
	// Put writes data at key. It fails with ErrKeyExists unless opts.Overwrite
	// is set, and with ErrTooLarge when data exceeds opts.MaxSize.
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error

	// Get opens the object at key. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns a link to key. A zero expires asks for a permanent link
	// where the backend has one.
	URL(ctx context.Context, key string, expires time.Duration) (string, error)

	Exists(ctx context.Context, key string) (bool, error)
}

// PutOptions configures a single Put.
type PutOptions struct {
	ContentType string
	MaxSize     int64 // 0 means unlimited
	Overwrite   bool
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	ETag         string
}

// LocalConfig configures LocalStorage.
type LocalConfig struct {
	BasePath string // e.g. "./storage"
	BaseURL  string // e.g. "http://localhost:8080/files"
}

// R2Config configures R2Storage.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string // custom domain; presigned URLs are used when empty
	Region          string // defaults to "auto"
}

const (
	ProviderLocal = "local"
	ProviderR2    = "r2"
)

// New builds the backend named by provider.
func New(provider string, local LocalConfig, r2 R2Config, logger *slog.Logger) (Storage, error) {
	switch provider {
	case ProviderLocal:
		return NewLocalStorage(local, logger)
	case ProviderR2:
		return NewR2Storage(r2, logger)
	}
	return nil, fmt.Errorf("unknown storage provider %q", provider)
}

// ProfilePhotoKey returns a fresh key for a person's profile photo.
// Format: profiles/{kind}/{ownerID}/{uuid}.jpg where kind is "teachers" or
// "students". Photos are always re-encoded to JPEG before storage.
func ProfilePhotoKey(kind, ownerID string) string {
	return fmt.Sprintf("profiles/%s/%s/%s.jpg", kind, ownerID, uuid.New())
}
