// Package archive holds cold storage for rotated log files. The pipeline
// appends signal and paper-trade rows to daily CSV files; once a file rotates
// it is pushed here and the hot copy removed.
package archive

import (
	"context"
	"fmt"

	"github.com/quantlab/flowdesk/internal/config"
	"github.com/quantlab/flowdesk/internal/core"
)

// Storage is a flat key/blob archive backend.
type Storage interface {
	// Put stores data at the given key, overwriting any previous blob.
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves the blob stored at key.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns every key under the prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the blob at key.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a blob is stored at key.
	Exists(ctx context.Context, key string) (bool, error)
}

// New builds the backend named by the configuration.
func New(cfg config.ArchiveConfig) (Storage, error) {
	switch cfg.Type {
	case "", "localfs":
		return NewLocalFS(cfg.Path)
	case "s3":
		return NewS3(cfg.S3)
	default:
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown archive type %q", cfg.Type))
	}
}
