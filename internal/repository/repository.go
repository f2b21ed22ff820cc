package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pep299/cv-generator/internal/config"
	"github.com/pep299/cv-generator/internal/cv"
)

// ErrNotFound is returned when a document does not exist or has expired.
var ErrNotFound = errors.New("document not found")

// DocumentRepository stores generated CVs
type DocumentRepository interface {
	Save(ctx context.Context, doc *cv.Document) error
	Get(ctx context.Context, id string) (*cv.Document, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*cv.Document, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
	Close() error
}

// New creates the repository selected by cfg.StorageType
func New(ctx context.Context, cfg *config.Config) (DocumentRepository, error) {
	switch cfg.StorageType {
	case "gcs":
		return NewGCSRepository(ctx, cfg.StorageBucket)
	case "postgres":
		return NewPostgresRepository(ctx, cfg.DatabaseURL)
	case "memory", "":
		return NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
}
