package files

import (
	"context"
	"io"

	"filesmanager/internal/domain"
)

// FileRepository is the metadata store the service works against.
type FileRepository interface {
	Create(ctx context.Context, f *domain.File) error
	GetByID(ctx context.Context, id string) (*domain.File, error)
	GetByIDAndOwner(ctx context.Context, id, userID string) (*domain.File, error)
	ListByParent(ctx context.Context, parentID string, offset, limit int) ([]*domain.File, error)
	UpdateVisibility(ctx context.Context, id string, isPublic bool) error
}

// BlobStore persists payloads on local disk.
type BlobStore interface {
	Put(ctx context.Context, data []byte) (string, error)
	Open(path string) (io.ReadSeekCloser, int64, error)
	Remove(path string) error
}
