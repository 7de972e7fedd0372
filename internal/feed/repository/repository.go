package repository

import (
	"context"
	"errors"

	"github.com/spilno/spilno-backend/internal/feed"
)

var ErrNotFound = errors.New("publication not found")

// Publications persists schemaless publication documents.
type Publications interface {
	List(ctx context.Context) ([]feed.Document, error)
	ListByUser(ctx context.Context, userID string) ([]feed.Document, error)
	Create(ctx context.Context, fields feed.Fields) (string, error)
	Update(ctx context.Context, id string, fields feed.Fields) error
	Delete(ctx context.Context, id string) error
}

// Comments persists comments attached to a publication. There is no parent
// existence check: comments under an unknown publication id are allowed.
type Comments interface {
	Create(ctx context.Context, publicationID string, fields feed.Fields) (string, error)
	ListByPublication(ctx context.Context, publicationID string) ([]feed.Document, error)
}

// Likes persists at most one like per (publication, user) pair. Put is an
// upsert and Delete is idempotent, so both are safe under retries.
type Likes interface {
	Put(ctx context.Context, publicationID, userID string) error
	Delete(ctx context.Context, publicationID, userID string) error
	Count(ctx context.Context, publicationID string) (int64, error)
	Exists(ctx context.Context, publicationID, userID string) (bool, error)
}
