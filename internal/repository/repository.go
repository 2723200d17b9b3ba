package repository

import (
	"context"
	"errors"

	"doc-attest/internal/model"
)

var ErrNotFound = errors.New("document not found in the store")

// DocumentStore is the only persistence contract the core depends on. The
// store is the single source of truth; derived fields are recomputed from
// the signature list on every read path, never trusted as persisted.
type DocumentStore interface {
	LoadAll(ctx context.Context) ([]model.Document, error)
	SaveAll(ctx context.Context, docs []model.Document) error

	Get(ctx context.Context, id string) (model.Document, error)
	Put(ctx context.Context, doc model.Document) error
}
