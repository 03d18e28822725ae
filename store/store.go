package store

import (
	"context"
	"fmt"

	"github.com/corvan/pixwall/models"
)

// Store is the record collection behind the gallery. A record is one
// metadata document plus three sibling binaries sharing its ID as base
// filename. No locking is imposed; safety derives from ID uniqueness and
// single-writer-per-file. Concurrent mutation of the same ID is
// last-writer-wins.
type Store interface {
	// List returns every record sorted by upload date, newest first. An
	// empty store yields an empty slice and no error; a single undecodable
	// document fails the whole listing with ErrMalformedDocument.
	List(ctx context.Context) ([]models.ImageRecord, error)

	// Get returns one record, or ErrNotFound.
	Get(ctx context.Context, id string) (models.ImageRecord, error)

	// Create persists the three binaries and then the metadata document,
	// in that order, so a document's existence implies its binaries exist.
	// Invoked only by the ingestion pipeline.
	Create(ctx context.Context, rec models.ImageRecord, variants models.VariantSet) error

	// UpdateTitle rewrites the record's document with only the title
	// changed. Empty titles are ErrInvalidInput; absent IDs ErrNotFound.
	UpdateTitle(ctx context.Context, id, title string) error

	// Delete removes the metadata document and then the three binaries.
	// Missing binaries are tolerated; a missing document is ErrNotFound.
	Delete(ctx context.Context, id string) error

	Close() error
}

// Backend names accepted by Open.
const (
	BackendFlatFile = "flatfile"
	BackendBadger   = "badger"
	BackendPreview  = "preview"
)

// Open constructs the configured backend. imagesDir receives the binaries
// for every backend that performs I/O; badgerPath is only consulted for
// the badger backend.
func Open(backend, imagesDir, badgerPath string) (Store, error) {
	switch backend {
	case BackendPreview:
		return NewPreview(), nil
	case BackendBadger:
		return NewBadger(imagesDir, badgerPath)
	case BackendFlatFile, "":
		return NewFlatFile(imagesDir)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
