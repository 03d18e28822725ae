package store

import (
	"context"
	"fmt"

	"github.com/corvan/pixwall/models"
)

var _ Store = (*Preview)(nil)

// Preview is the design-time backend: it serves a fixed placeholder set
// and performs no file or network I/O whatsoever. Mutations are accepted
// and discarded so editor surfaces stay inert instead of erroring.
type Preview struct{}

func NewPreview() *Preview { return &Preview{} }

func (p *Preview) List(_ context.Context) ([]models.ImageRecord, error) {
	return models.PlaceholderRecords(), nil
}

func (p *Preview) Get(_ context.Context, id string) (models.ImageRecord, error) {
	for _, rec := range models.PlaceholderRecords() {
		if rec.ID == id {
			return rec, nil
		}
	}
	return models.ImageRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (p *Preview) Create(context.Context, models.ImageRecord, models.VariantSet) error {
	return nil
}

func (p *Preview) UpdateTitle(context.Context, string, string) error { return nil }

func (p *Preview) Delete(context.Context, string) error { return nil }

func (p *Preview) Close() error { return nil }
