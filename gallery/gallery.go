// Package gallery orchestrates the upload pipeline and fronts the record
// store for the HTTP layer.
package gallery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/corvan/pixwall/config"
	"github.com/corvan/pixwall/imaging"
	"github.com/corvan/pixwall/models"
	"github.com/corvan/pixwall/store"
	"github.com/corvan/pixwall/utils"
)

// Service validates requests, derives image variants and talks to the
// record store. One instance is shared by all requests; it holds no
// per-request state.
type Service struct {
	store          store.Store
	imagesPrefix   string
	maxUploadBytes int64
	modalBound     int
	thumbBound     int
}

func New(st store.Store, cfg config.AppConfig) *Service {
	return &Service{
		store:          st,
		imagesPrefix:   strings.TrimSuffix(cfg.ImagesPrefix, "/"),
		maxUploadBytes: int64(cfg.MaxUploadMB) << 20,
		modalBound:     cfg.ModalBound,
		thumbBound:     cfg.ThumbnailBound,
	}
}

// Ingest runs the full upload pipeline: validate, derive a unique base
// name, generate the variants, persist binaries then document, and return
// the stored record. Any failure is terminal for the request; no step is
// retried.
func (s *Service) Ingest(ctx context.Context, data []byte, mimeType, title string) (models.ImageRecord, error) {
	title = utils.SanitizeTitle(title)
	if title == "" {
		return models.ImageRecord{}, fmt.Errorf("%w: title is required", store.ErrInvalidInput)
	}
	if len(data) == 0 {
		return models.ImageRecord{}, fmt.Errorf("%w: file is required", store.ErrInvalidInput)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return models.ImageRecord{}, fmt.Errorf("%w: %q is not an image type", store.ErrInvalidInput, mimeType)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return models.ImageRecord{}, fmt.Errorf("%w: %d bytes", store.ErrPayloadTooLarge, len(data))
	}

	variants, err := imaging.Generate(data, s.modalBound, s.thumbBound)
	if err != nil {
		return models.ImageRecord{}, err
	}

	id := newID()
	rec := models.ImageRecord{
		ID:            id,
		Title:         title,
		Path:          s.imagesPrefix + "/" + id + "_original" + variants.Ext,
		ModalPath:     s.imagesPrefix + "/" + id + "_modal" + variants.Ext,
		ThumbnailPath: s.imagesPrefix + "/" + id + "_thumb" + variants.Ext,
		UploadDate:    time.Now().UTC(),
	}

	if err := s.store.Create(ctx, rec, variants); err != nil {
		return models.ImageRecord{}, err
	}
	return rec, nil
}

// List returns every record, newest first.
func (s *Service) List(ctx context.Context) ([]models.ImageRecord, error) {
	return s.store.List(ctx)
}

// Rename updates a record's title. The title is sanitized the same way as
// on ingest and must remain non-empty afterwards.
func (s *Service) Rename(ctx context.Context, id, title string) error {
	title = utils.SanitizeTitle(title)
	if title == "" {
		return fmt.Errorf("%w: title is required", store.ErrInvalidInput)
	}
	return s.store.UpdateTitle(ctx, id, title)
}

// Delete removes a record and its binaries.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// newID builds a record base name: millisecond timestamp for ordering and
// human datability, uuid-derived suffix so concurrent ingestions sharing a
// millisecond cannot collide.
func newID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), suffix)
}
