package gallery

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvan/pixwall/config"
	"github.com/corvan/pixwall/store"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.NewFlatFile(dir)
	require.NoError(t, err)
	svc := New(st, config.AppConfig{
		ImagesDir:      dir,
		ImagesPrefix:   "/images",
		MaxUploadMB:    5,
		ModalBound:     800,
		ThumbnailBound: 280,
	})
	return svc, dir
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestIngestAndList(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Ingest(ctx, pngBytes(t, 150, 100), "image/png", "Cat")
	require.NoError(t, err)
	assert.Equal(t, "Cat", rec.Title)
	assert.True(t, strings.HasPrefix(rec.Path, "/images/"))
	assert.Contains(t, rec.Path, "_original.png")
	assert.Contains(t, rec.ModalPath, "_modal.png")
	assert.Contains(t, rec.ThumbnailPath, "_thumb.png")
	assert.False(t, rec.UploadDate.IsZero())

	// Every binary named by the record exists and is non-empty.
	for _, webPath := range []string{rec.Path, rec.ModalPath, rec.ThumbnailPath} {
		info, err := os.Stat(filepath.Join(dir, filepath.Base(webPath)))
		require.NoError(t, err, webPath)
		assert.Greater(t, info.Size(), int64(0), webPath)
	}

	records, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.ID, records[0].ID)
}

func TestIngestValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	raw := pngBytes(t, 10, 10)

	_, err := svc.Ingest(ctx, raw, "image/png", "")
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	_, err = svc.Ingest(ctx, raw, "image/png", "<script>alert(1)</script>")
	assert.ErrorIs(t, err, store.ErrInvalidInput, "title that sanitizes to nothing is rejected")

	_, err = svc.Ingest(ctx, nil, "image/png", "Cat")
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	_, err = svc.Ingest(ctx, raw, "text/plain", "Cat")
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	_, err = svc.Ingest(ctx, []byte("junk"), "image/png", "Cat")
	assert.ErrorIs(t, err, store.ErrUnsupportedFormat)
}

func TestIngestPayloadTooLarge(t *testing.T) {
	dir := t.TempDir()
	st, err := store.NewFlatFile(dir)
	require.NoError(t, err)
	svc := New(st, config.AppConfig{
		ImagesDir:      dir,
		ImagesPrefix:   "/images",
		MaxUploadMB:    1,
		ModalBound:     800,
		ThumbnailBound: 280,
	})

	oversized := make([]byte, 1<<20+1)
	_, err = svc.Ingest(context.Background(), oversized, "image/png", "Big")
	assert.ErrorIs(t, err, store.ErrPayloadTooLarge)
}

func TestIngestSanitizesTitle(t *testing.T) {
	svc, _ := newTestService(t)

	rec, err := svc.Ingest(context.Background(), pngBytes(t, 10, 10), "image/png", "  <b>Bold</b>\ncat  ")
	require.NoError(t, err)
	assert.Equal(t, "Bold cat", rec.Title)
}

func TestConcurrentIngest(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	raw := pngBytes(t, 20, 20)
	var wg sync.WaitGroup
	errs := make([]error, 2)
	titles := []string{"First", "Second"}
	for i := range titles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Ingest(ctx, raw, "image/png", titles[i])
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	records, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestRenameAndDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Ingest(ctx, pngBytes(t, 10, 10), "image/png", "Before")
	require.NoError(t, err)

	require.NoError(t, svc.Rename(ctx, rec.ID, "After"))
	records, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "After", records[0].Title)
	assert.True(t, rec.UploadDate.Equal(records[0].UploadDate))

	assert.ErrorIs(t, svc.Rename(ctx, rec.ID, " "), store.ErrInvalidInput)
	assert.ErrorIs(t, svc.Delete(ctx, "nope"), store.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, rec.ID))
	records, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSweepOrphans(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Ingest(ctx, pngBytes(t, 10, 10), "image/png", "Referenced")
	require.NoError(t, err)

	old := time.Now().Add(-2 * time.Hour)
	aged := filepath.Join(dir, "999_dead0000_thumb.png")
	require.NoError(t, os.WriteFile(aged, []byte("orphan"), 0644))
	require.NoError(t, os.Chtimes(aged, old, old))

	fresh := filepath.Join(dir, "998_dead0001_modal.png")
	require.NoError(t, os.WriteFile(fresh, []byte("orphan"), 0644))

	removed, err := SweepOrphans(dir, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(aged)
	assert.True(t, os.IsNotExist(err), "aged orphan should be removed")
	_, err = os.Stat(fresh)
	assert.NoError(t, err, "orphan inside the grace period stays")
	_, err = os.Stat(filepath.Join(dir, filepath.Base(rec.ThumbnailPath)))
	assert.NoError(t, err, "referenced binary stays")
}
