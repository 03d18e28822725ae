package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvan/pixwall/models"
)

func testRecord(id, title string, uploadDate time.Time) (models.ImageRecord, models.VariantSet) {
	rec := models.ImageRecord{
		ID:            id,
		Title:         title,
		Path:          "/images/" + id + "_original.png",
		ModalPath:     "/images/" + id + "_modal.png",
		ThumbnailPath: "/images/" + id + "_thumb.png",
		UploadDate:    uploadDate,
	}
	variants := models.VariantSet{
		Original:  []byte("original-" + id),
		Modal:     []byte("modal-" + id),
		Thumbnail: []byte("thumb-" + id),
		Ext:       ".png",
	}
	return rec, variants
}

func newTestFlatFile(t *testing.T) (*FlatFile, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFlatFile(dir)
	require.NoError(t, err)
	return s, dir
}

func TestFlatFileCreateAndGet(t *testing.T) {
	s, dir := newTestFlatFile(t)
	ctx := context.Background()

	uploaded := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	rec, variants := testRecord("100_aaaa1111", "Harbor", uploaded)
	require.NoError(t, s.Create(ctx, rec, variants))

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Title, got.Title)
	assert.Equal(t, rec.Path, got.Path)
	assert.Equal(t, rec.ModalPath, got.ModalPath)
	assert.Equal(t, rec.ThumbnailPath, got.ThumbnailPath)
	assert.True(t, rec.UploadDate.Equal(got.UploadDate))

	for _, name := range []string{"100_aaaa1111_original.png", "100_aaaa1111_modal.png", "100_aaaa1111_thumb.png", "100_aaaa1111.md"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestFlatFileGetMissing(t *testing.T) {
	s, _ := newTestFlatFile(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFlatFileListEmpty(t *testing.T) {
	s, _ := newTestFlatFile(t)

	records, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestFlatFileListOrder(t *testing.T) {
	s, _ := newTestFlatFile(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	// Created oldest-date-last on purpose; listing must not depend on
	// directory enumeration or creation order.
	for i, id := range []string{"300_cccc3333", "100_aaaa1111", "200_bbbb2222"} {
		rec, variants := testRecord(id, "Image "+id, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, s.Create(ctx, rec, variants))
	}

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "200_bbbb2222", records[0].ID)
	assert.Equal(t, "100_aaaa1111", records[1].ID)
	assert.Equal(t, "300_cccc3333", records[2].ID)
	assert.True(t, records[0].UploadDate.After(records[1].UploadDate))
}

func TestFlatFileListMalformedDocument(t *testing.T) {
	s, dir := newTestFlatFile(t)
	ctx := context.Background()

	rec, variants := testRecord("100_aaaa1111", "Fine", time.Now().UTC())
	require.NoError(t, s.Create(ctx, rec, variants))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "999_broken99.md"), []byte("not a document"), 0644))

	_, err := s.List(ctx)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestFlatFileUpdateTitle(t *testing.T) {
	s, dir := newTestFlatFile(t)
	ctx := context.Background()

	uploaded := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	rec, variants := testRecord("100_aaaa1111", "Before", uploaded)
	require.NoError(t, s.Create(ctx, rec, variants))

	// Inject reserved body content to prove updates carry it through.
	docPath := filepath.Join(dir, rec.ID+".md")
	doc, err := os.ReadFile(docPath)
	require.NoError(t, err)
	header, _, err := DecodeDocument(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(docPath, EncodeDocument(header, "reserved description"), 0644))

	require.NoError(t, s.UpdateTitle(ctx, rec.ID, "After"))

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.True(t, rec.UploadDate.Equal(got.UploadDate))
	assert.Equal(t, rec.Path, got.Path)
	assert.Equal(t, rec.ModalPath, got.ModalPath)
	assert.Equal(t, rec.ThumbnailPath, got.ThumbnailPath)

	updated, err := os.ReadFile(docPath)
	require.NoError(t, err)
	_, body, err := DecodeDocument(updated)
	require.NoError(t, err)
	assert.Equal(t, "reserved description", body)
}

func TestFlatFileUpdateTitleEmpty(t *testing.T) {
	s, dir := newTestFlatFile(t)
	ctx := context.Background()

	rec, variants := testRecord("100_aaaa1111", "Keep", time.Now().UTC())
	require.NoError(t, s.Create(ctx, rec, variants))
	before, err := os.ReadFile(filepath.Join(dir, rec.ID+".md"))
	require.NoError(t, err)

	err = s.UpdateTitle(ctx, rec.ID, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	after, err := os.ReadFile(filepath.Join(dir, rec.ID+".md"))
	require.NoError(t, err)
	assert.Equal(t, before, after, "document must not be mutated on invalid input")
}

func TestFlatFileUpdateTitleMissing(t *testing.T) {
	s, _ := newTestFlatFile(t)

	err := s.UpdateTitle(context.Background(), "nope", "New")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFlatFileDelete(t *testing.T) {
	s, dir := newTestFlatFile(t)
	ctx := context.Background()

	rec, variants := testRecord("100_aaaa1111", "Gone", time.Now().UTC())
	require.NoError(t, s.Create(ctx, rec, variants))
	keep, keepVariants := testRecord("200_bbbb2222", "Stays", time.Now().UTC())
	require.NoError(t, s.Create(ctx, keep, keepVariants))

	require.NoError(t, s.Delete(ctx, rec.ID))

	for _, name := range []string{"100_aaaa1111.md", "100_aaaa1111_original.png", "100_aaaa1111_modal.png", "100_aaaa1111_thumb.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.True(t, os.IsNotExist(err), "%s should be removed", name)
	}

	got, err := s.Get(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stays", got.Title)
}

func TestFlatFileDeleteToleratesMissingBinary(t *testing.T) {
	s, dir := newTestFlatFile(t)
	ctx := context.Background()

	rec, variants := testRecord("100_aaaa1111", "Partial", time.Now().UTC())
	require.NoError(t, s.Create(ctx, rec, variants))
	require.NoError(t, os.Remove(filepath.Join(dir, "100_aaaa1111_modal.png")))

	assert.NoError(t, s.Delete(ctx, rec.ID))
}

func TestFlatFileDeleteMissing(t *testing.T) {
	s, _ := newTestFlatFile(t)

	err := s.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
